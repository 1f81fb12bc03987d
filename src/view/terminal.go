package view

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"termlife/src/game"
	"termlife/src/universe"
)

const (
	escClearScreen = "\x1b[2J"
	escCursorHome  = "\x1b[H"
	escClearLine   = "\x1b[K"
)

//Terminal redraws the whole frame in place: the cursor goes to the origin and the frame overwrites the previous one
//the status line is printed under the frame
type Terminal struct {
	w      io.Writer
	glyphs universe.Glyphs
	au     aurora.Aurora

	mu      sync.Mutex
	cleared bool
	rows    int
	err     error //the last Refresh write error, reported by the next Draw
}

func NewTerminal(w io.Writer, g universe.Glyphs, colors bool) *Terminal {
	t := &Terminal{w: w, glyphs: g, au: aurora.NewAurora(colors)}
	if colors {
		t.glyphs.Living = t.au.BrightGreen(g.Living).String()
	}
	return t
}

//Draw implements universe.Renderer
func (t *Terminal) Draw(f universe.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}

	var b bytes.Buffer
	if !t.cleared {
		b.WriteString(escClearScreen)
		t.cleared = true
	}
	b.WriteString(escCursorHome)
	b.WriteString(f.Text(t.glyphs))
	t.rows = f.Bounds.Rows
	if _, err := t.w.Write(b.Bytes()); err != nil {
		return errors.Wrap(err, "[Terminal.Draw] write failed")
	}
	return nil
}

//Refresh implements game.Viewer
func (t *Terminal) Refresh(st game.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	//one empty line between the frame and the status
	line := fmt.Sprintf("\x1b[%d;1H%s%v  generation %v  total %v  reseeds %v  live %v\n",
		t.rows+2, escClearLine, t.au.Colorize(st.RunningMode, runningStateColor[st.RunningMode]),
		st.Iteration, st.Generations, st.Reseeds, st.LiveCells)
	if _, err := io.WriteString(t.w, line); err != nil && t.err == nil {
		t.err = errors.Wrap(err, "[Terminal.Refresh] write failed")
	}
}
