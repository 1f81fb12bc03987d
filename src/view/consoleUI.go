package view

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"termlife/src/game"
	"termlife/src/universe"
)

//ErrClosed is returned by Draw when the UI is gone
var ErrClosed = errors.New("console UI is closed")

//Controller is the part of the loop the UI drives with the keys
type Controller interface {
	Reseed()
	TogglePause()
}

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive full screen view
//it draws the frames and the status, the keys control the loop
type ConsoleUI struct {
	c       Controller
	options game.Options
	g       *gocui.Gui
	k       []keyBindings
	glyphs  universe.Glyphs
	au      aurora.Aurora
	closed  atomic.Bool

	mu     sync.Mutex
	frame  universe.Frame
	status game.Status
}

var (
	runningStateColor = map[game.RunningState]aurora.Color{
		game.RunningStateRun:      aurora.CyanFg,
		game.RunningStateStagnant: aurora.YellowFg,
		game.RunningStatePaused:   aurora.BlueFg,
		game.RunningStateHalted:   aurora.RedFg,
	}
)

//NewConsoleUI creates the UI, the terminal is switched to the full screen mode immediately
func NewConsoleUI(g universe.Glyphs, colors bool) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		glyphs: g,
		au:     aurora.NewAurora(colors),
	}
	if colors {
		t.glyphs.Living = t.au.Green(g.Living).BgBrightGreen().String()
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "[NewConsoleUI] failed to init the terminal")
	}

	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'q',
			"Q",
			"Exit",
			t.cmdQuit,
			""},
		{'r',
			"R",
			"Reseed",
			t.cmdReseed,
			""},
		{gocui.KeySpace,
			"SPACE",
			"Pause/Resume",
			t.cmdPause,
			""},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return errors.Wrapf(err, "[ConsoleUI.initKeyBindings] key %v", kb.name)
		}
	}
	return nil
}

//Register attaches the loop controller and the configuration shown in the side panel
func (t *ConsoleUI) Register(c Controller, o game.Options) {
	t.c = c
	t.options = o
}

//Start runs the UI event loop until the exit key or Close
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	defer t.closed.Store(true)
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "[ConsoleUI.Start] main loop failed")
	}
	return nil
}

//Close asks the event loop to exit, returns immediately
//it does nothing once the event loop is gone
func (t *ConsoleUI) Close() {
	if t.closed.Load() {
		return
	}
	t.g.Update(func(*gocui.Gui) error {
		return gocui.ErrQuit
	})
}

//Draw implements universe.Renderer
func (t *ConsoleUI) Draw(f universe.Frame) error {
	if t.closed.Load() {
		return ErrClosed
	}
	t.mu.Lock()
	t.frame = f
	t.mu.Unlock()
	t.g.Update(func(g *gocui.Gui) error {
		t.renderField()
		return nil
	})
	return nil
}

//Refresh implements game.Viewer
func (t *ConsoleUI) Refresh(st game.Status) {
	t.mu.Lock()
	t.status = st
	t.mu.Unlock()
	t.g.Update(func(g *gocui.Gui) error {
		t.renderStatus()
		return nil
	})
}

func (t *ConsoleUI) renderField() {
	v, e := t.g.View("field")
	if e != nil {
		return
	}
	t.mu.Lock()
	f := t.frame
	t.mu.Unlock()
	//the entire field is redrawing at once
	v.Clear()
	maxW, maxH := v.Size()
	_, _ = fmt.Fprint(v, fieldText(f, t.glyphs, maxW, maxH, t.au.Red("The field size is larger than the viewing area").BgBlack().String()))
}

//fieldText renders the frame cropped to maxW x maxH
//the last visible line is replaced with the warning when the frame does not fit
func fieldText(f universe.Frame, g universe.Glyphs, maxW int, maxH int, warning string) string {
	crop := f.Bounds.Columns > maxW || f.Bounds.Rows > maxH

	var b bytes.Buffer
	for i, l := range f.Cells {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		if crop && i == (maxH-1) {
			b.WriteString(warning)
			break
		}
		for j, c := range l {
			if j >= maxW {
				break
			}
			b.WriteString(g.Symbol(c))
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus() {
	t.mu.Lock()
	s := t.status
	t.mu.Unlock()
	if v, e := t.g.View("status"); e == nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Iteration))
		_, _ = fmt.Fprintln(v, t.renderProp("Total", "%v", s.Generations))
		_, _ = fmt.Fprintln(v, t.renderProp("Reseeds", "%v", s.Reseeds))
		_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
		_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
		_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", t.au.Colorize(s.RunningMode, runningStateColor[s.RunningMode])))
	}
}

func (t *ConsoleUI) renderConfiguration() {
	c := t.options
	if v, e := t.g.View("configuration"); e == nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Bounds.Rows, c.Bounds.Columns))
		_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
		steps := "unlimited"
		if c.MaxSteps > 0 {
			steps = fmt.Sprintf("%v steps", c.MaxSteps)
		}
		_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v", steps))
		_, _ = fmt.Fprintln(v, t.renderProp("Reseed", "%v", c.AutoReseed))
	}
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return renderProp(t.au, name, valueformat, values...)
}

func renderProp(au aurora.Aurora, name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+au.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("field")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Conway's Game of Life"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("field", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Universe"
		v.Frame = true
	}
	t.renderField()

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, helpLine(t.au, t.k))
	}

	return nil
}

func helpLine(au aurora.Aurora, k []keyBindings) string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, kb := range k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(au.Green(kb.name).String())
		b.WriteString(": ")
		b.WriteString(kb.descr)
	}
	return b.String()
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdReseed(_ *gocui.View) error {
	if t.c != nil {
		t.c.Reseed()
	}
	return nil
}

func (t *ConsoleUI) cmdPause(_ *gocui.View) error {
	if t.c != nil {
		t.c.TogglePause()
	}
	return nil
}
