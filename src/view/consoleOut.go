package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"termlife/src/game"
	"termlife/src/universe"
)

//ConsoleOut is the headless view: frames are discarded, the progress is printed as lines
type ConsoleOut struct {
	w         io.Writer
	au        aurora.Aurora
	every     int
	startTime time.Time
}

//NewConsoleOut creates the view printing the progress every n generations
func NewConsoleOut(w io.Writer, every int, colors bool) *ConsoleOut {
	if every < 1 {
		every = 1
	}
	return &ConsoleOut{w: w, every: every, au: aurora.NewAurora(colors)}
}

//Draw implements universe.Renderer, nothing is shown
func (c *ConsoleOut) Draw(universe.Frame) error {
	return nil
}

func (c *ConsoleOut) Refresh(st game.Status) {
	switch st.RunningMode {
	case game.RunningStateHalted:
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		_, _ = fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(map[string]interface{}{
			"Generations": st.Generations,
			"Reseeds":     st.Reseeds,
			"Total time":  totalTime,
			"Live cells":  st.LiveCells,
		})
	case game.RunningStateStagnant:
		_, _ = fmt.Fprintf(c.w, "  Simulation took %v generations to go %v\n", st.Iteration, c.au.Yellow(stagnationKind(st)))
	case game.RunningStateRun:
		if st.Generations%c.every == 0 {
			_, _ = fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", st.Generations, st.LiveCells)
		}
	}
}

func stagnationKind(st game.Status) string {
	if st.LiveCells == 0 {
		return "extinct"
	}
	return "stagnant"
}

//Register prints the running configuration
func (c *ConsoleOut) Register(o game.Options, details map[string]interface{}) {
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Bounds.Rows, o.Bounds.Columns)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(details)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
