package game

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"termlife/src/universe"
)

//SeedGenerator produces the living cells to start or restart the simulation with
type SeedGenerator interface {
	Generate(b universe.Bounds) (universe.LivingSet, error)
}

//Viewer is the interface to any object who wants to follow the loop status
type Viewer interface {
	Refresh(st Status)
}

//Options represents the loop's configurable options
type Options struct {
	Bounds     universe.Bounds
	Interval   time.Duration //pause between the ticks, 0 runs as fast as possible
	MaxSteps   int           //halt after this count of generations, 0 means unlimited
	AutoReseed bool          //reseed on stagnation, otherwise halt
}

//Status represents the status of the loop at concrete moment
type Status struct {
	Iteration     int //generations since the last (re)seed
	Generations   int //generations in total
	Reseeds       int
	LiveCells     int
	RunningMode   RunningState
	IterationTime time.Duration
}

//The loop running status at the concrete moment
type RunningState int

const (
	RunningStateRun RunningState = iota
	RunningStateStagnant
	RunningStatePaused
	RunningStateHalted
)

func (s RunningState) String() string {
	switch s {
	case RunningStateRun:
		return "running"
	case RunningStateStagnant:
		return "stagnant"
	case RunningStatePaused:
		return "paused"
	case RunningStateHalted:
		return "halted"
	}
	return "unknown"
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 50
	DefRows               = 24
	DefColumns            = 48
)

var DefaultOptions = Options{
	Bounds:     universe.Bounds{Rows: DefRows, Columns: DefColumns},
	Interval:   DefSimulationInterval,
	AutoReseed: true,
}

type command int

const (
	cmdReseed command = iota
	cmdTogglePause
)

//Loop drives the generations: renders, derives the next one, reseeds on stagnation and paces the ticks
//Run and Step must be called from one goroutine, the other methods are safe from any goroutine
type Loop struct {
	options  Options
	engine   universe.Engine
	renderer universe.Renderer
	seeder   SeedGenerator
	views    []Viewer
	logger   *log.Logger

	state struct {
		Status
		sync.Mutex
	}
	lastSeed  universe.LivingSet
	reseed    bool
	paused    bool
	controlCh chan command
}

//NewLoop creates the loop, nil engine means the base one
func NewLoop(o Options, e universe.Engine, r universe.Renderer, s SeedGenerator) *Loop {
	if e == nil {
		e = universe.BaseEngine{}
	}
	return &Loop{
		options:   o,
		engine:    e,
		renderer:  r,
		seeder:    s,
		logger:    log.New(io.Discard, "", 0),
		controlCh: make(chan command, 10),
	}
}

//SetLogger sets the logger for the reseed and halt events
func (l *Loop) SetLogger(lg *log.Logger) {
	if lg != nil {
		l.logger = lg
	}
}

//RegisterViewer registers the viewer - the loop will call the viewer after every tick
func (l *Loop) RegisterViewer(v Viewer) {
	l.views = append(l.views, v)
}

//Options returns the loop configuration
func (l *Loop) Options() Options {
	return l.options
}

//Status returns current loop status
func (l *Loop) Status() Status {
	l.state.Lock()
	defer l.state.Unlock()
	return l.state.Status
}

//Settle sets the cells the next tick starts from and resets the counters
func (l *Loop) Settle(cells universe.LivingSet) {
	l.lastSeed = cells.Clone()
	l.updateState(func(s *Status) {
		*s = Status{LiveCells: cells.Len(), RunningMode: RunningStateRun}
	})
}

//Reseed asks the loop to replace the cells with a new seed on the next tick, returns immediately
func (l *Loop) Reseed() {
	l.send(cmdReseed)
}

//TogglePause pauses or resumes Run, returns immediately
func (l *Loop) TogglePause() {
	l.send(cmdTogglePause)
}

func (l *Loop) send(c command) {
	select {
	case l.controlCh <- c:
	default:
		//the loop is gone or flooded, the request is dropped
	}
}

//Run ticks until ctx is cancelled or the loop halts
//renderer and seeder errors stop the loop and are returned
func (l *Loop) Run(ctx context.Context) error {
	for {
		if l.paused {
			if !l.waitResume(ctx) {
				l.halt("cancelled")
				return nil
			}
			continue
		}
		st, err := l.Step()
		if err != nil {
			return err
		}
		if st.RunningMode == RunningStateHalted {
			return nil
		}
		if !l.sleep(ctx) {
			l.halt("cancelled")
			return nil
		}
	}
}

//Step does one tick: render, next generation, stagnation check
func (l *Loop) Step() (Status, error) {
	l.drainCommands()
	if l.lastSeed == nil || l.reseed {
		if err := l.newSeed(l.lastSeed != nil); err != nil {
			return l.Status(), err
		}
		l.reseed = false
	}

	start := time.Now()
	u := universe.New(l.lastSeed, l.options.Bounds)
	if err := u.Render(l.renderer); err != nil {
		return l.Status(), errors.Wrap(err, "[Loop.Step] render failed")
	}
	seed, err := l.engine.Next(u)
	if err != nil {
		return l.Status(), errors.Wrapf(err, "[Loop.Step] %v engine failed", l.engine.Name())
	}
	stagnant := seed.Len() == 0 || seed.Equal(l.lastSeed)
	l.lastSeed = seed

	st := l.updateState(func(s *Status) {
		s.Iteration++
		s.Generations++
		s.LiveCells = seed.Len()
		s.IterationTime = time.Since(start)
		s.RunningMode = RunningStateRun
		if l.paused {
			s.RunningMode = RunningStatePaused
		}
		if stagnant {
			s.RunningMode = RunningStateStagnant
		}
	})
	l.refreshView(st)

	if l.options.MaxSteps > 0 && st.Generations >= l.options.MaxSteps {
		return l.halt("max steps reached"), nil
	}
	if !stagnant {
		return st, nil
	}
	if !l.options.AutoReseed {
		return l.halt("stagnant"), nil
	}
	l.logger.Printf("stagnant after %v generations, reseeding", st.Iteration)
	if err := l.newSeed(true); err != nil {
		return l.Status(), err
	}
	return l.Status(), nil
}

//newSeed replaces the cells with the seeder's ones
//the per-seed iteration counter is reset, the total is kept
func (l *Loop) newSeed(reseed bool) error {
	seed, err := l.seeder.Generate(l.options.Bounds)
	if err != nil {
		return errors.Wrap(err, "[Loop.newSeed] seed generator failed")
	}
	l.lastSeed = seed
	l.updateState(func(s *Status) {
		s.Iteration = 0
		s.LiveCells = seed.Len()
		s.RunningMode = RunningStateRun
		if reseed {
			s.Reseeds++
		}
	})
	return nil
}

//halt switches the loop to the terminal state and returns the halted status
func (l *Loop) halt(reason string) Status {
	st := l.updateState(func(s *Status) {
		s.RunningMode = RunningStateHalted
	})
	l.logger.Printf("halted after %v generations: %v", st.Generations, reason)
	l.refreshView(st)
	return st
}

//sleep waits for the interval handling the commands
//returns false if ctx is done
func (l *Loop) sleep(ctx context.Context) bool {
	if l.options.Interval <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(l.options.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case c := <-l.controlCh:
			l.apply(c)
		case <-t.C:
			return true
		}
	}
}

//waitResume blocks while the loop is paused
func (l *Loop) waitResume(ctx context.Context) bool {
	for l.paused {
		select {
		case <-ctx.Done():
			return false
		case c := <-l.controlCh:
			l.apply(c)
		}
	}
	return true
}

func (l *Loop) drainCommands() {
	for {
		select {
		case c := <-l.controlCh:
			l.apply(c)
		default:
			return
		}
	}
}

func (l *Loop) apply(c command) {
	switch c {
	case cmdReseed:
		l.reseed = true
	case cmdTogglePause:
		l.paused = !l.paused
		mode := RunningStateRun
		if l.paused {
			mode = RunningStatePaused
		}
		l.refreshView(l.updateState(func(s *Status) {
			s.RunningMode = mode
		}))
	}
}

func (l *Loop) updateState(f func(s *Status)) Status {
	l.state.Lock()
	defer l.state.Unlock()
	f(&l.state.Status)
	return l.state.Status
}

//refreshView calls Refresh for all registered views
func (l *Loop) refreshView(st Status) {
	for _, v := range l.views {
		v.Refresh(st)
	}
}
