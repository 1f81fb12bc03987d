package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"termlife/src/config"
	"termlife/src/game"
	"termlife/src/seeder"
	"termlife/src/universe"
	"termlife/src/view"
)

type EnvOptions struct {
	configFile string
	noReseed   bool
}

func main() {
	c, err := initOptions()
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	logger, closeLog, err := newLogger(c)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, c, os.Stdout, logger)
	stop()
	closeLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "termlife: %v\n", err)
		os.Exit(1)
	}
}

func initOptions() (c config.Config, err error) {
	c = config.Default()
	eo := EnvOptions{}
	interval := time.Duration(c.Interval)

	flaggy.SetName("termlife")
	flaggy.SetDescription("Conway's Game of Life in the terminal")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&eo.configFile, "f", "config", "JSON configuration file, the flags override its values")
	flaggy.Int(&c.Rows, "r", "rows", "Rows of a simulation field")
	flaggy.Int(&c.Columns, "c", "columns", "Columns of a simulation field")
	flaggy.Duration(&interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&c.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 is unlimited")
	flaggy.Bool(&eo.noReseed, "", "noReseed", "Stop when the universe is stable or extinct instead of reseeding")
	flaggy.String(&c.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	flaggy.Int(&c.Workers, "w", "workers", "Workers of the multithreaded engine, 0 is one per CPU")
	flaggy.String(&c.Mode, "m", "mode", "Display mode ["+strings.Join(config.Modes, "|")+"]")
	flaggy.String(&c.Template, "t", "template", "Start with the template ["+strings.Join(seeder.TemplateNames(), "|")+"] instead of random data")
	flaggy.UInt64(&c.Seed, "", "seed", "Random seed, 0 takes it from the clock")
	flaggy.Int(&c.MinCells, "", "minCells", "Minimum cells of a random seed")
	flaggy.Int(&c.MaxCells, "", "maxCells", "Maximum cells of a random seed")
	flaggy.String(&c.LivingGlyph, "", "living", "Glyph of a living cell")
	flaggy.String(&c.DeadGlyph, "", "dead", "Glyph of a dead cell")
	flaggy.Bool(&c.Colors, "", "color", "Colorize the output")
	flaggy.Int(&c.ReportEvery, "", "reportEvery", "Headless mode prints the progress every reportEvery generations")
	flaggy.String(&c.LogFile, "", "logfile", "Write the log to the file")

	flaggy.Parse()

	c.Interval = config.Duration(interval)
	if eo.noReseed {
		c.AutoReseed = false
	}
	if eo.configFile != "" {
		fc, err := config.Load(eo.configFile)
		if err != nil {
			return c, err
		}
		c = config.Overlay(fc, c)
	}
	return c, c.Validate()
}

//newLogger opens the log file, without it the log is discarded
//the headless mode has the terminal free, so it logs to stderr
func newLogger(c config.Config) (*log.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeLog := func() {}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[newLogger] failed to open %v", c.LogFile)
		}
		w = f
		closeLog = func() { _ = f.Close() }
	} else if c.Mode == config.ModeHeadless {
		w = os.Stderr
	}
	return log.New(w, "termlife: ", log.LstdFlags), closeLog, nil
}

//run builds the loop for the configured mode and runs it until ctx is done or the loop halts
func run(ctx context.Context, c config.Config, out io.Writer, logger *log.Logger) error {
	engine, err := c.NewEngine()
	if err != nil {
		return err
	}
	random, err := c.NewSeeder()
	if err != nil {
		return err
	}
	seed, err := c.InitialSeed(random)
	if err != nil {
		return err
	}
	logger.Printf("starting %vx%v, engine %v, mode %v, %v cells", c.Rows, c.Columns, engine.Name(), c.Mode, seed.Len())

	switch c.Mode {
	case config.ModeHeadless:
		co := view.NewConsoleOut(out, c.ReportEvery, c.Colors)
		loop := newLoop(c, engine, co, random, seed, logger)
		minCells, maxCells := random.Range()
		co.Register(loop.Options(), map[string]interface{}{
			"Engine":     engine.Name(),
			"Reseed":     c.AutoReseed,
			"Seed cells": fmt.Sprintf("%v..%v", minCells, maxCells),
		})
		co.Start()
		return loop.Run(ctx)

	case config.ModeInteractive:
		ui, err := view.NewConsoleUI(c.Glyphs(), c.Colors)
		if err != nil {
			return err
		}
		loop := newLoop(c, engine, ui, random, seed, logger)
		ui.Register(loop, loop.Options())

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		var eg errgroup.Group
		eg.Go(func() error {
			defer ui.Close()
			err := loop.Run(ctx)
			if errors.Cause(err) == view.ErrClosed {
				return nil
			}
			return err
		})
		eg.Go(func() error {
			defer cancel()
			return ui.Start()
		})
		return eg.Wait()

	default:
		t := view.NewTerminal(out, c.Glyphs(), c.Colors)
		loop := newLoop(c, engine, t, random, seed, logger)
		err := loop.Run(ctx)
		st := loop.Status()
		_, _ = fmt.Fprintf(out, "\nFinished after %v generations, %v reseeds\n", st.Generations, st.Reseeds)
		return err
	}
}

type viewRenderer interface {
	universe.Renderer
	game.Viewer
}

func newLoop(c config.Config, e universe.Engine, v viewRenderer, s game.SeedGenerator, seed universe.LivingSet, logger *log.Logger) *game.Loop {
	loop := game.NewLoop(c.Options(), e, v, s)
	loop.SetLogger(logger)
	loop.RegisterViewer(v)
	loop.Settle(seed)
	return loop
}
