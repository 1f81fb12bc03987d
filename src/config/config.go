package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"termlife/src/game"
	"termlife/src/seeder"
	"termlife/src/universe"
)

//display modes
const (
	ModeTTY         = "tty"
	ModeInteractive = "ui"
	ModeHeadless    = "headless"
)

var Modes = []string{ModeTTY, ModeInteractive, ModeHeadless}

//Duration is time.Duration read from JSON as "50ms" or as nanoseconds
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "[Duration.UnmarshalJSON] invalid duration %q", value)
		}
		*d = Duration(parsed)
	default:
		return errors.Errorf("[Duration.UnmarshalJSON] invalid duration %s", b)
	}
	return nil
}

//Config holds the configuration for the game
type Config struct {
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	Interval    Duration `json:"interval"`
	MaxSteps    int      `json:"max_steps"`
	AutoReseed  bool     `json:"auto_reseed"`
	Engine      string   `json:"engine"`
	Workers     int      `json:"workers"`
	Mode        string   `json:"mode"`
	Template    string   `json:"template"`
	Seed        uint64   `json:"seed"` //0 picks the seed from the clock
	MinCells    int      `json:"min_cells"`
	MaxCells    int      `json:"max_cells"`
	LivingGlyph string   `json:"living_glyph"`
	DeadGlyph   string   `json:"dead_glyph"`
	Colors      bool     `json:"colors"`
	ReportEvery int      `json:"report_every"`
	LogFile     string   `json:"log_file"`
}

//Default returns the configuration of the classic program: 24x48 grid, 50ms ticks, endless reseeding
func Default() Config {
	return Config{
		Rows:        game.DefRows,
		Columns:     game.DefColumns,
		Interval:    Duration(game.DefSimulationInterval),
		AutoReseed:  true,
		Engine:      "base",
		Mode:        ModeTTY,
		MinCells:    seeder.DefMinCells,
		MaxCells:    seeder.DefMaxCells,
		LivingGlyph: universe.DefaultGlyphs.Living,
		DeadGlyph:   universe.DefaultGlyphs.Dead,
		ReportEvery: 100,
	}
}

//Load loads configuration from JSON file, the missing fields keep the defaults
func Load(filename string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[Load] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[Load] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

//Validate checks the values the simulation can not start with
func (c Config) Validate() error {
	if c.Rows < 0 || c.Columns < 0 {
		return errors.Errorf("[Validate] negative bounds %vx%v", c.Rows, c.Columns)
	}
	if c.Interval < 0 {
		return errors.Errorf("[Validate] negative interval %v", time.Duration(c.Interval))
	}
	if c.MaxSteps < 0 {
		return errors.Errorf("[Validate] negative max steps %v", c.MaxSteps)
	}
	if c.MinCells < 0 || c.MaxCells < c.MinCells {
		return errors.Errorf("[Validate] invalid seed cell range %v..%v", c.MinCells, c.MaxCells)
	}
	if c.LivingGlyph == "" || c.DeadGlyph == "" || c.LivingGlyph == c.DeadGlyph {
		return errors.Errorf("[Validate] living and dead glyphs must be set and differ, got %q and %q", c.LivingGlyph, c.DeadGlyph)
	}
	if _, ok := universe.Engines[c.Engine]; !ok {
		return errors.Errorf("[Validate] unknown engine %q", c.Engine)
	}
	if !validMode(c.Mode) {
		return errors.Errorf("[Validate] unknown mode %q", c.Mode)
	}
	if c.Template != "" {
		if _, err := seeder.LookupTemplate(c.Template); err != nil {
			return errors.Wrap(err, "[Validate] invalid template")
		}
	}
	return nil
}

func validMode(m string) bool {
	for _, v := range Modes {
		if v == m {
			return true
		}
	}
	return false
}

//Options returns the game loop options
func (c Config) Options() game.Options {
	return game.Options{
		Bounds:     c.Bounds(),
		Interval:   time.Duration(c.Interval),
		MaxSteps:   c.MaxSteps,
		AutoReseed: c.AutoReseed,
	}
}

func (c Config) Bounds() universe.Bounds {
	return universe.Bounds{Rows: c.Rows, Columns: c.Columns}
}

func (c Config) Glyphs() universe.Glyphs {
	return universe.Glyphs{Living: c.LivingGlyph, Dead: c.DeadGlyph}
}

//NewEngine creates the configured engine
func (c Config) NewEngine() (universe.Engine, error) {
	newEngine, ok := universe.Engines[c.Engine]
	if !ok {
		return nil, errors.Errorf("[NewEngine] unknown engine %q", c.Engine)
	}
	return newEngine(c.Workers), nil
}

//NewSeeder creates the random seeder, the zero seed is replaced with the clock
func (c Config) NewSeeder() (*seeder.Random, error) {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s, err := seeder.NewRandom(seed, c.MinCells, c.MaxCells)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSeeder] failed to create the seeder")
	}
	return s, nil
}

//InitialSeed returns the cells to start with: the template if set, otherwise a random seed
func (c Config) InitialSeed(random game.SeedGenerator) (universe.LivingSet, error) {
	var gen game.SeedGenerator = random
	if c.Template != "" {
		t, err := seeder.LookupTemplate(c.Template)
		if err != nil {
			return nil, errors.Wrap(err, "[InitialSeed] failed to look up the template")
		}
		gen = t
	}
	cells, err := gen.Generate(c.Bounds())
	if err != nil {
		return nil, errors.Wrap(err, "[InitialSeed] failed to seed")
	}
	return cells, nil
}

//Overlay returns base with every field of flags that differs from the default
//it lets the command line override the config file
func Overlay(base Config, flags Config) Config {
	d := Default()
	if flags.Rows != d.Rows {
		base.Rows = flags.Rows
	}
	if flags.Columns != d.Columns {
		base.Columns = flags.Columns
	}
	if flags.Interval != d.Interval {
		base.Interval = flags.Interval
	}
	if flags.MaxSteps != d.MaxSteps {
		base.MaxSteps = flags.MaxSteps
	}
	if flags.AutoReseed != d.AutoReseed {
		base.AutoReseed = flags.AutoReseed
	}
	if flags.Engine != d.Engine {
		base.Engine = flags.Engine
	}
	if flags.Workers != d.Workers {
		base.Workers = flags.Workers
	}
	if flags.Mode != d.Mode {
		base.Mode = flags.Mode
	}
	if flags.Template != d.Template {
		base.Template = flags.Template
	}
	if flags.Seed != d.Seed {
		base.Seed = flags.Seed
	}
	if flags.MinCells != d.MinCells {
		base.MinCells = flags.MinCells
	}
	if flags.MaxCells != d.MaxCells {
		base.MaxCells = flags.MaxCells
	}
	if flags.LivingGlyph != d.LivingGlyph {
		base.LivingGlyph = flags.LivingGlyph
	}
	if flags.DeadGlyph != d.DeadGlyph {
		base.DeadGlyph = flags.DeadGlyph
	}
	if flags.Colors != d.Colors {
		base.Colors = flags.Colors
	}
	if flags.ReportEvery != d.ReportEvery {
		base.ReportEvery = flags.ReportEvery
	}
	if flags.LogFile != d.LogFile {
		base.LogFile = flags.LogFile
	}
	return base
}
