package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"termlife/src/seeder"
)

func writeFile(t *testing.T, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	o := c.Options()
	if o.Bounds.Rows != 24 || o.Bounds.Columns != 48 || o.Interval != 50*time.Millisecond || !o.AutoReseed {
		t.Fatalf("default options = %+v", o)
	}
}

func TestLoad(t *testing.T) {
	p := writeFile(t, `{"rows": 10, "interval": "150ms", "engine": "multithreaded", "workers": 3, "auto_reseed": false}`)
	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if c.Rows != 10 || c.Columns != 48 {
		t.Errorf("bounds = %vx%v, want 10x48", c.Rows, c.Columns)
	}
	if time.Duration(c.Interval) != 150*time.Millisecond {
		t.Errorf("interval = %v", time.Duration(c.Interval))
	}
	if c.AutoReseed {
		t.Error("auto_reseed was not overridden")
	}
	e, err := c.NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != "multithreaded" {
		t.Errorf("engine = %v", e.Name())
	}
}

func TestLoadNanosecondInterval(t *testing.T) {
	c, err := Load(writeFile(t, `{"interval": 1000000}`))
	if err != nil {
		t.Fatal(err)
	}
	if time.Duration(c.Interval) != time.Millisecond {
		t.Errorf("interval = %v", time.Duration(c.Interval))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected the error for the missing file")
	}
	for _, data := range []string{`{"rows": "many"}`, `{"interval": "soon"}`, `{"interval": true}`, `not json`} {
		if _, err := Load(writeFile(t, data)); err == nil {
			t.Errorf("expected the error for %v", data)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		change func(c *Config)
	}{
		{"negative rows", func(c *Config) { c.Rows = -1 }},
		{"negative columns", func(c *Config) { c.Columns = -1 }},
		{"negative interval", func(c *Config) { c.Interval = Duration(-time.Second) }},
		{"negative steps", func(c *Config) { c.MaxSteps = -1 }},
		{"min above max", func(c *Config) { c.MinCells, c.MaxCells = 10, 5 }},
		{"same glyphs", func(c *Config) { c.DeadGlyph = c.LivingGlyph }},
		{"empty glyph", func(c *Config) { c.LivingGlyph = "" }},
		{"unknown engine", func(c *Config) { c.Engine = "quantum" }},
		{"unknown mode", func(c *Config) { c.Mode = "gui" }},
		{"unknown template", func(c *Config) { c.Template = "spaceship" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.change(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected the validation error")
			}
		})
	}
}

func TestInitialSeed(t *testing.T) {
	c := Default()
	c.Seed = 5
	random, err := c.NewSeeder()
	if err != nil {
		t.Fatal(err)
	}

	c.Template = "block"
	cells, err := c.InitialSeed(random)
	if err != nil {
		t.Fatal(err)
	}
	block, _ := seeder.LookupTemplate("block")
	want, _ := block.Generate(c.Bounds())
	if !cells.Equal(want) {
		t.Fatalf("template seed = %v", cells.Coords())
	}

	c.Template = ""
	cells, err = c.InitialSeed(random)
	if err != nil {
		t.Fatal(err)
	}
	if cells.Len() == 0 {
		t.Fatal("random seed is empty")
	}
}

func TestOverlay(t *testing.T) {
	file := Default()
	file.Rows = 10
	file.Engine = "sparse"
	file.Colors = true

	flags := Default()
	flags.Rows = 30
	flags.AutoReseed = false

	c := Overlay(file, flags)
	if c.Rows != 30 {
		t.Errorf("rows = %v, the flag must win", c.Rows)
	}
	if c.Engine != "sparse" || !c.Colors {
		t.Errorf("file values lost: %+v", c)
	}
	if c.AutoReseed {
		t.Error("auto reseed flag lost")
	}
	if c.Columns != Default().Columns {
		t.Errorf("columns = %v", c.Columns)
	}
}
