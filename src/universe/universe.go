package universe

import (
	"sort"
	"strings"
)

//Coord is the cell position, 0-indexed
type Coord struct {
	Row int
	Col int
}

//Bounds is the box the universe is scanned, rendered and seeded in
type Bounds struct {
	Rows    int
	Columns int
}

//Cell is the state of a single cell
type Cell int

const (
	Dead Cell = iota
	Living
)

func (c Cell) String() string {
	if c == Living {
		return "living"
	}
	return "dead"
}

//Glyphs maps the cell states to the symbols shown on the screen
type Glyphs struct {
	Living string
	Dead   string
}

var DefaultGlyphs = Glyphs{Living: "+", Dead: "."}

//Symbol returns the glyph for the cell
func (g Glyphs) Symbol(c Cell) string {
	if c == Living {
		return g.Living
	}
	return g.Dead
}

//LivingSet is the set of alive cells, the entire simulation state
type LivingSet map[Coord]struct{}

//NewLivingSet creates the set from the coordinates, duplicates collapse
func NewLivingSet(cc ...Coord) LivingSet {
	s := make(LivingSet, len(cc))
	for _, c := range cc {
		s[c] = struct{}{}
	}
	return s
}

//FromPairs creates the set from the array of [row, col] pairs
//pairs with less than two items are skipped
func FromPairs(pairs [][]int) LivingSet {
	s := make(LivingSet, len(pairs))
	for _, p := range pairs {
		if len(p) < 2 {
			continue
		}
		s[Coord{p[0], p[1]}] = struct{}{}
	}
	return s
}

func (s LivingSet) Contains(c Coord) bool {
	_, ok := s[c]
	return ok
}

func (s LivingSet) Len() int {
	return len(s)
}

//Equal reports whether both sets hold the same coordinates
func (s LivingSet) Equal(o LivingSet) bool {
	if len(s) != len(o) {
		return false
	}
	for c := range s {
		if _, ok := o[c]; !ok {
			return false
		}
	}
	return true
}

//Clone returns the independent copy of the set
func (s LivingSet) Clone() LivingSet {
	n := make(LivingSet, len(s))
	for c := range s {
		n[c] = struct{}{}
	}
	return n
}

//Coords returns the coordinates sorted by row, then by column
func (s LivingSet) Coords() []Coord {
	cc := make([]Coord, 0, len(s))
	for c := range s {
		cc = append(cc, c)
	}
	sort.Slice(cc, func(i, j int) bool {
		if cc[i].Row != cc[j].Row {
			return cc[i].Row < cc[j].Row
		}
		return cc[i].Col < cc[j].Col
	})
	return cc
}

//Frame is the rectangular block of cells passed to a Renderer
type Frame struct {
	Bounds Bounds
	Cells  [][]Cell
}

//Text joins the frame rows with the line feed, every cell is replaced by its glyph
func (f Frame) Text(g Glyphs) string {
	var b strings.Builder
	for i, row := range f.Cells {
		if i != 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteString(g.Symbol(c))
		}
	}
	return b.String()
}

//Renderer displays the frame replacing the prior output
type Renderer interface {
	Draw(f Frame) error
}

//Engine derives the next generation of the universe
type Engine interface {
	Name() string
	Next(u *Universe) (LivingSet, error)
}

//Engines holds the engine constructors by name
var Engines = map[string]func(workers int) Engine{
	"base": func(int) Engine {
		return BaseEngine{}
	},
	"multithreaded": func(workers int) Engine {
		return MultithreadedEngine{Workers: workers}
	},
	"sparse": func(int) Engine {
		return SparseEngine{}
	},
}

//EngineNames returns the sorted names of the known engines
func EngineNames() []string {
	names := make([]string, 0, len(Engines))
	for k := range Engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
