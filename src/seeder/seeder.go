//Package seeder produces the living cells the simulation starts from and
//reseeds with once it goes stagnant.
package seeder

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"termlife/src/universe"
)

//default random seeding range
const (
	DefMinCells = 40
	DefMaxCells = 200
)

var ErrEmptyBounds = errors.New("bounds have no cells to seed")

//Random seeds a uniformly random count of cells at uniformly random positions inside the bounds
//the positions may repeat, the set collapses them
type Random struct {
	minCells int
	maxCells int

	mu sync.Mutex
	r  *rand.Rand
}

//NewRandom creates the deterministic random seeder
func NewRandom(seed uint64, minCells int, maxCells int) (*Random, error) {
	if minCells < 0 || maxCells < minCells {
		return nil, errors.Errorf("[NewRandom] invalid cell range %v..%v", minCells, maxCells)
	}
	return &Random{
		minCells: minCells,
		maxCells: maxCells,
		r:        rand.New(rand.NewPCG(seed, 0)),
	}, nil
}

//Range returns the bounds of the cell count
func (s *Random) Range() (minCells int, maxCells int) {
	return s.minCells, s.maxCells
}

func (s *Random) Generate(b universe.Bounds) (universe.LivingSet, error) {
	if b.Rows <= 0 || b.Columns <= 0 {
		return nil, errors.Wrapf(ErrEmptyBounds, "[Random.Generate] %vx%v", b.Rows, b.Columns)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.r == nil || s.minCells < 0 || s.maxCells < s.minCells {
		return nil, errors.Errorf("[Random.Generate] seeder is not set up, use NewRandom")
	}
	n := s.minCells + s.r.IntN(s.maxCells-s.minCells+1)
	cells := make(universe.LivingSet, n)
	for i := 0; i < n; i++ {
		cells[universe.Coord{Row: s.r.IntN(b.Rows), Col: s.r.IntN(b.Columns)}] = struct{}{}
	}
	return cells, nil
}

//Template represents the seeding template which can be used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [row, col] coordinates
}

//Generate returns the template cells, the ones outside the bounds are skipped
func (t Template) Generate(b universe.Bounds) (universe.LivingSet, error) {
	cells := make(universe.LivingSet, len(t.Coordinates))
	for c := range universe.FromPairs(t.Coordinates) {
		if c.Row < 0 || c.Col < 0 || c.Row >= b.Rows || c.Col >= b.Columns {
			continue
		}
		cells[c] = struct{}{}
	}
	if len(cells) == 0 {
		return nil, errors.Errorf("[Template.Generate] template %q does not fit %vx%v", t.Name, b.Rows, b.Columns)
	}
	return cells, nil
}

var (
	mu        sync.RWMutex
	templates = map[string]Template{}
)

//AddTemplate adds the seeding template to the internal storage
func AddTemplate(t Template) {
	mu.Lock()
	templates[t.Name] = t
	mu.Unlock()
}

//LookupTemplate returns the template by name
func LookupTemplate(name string) (Template, error) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := templates[name]
	if !ok {
		return Template{}, errors.Errorf("[LookupTemplate] unknown template %q", name)
	}
	return t, nil
}

//TemplateNames returns the sorted template names
func TemplateNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(templates))
	for k := range templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func init() {
	AddTemplate(Template{
		"columns",
		"five columns of six cells, the classic starting seed",
		[][]int{
			{1, 7}, {1, 9}, {1, 2}, {1, 3}, {1, 6},
			{2, 7}, {2, 9}, {2, 2}, {2, 3}, {2, 6},
			{3, 7}, {3, 9}, {3, 2}, {3, 3}, {3, 6},
			{4, 7}, {4, 9}, {4, 2}, {4, 3}, {4, 6},
			{5, 7}, {5, 9}, {5, 2}, {5, 3}, {5, 6},
			{6, 7}, {6, 9}, {6, 2}, {6, 3}, {6, 6},
		},
	})
	AddTemplate(Template{
		"testSample",
		"the test sample with 3 stable patterns",
		[][]int{
			{1, 1}, {1, 2},
			{2, 1}, {2, 2},
			{3, 3},
			{4, 2},
			{4, 3},
			{5, 3},
		},
	})
	AddTemplate(Template{"block", "2x2 still life", [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}})
	AddTemplate(Template{"blinker", "period 2 oscillator", [][]int{{1, 0}, {1, 1}, {1, 2}}})
	AddTemplate(Template{"glider", "the smallest spaceship", [][]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}})
}
