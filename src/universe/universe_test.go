package universe

import (
	"testing"

	"github.com/pkg/errors"
)

type frameRecorder struct {
	frames []Frame
	err    error
}

func (r *frameRecorder) Draw(f Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

func set(pairs ...[2]int) LivingSet {
	s := make(LivingSet)
	for _, p := range pairs {
		s[Coord{p[0], p[1]}] = struct{}{}
	}
	return s
}

func TestLivingSet(t *testing.T) {
	s := NewLivingSet(Coord{1, 1}, Coord{1, 1}, Coord{0, 2})
	if s.Len() != 2 {
		t.Fatalf("duplicates should collapse, got %v cells", s.Len())
	}
	if !s.Contains(Coord{0, 2}) || s.Contains(Coord{2, 0}) {
		t.Fatalf("wrong membership: %v", s)
	}
	if !s.Equal(set([2]int{0, 2}, [2]int{1, 1})) {
		t.Fatal("equality must not depend on the insertion order")
	}
	if s.Equal(set([2]int{0, 2})) || s.Equal(set([2]int{0, 2}, [2]int{1, 2})) {
		t.Fatal("different sets reported equal")
	}
	c := s.Clone()
	c[Coord{5, 5}] = struct{}{}
	if s.Contains(Coord{5, 5}) {
		t.Fatal("clone shares the storage")
	}
	cc := FromPairs([][]int{{2, 1}, {0, 3}, {0, 1}, {7}}).Coords()
	want := []Coord{{0, 1}, {0, 3}, {2, 1}}
	if len(cc) != len(want) {
		t.Fatalf("coords = %v, want %v", cc, want)
	}
	for i := range want {
		if cc[i] != want[i] {
			t.Fatalf("coords = %v, want %v", cc, want)
		}
	}
}

func TestUniverseIsImmutable(t *testing.T) {
	cells := set([2]int{1, 1})
	u := New(cells, Bounds{3, 3})
	cells[Coord{2, 2}] = struct{}{}
	if u.IsLiving(2, 2) {
		t.Fatal("universe sees the changes of the source set")
	}
	u.Cells()[Coord{0, 0}] = struct{}{}
	if u.IsLiving(0, 0) {
		t.Fatal("universe sees the changes of the returned set")
	}
}

func TestLiveness(t *testing.T) {
	u := New(set([2]int{0, 0}, [2]int{3, 4}), Bounds{5, 5})
	tests := []struct {
		row, col int
		living   bool
	}{
		{0, 0, true},
		{3, 4, true},
		{4, 3, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		if got := u.IsLiving(tt.row, tt.col); got != tt.living {
			t.Errorf("IsLiving(%v,%v) = %v, want %v", tt.row, tt.col, got, tt.living)
		}
		if got := u.IsDead(tt.row, tt.col); got == tt.living {
			t.Errorf("IsDead(%v,%v) = %v, want %v", tt.row, tt.col, got, !tt.living)
		}
	}
	if u.Cell(0, 0) != Living || u.Cell(1, 1) != Dead {
		t.Fatal("Cell does not follow IsLiving")
	}
}

func TestNeighborCount(t *testing.T) {
	//full 3x3 square around (1,1)
	full := make(LivingSet)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			full[Coord{r, c}] = struct{}{}
		}
	}
	tests := []struct {
		name     string
		cells    LivingSet
		row, col int
		want     int
	}{
		{"empty", set(), 1, 1, 0},
		{"self is not counted", set([2]int{1, 1}), 1, 1, 0},
		{"full square", full, 1, 1, 8},
		{"corner of the square", full, 0, 0, 3},
		{"outside the bounds", set([2]int{-1, -1}, [2]int{-1, 0}), 0, 0, 2},
		{"distance two", set([2]int{3, 1}, [2]int{1, 3}), 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(tt.cells, Bounds{3, 3})
			if got := u.NeighborCount(tt.row, tt.col); got != tt.want {
				t.Errorf("NeighborCount(%v,%v) = %v, want %v", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

//neighbors places n living cells around (2,2) in the fixed order
func neighbors(n int) LivingSet {
	around := [][2]int{{1, 1}, {1, 2}, {1, 3}, {2, 1}, {2, 3}, {3, 1}, {3, 2}, {3, 3}}
	return set(around[:n]...)
}

func TestRules(t *testing.T) {
	for n := 0; n <= 8; n++ {
		alive := neighbors(n)
		alive[Coord{2, 2}] = struct{}{}
		survives := New(alive, Bounds{5, 5}).NextGeneration().Contains(Coord{2, 2})
		if want := n == 2 || n == 3; survives != want {
			t.Errorf("living cell with %v neighbors: alive=%v, want %v", n, survives, want)
		}

		born := New(neighbors(n), Bounds{5, 5}).NextGeneration().Contains(Coord{2, 2})
		if want := n == 3; born != want {
			t.Errorf("dead cell with %v neighbors: alive=%v, want %v", n, born, want)
		}
	}
}

func TestNextGenerationScenarios(t *testing.T) {
	block := set([2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2})
	tests := []struct {
		name   string
		cells  LivingSet
		bounds Bounds
		want   LivingSet
	}{
		{"block is a fixed point", block, Bounds{4, 4}, block},
		{"single cell dies", set([2]int{5, 5}), Bounds{10, 10}, set()},
		{"blinker turns", set([2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2}), Bounds{3, 3}, set([2]int{0, 1}, [2]int{1, 1}, [2]int{2, 1})},
		{"zero rows", block, Bounds{0, 4}, set()},
		{"zero columns", block, Bounds{4, 0}, set()},
		//the lower half of the block is outside the box: it still feeds the upper half, but is lost itself
		{"cropped to the bounds", set([2]int{2, 1}, [2]int{2, 2}, [2]int{3, 1}, [2]int{3, 2}), Bounds{3, 4}, set([2]int{2, 1}, [2]int{2, 2})},
		{"outside cells are lost", set([2]int{20, 20}, [2]int{20, 21}, [2]int{21, 20}, [2]int{21, 21}), Bounds{10, 10}, set()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(tt.cells, tt.bounds)
			for _, e := range EngineNames() {
				got, err := Engines[e](2).Next(u)
				if err != nil {
					t.Fatalf("%v: %v", e, err)
				}
				if !got.Equal(tt.want) {
					t.Errorf("%v: next = %v, want %v", e, got.Coords(), tt.want.Coords())
				}
			}
		})
	}
}

func TestBlinkerPeriod(t *testing.T) {
	start := set([2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})
	first := New(start, Bounds{3, 3}).NextGeneration()
	second := New(first, Bounds{3, 3}).NextGeneration()
	if first.Equal(start) {
		t.Fatal("blinker must change after one generation")
	}
	if !second.Equal(start) {
		t.Fatalf("blinker must return after two generations, got %v", second.Coords())
	}
}

func TestNextGenerationIsDeterministic(t *testing.T) {
	b := Bounds{30, 40}
	u := New(randomSet(b), b)
	want := u.NextGeneration()
	for i := 0; i < 3; i++ {
		if got := u.NextGeneration(); !got.Equal(want) {
			t.Fatalf("call %v differs", i)
		}
	}
}

func TestEnginesAgree(t *testing.T) {
	b := Bounds{37, 53}
	cells := randomSet(b)
	for gen := 0; gen < 10; gen++ {
		u := New(cells, b)
		want := u.NextGeneration()
		for _, workers := range []int{0, 1, 4, 100} {
			got, err := u.NextGenerationParallel(workers)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want) {
				t.Fatalf("generation %v: parallel with %v workers differs", gen, workers)
			}
		}
		if got := u.NextGenerationSparse(); !got.Equal(want) {
			t.Fatalf("generation %v: sparse differs", gen)
		}
		cells = want
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		rows, workers, areas int
	}{
		{24, 4, 4},
		{24, 100, 8},
		{2, 4, 1},
		{0, 4, 0},
	}
	for _, tt := range tests {
		areas := splitRows(tt.rows, tt.workers)
		if len(areas) != tt.areas {
			t.Errorf("splitRows(%v,%v) gives %v areas, want %v", tt.rows, tt.workers, len(areas), tt.areas)
		}
		next := 0
		for _, wa := range areas {
			if wa.y1 != next {
				t.Fatalf("splitRows(%v,%v): gap at row %v", tt.rows, tt.workers, next)
			}
			next = wa.y2
		}
		if next != tt.rows {
			t.Errorf("splitRows(%v,%v) covers %v rows", tt.rows, tt.workers, next)
		}
	}
}

func TestRender(t *testing.T) {
	r := &frameRecorder{}
	u := New(set([2]int{0, 0}), Bounds{2, 2})
	if err := u.Render(r); err != nil {
		t.Fatal(err)
	}
	if len(r.frames) != 1 {
		t.Fatalf("renderer called %v times", len(r.frames))
	}
	f := r.frames[0]
	want := [][]Cell{{Living, Dead}, {Dead, Dead}}
	for i := range want {
		for j := range want[i] {
			if f.Cells[i][j] != want[i][j] {
				t.Fatalf("cell (%v,%v) = %v, want %v", i, j, f.Cells[i][j], want[i][j])
			}
		}
	}
	if got := f.Text(DefaultGlyphs); got != "+.\n.." {
		t.Errorf("text = %q", got)
	}
	if got := f.Text(Glyphs{Living: "∆", Dead: " "}); got != "∆ \n  " {
		t.Errorf("text = %q", got)
	}
}

func TestRenderError(t *testing.T) {
	failure := errors.New("screen is gone")
	r := &frameRecorder{err: failure}
	err := New(set(), Bounds{1, 1}).Render(r)
	if errors.Cause(err) != failure {
		t.Fatalf("err = %v, want the renderer error", err)
	}
}
