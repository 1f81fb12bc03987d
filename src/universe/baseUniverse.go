package universe

import (
	"github.com/pkg/errors"
)

//Universe holds one generation: the living cells and the bounds
//it is never changed after creation, the next generation makes the new Universe
type Universe struct {
	cells  LivingSet
	bounds Bounds
}

//New creates the Universe, the cells are copied
//negative bounds are treated as zero
func New(cells LivingSet, b Bounds) *Universe {
	if b.Rows < 0 {
		b.Rows = 0
	}
	if b.Columns < 0 {
		b.Columns = 0
	}
	return &Universe{cells: cells.Clone(), bounds: b}
}

//Bounds returns the universe's scanning box
func (u *Universe) Bounds() Bounds {
	return u.bounds
}

//Cells returns the copy of the living cells
func (u *Universe) Cells() LivingSet {
	return u.cells.Clone()
}

//Population returns the count of living cells, including the ones outside the bounds
func (u *Universe) Population() int {
	return len(u.cells)
}

func (u *Universe) IsLiving(row int, col int) bool {
	return u.cells.Contains(Coord{row, col})
}

func (u *Universe) IsDead(row int, col int) bool {
	return !u.IsLiving(row, col)
}

//Cell returns the state of the cell at row, col
func (u *Universe) Cell(row int, col int) Cell {
	if u.IsLiving(row, col) {
		return Living
	}
	return Dead
}

//NeighborCount counts living cells around row, col (Moore neighborhood)
//the cell itself is never counted
func (u *Universe) NeighborCount(row int, col int) int {
	n := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			if u.cells.Contains(Coord{row + i, col + j}) {
				n++
			}
		}
	}
	return n
}

//NextGeneration walks the bounds and collects the cells alive in the next generation
//the cells outside the bounds are not tested and die
func (u *Universe) NextGeneration() LivingSet {
	next := make(LivingSet)
	u.walkRows(0, u.bounds.Rows, func(c Coord) {
		next[c] = struct{}{}
	})
	return next
}

//Render builds the frame for the bounds and passes it to the renderer
func (u *Universe) Render(r Renderer) error {
	f := Frame{Bounds: u.bounds, Cells: make([][]Cell, u.bounds.Rows)}
	for row := range f.Cells {
		line := make([]Cell, u.bounds.Columns)
		for col := range line {
			line[col] = u.Cell(row, col)
		}
		f.Cells[row] = line
	}
	if err := r.Draw(f); err != nil {
		return errors.Wrap(err, "[Universe.Render] renderer failed")
	}
	return nil
}

//walkRows calls cb for every viable cell in rows [from, to)
func (u *Universe) walkRows(from int, to int, cb func(c Coord)) {
	for row := from; row < to; row++ {
		for col := 0; col < u.bounds.Columns; col++ {
			if u.isViable(row, col) {
				cb(Coord{row, col})
			}
		}
	}
}

//isViable applies B3/S23 to the cell
func (u *Universe) isViable(row int, col int) bool {
	n := u.NeighborCount(row, col)
	if u.IsLiving(row, col) {
		return n == 2 || n == 3
	}
	return n == 3
}

//BaseEngine computes the next generation in the caller's goroutine
type BaseEngine struct{}

func (BaseEngine) Name() string {
	return "base"
}

func (BaseEngine) Next(u *Universe) (LivingSet, error) {
	return u.NextGeneration(), nil
}
