package universe

/*
	Sparse next generation
	only the living cells and their neighbors can be alive in the next generation,
	so instead of walking the whole bounds only these candidates are tested
	the result is the same as NextGeneration gives
*/

//NextGenerationSparse calculates the next generation testing the candidate cells only
func (u *Universe) NextGenerationSparse() LivingSet {
	next := make(LivingSet)
	tested := make(map[Coord]bool, len(u.cells)*9)
	for c := range u.cells {
		for i := -1; i < 2; i++ {
			for j := -1; j < 2; j++ {
				n := Coord{c.Row + i, c.Col + j}
				if tested[n] || !u.inBounds(n) {
					continue
				}
				tested[n] = true
				if u.isViable(n.Row, n.Col) {
					next[n] = struct{}{}
				}
			}
		}
	}
	return next
}

func (u *Universe) inBounds(c Coord) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < u.bounds.Rows && c.Col < u.bounds.Columns
}

//SparseEngine computes the next generation with NextGenerationSparse
type SparseEngine struct{}

func (SparseEngine) Name() string {
	return "sparse"
}

func (SparseEngine) Next(u *Universe) (LivingSet, error) {
	return u.NextGenerationSparse(), nil
}
