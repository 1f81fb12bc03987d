package universe

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

/*
	Multithreaded next generation
	the bounds are splitted into the row bands each of which is computed by individual goroutine
	the result is the same as NextGeneration gives
*/

const (
	DefMinRowsPerWorker = 3 //minimum rows for one worker
)

//workArea describes the band of rows for the worker
type workArea struct {
	y1    int
	y2    int //exclusive
	cells []Coord
}

//splitRows creates the work areas for the rows, no more than workers of them
func splitRows(rows int, workers int) []workArea {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	linesPerWorker := (rows + workers - 1) / workers
	if linesPerWorker < DefMinRowsPerWorker {
		linesPerWorker = DefMinRowsPerWorker
	}
	areas := make([]workArea, 0, workers)
	for y1 := 0; y1 < rows; y1 += linesPerWorker {
		areas = append(areas, workArea{y1: y1, y2: min(y1+linesPerWorker, rows)})
	}
	return areas
}

//NextGenerationParallel calculates the next generation using the row bands
//workers less than 1 means one worker per CPU
func (u *Universe) NextGenerationParallel(workers int) (LivingSet, error) {
	areas := splitRows(u.bounds.Rows, workers)

	var eg errgroup.Group
	for i := range areas {
		wa := &areas[i]
		eg.Go(func() error {
			u.walkRows(wa.y1, wa.y2, func(c Coord) {
				wa.cells = append(wa.cells, c)
			})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "[Universe.NextGenerationParallel] worker failed")
	}

	next := make(LivingSet)
	for _, wa := range areas {
		for _, c := range wa.cells {
			next[c] = struct{}{}
		}
	}
	return next, nil
}

//MultithreadedEngine computes the next generation with NextGenerationParallel
type MultithreadedEngine struct {
	Workers int
}

func (MultithreadedEngine) Name() string {
	return "multithreaded"
}

func (e MultithreadedEngine) Next(u *Universe) (LivingSet, error) {
	return u.NextGenerationParallel(e.Workers)
}
