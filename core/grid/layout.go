// Package grid converts horizontally concatenated image strips into a
// near-square 2D grid layout. The layout search is a pure geometric
// calculation; the reassembly slices the strip and pastes each tile into
// its grid cell.
package grid

import "math"

// Layout is a grid shape in rows and columns.
type Layout struct {
	Rows int
	Cols int
}

// Option is one candidate layout with its scoring components.
type Option struct {
	Rows  int
	Cols  int
	Ratio float64 // aspect ratio, larger dimension over smaller
	Empty int     // unused cells
	Score float64 // ratio plus 0.1 penalty per empty cell, lower is better
}

// Options enumerates candidate layouts for n tiles: every row count from
// 1 up to sqrt(n)+1, columns rounded up to fit all tiles.
func Options(n int) []Option {
	if n <= 0 {
		return nil
	}
	maxRows := int(math.Sqrt(float64(n))) + 2
	opts := make([]Option, 0, maxRows-1)
	for rows := 1; rows < maxRows; rows++ {
		cols := (n + rows - 1) / rows
		ratio := float64(max(rows, cols)) / float64(min(rows, cols))
		empty := rows*cols - n
		opts = append(opts, Option{
			Rows:  rows,
			Cols:  cols,
			Ratio: ratio,
			Empty: empty,
			Score: ratio + float64(empty)*0.1,
		})
	}
	return opts
}

// Best picks the most square-like layout for n tiles: lowest score,
// first candidate wins ties. n <= 0 yields the zero layout.
func Best(n int) Layout {
	best := Layout{Rows: n, Cols: 1}
	bestScore := math.Inf(1)
	for _, opt := range Options(n) {
		if opt.Score < bestScore {
			bestScore = opt.Score
			best = Layout{Rows: opt.Rows, Cols: opt.Cols}
		}
	}
	if n <= 0 {
		return Layout{}
	}
	return best
}
