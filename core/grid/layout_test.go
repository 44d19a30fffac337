package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestSquareCounts(t *testing.T) {
	assert.Equal(t, Layout{Rows: 1, Cols: 1}, Best(1))
	assert.Equal(t, Layout{Rows: 2, Cols: 2}, Best(4))
	assert.Equal(t, Layout{Rows: 3, Cols: 3}, Best(9))
	assert.Equal(t, Layout{Rows: 4, Cols: 4}, Best(16))
}

func TestBestNonSquareCounts(t *testing.T) {
	// 平分但有两种朝向时取先枚举到的（行少的）
	assert.Equal(t, Layout{Rows: 2, Cols: 3}, Best(6))
	assert.Equal(t, Layout{Rows: 3, Cols: 4}, Best(12))

	// 8张：3x3留一个空格(1.1)比2x4(2.0)更接近正方形
	assert.Equal(t, Layout{Rows: 3, Cols: 3}, Best(8))

	assert.Equal(t, Layout{Rows: 1, Cols: 2}, Best(2))
}

func TestBestDegenerate(t *testing.T) {
	assert.Equal(t, Layout{}, Best(0))
	assert.Equal(t, Layout{}, Best(-3))
}

func TestOptionsScoring(t *testing.T) {
	opts := Options(6)
	assert.Len(t, opts, 3)

	for _, opt := range opts {
		assert.GreaterOrEqual(t, opt.Rows*opt.Cols, 6, "every layout must fit all tiles")
		assert.Equal(t, opt.Rows*opt.Cols-6, opt.Empty)
		assert.InDelta(t, opt.Ratio+float64(opt.Empty)*0.1, opt.Score, 1e-9)
	}

	assert.Nil(t, Options(0))
}

func TestBestAlwaysFits(t *testing.T) {
	for n := 1; n <= 100; n++ {
		l := Best(n)
		assert.GreaterOrEqual(t, l.Rows*l.Cols, n, "n=%d", n)
	}
}
