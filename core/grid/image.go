package grid

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// Analysis describes how a composite strip splits into tiles.
type Analysis struct {
	Width     int
	Height    int
	SubWidth  int
	SubHeight int
	Count     int
	// Remainder is non-zero when the strip width is not divisible by the
	// tile width; the trailing partial tile is dropped.
	Remainder int
}

// Analyze determines tile count and dimensions for a horizontal strip.
// A zero subWidth defaults to the image height (square tiles).
func Analyze(img image.Image, subWidth int) (Analysis, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if subWidth <= 0 {
		subWidth = h
	}
	if subWidth <= 0 || w <= 0 {
		return Analysis{}, fmt.Errorf("degenerate image dimensions %dx%d", w, h)
	}
	return Analysis{
		Width:     w,
		Height:    h,
		SubWidth:  subWidth,
		SubHeight: h,
		Count:     w / subWidth,
		Remainder: w % subWidth,
	}, nil
}

// Reassemble slices the horizontal strip into tiles and pastes them into
// the most square-like grid, optionally scaling each tile. Unused cells
// stay white.
func Reassemble(img image.Image, subWidth int, scale float64) (image.Image, Layout, error) {
	a, err := Analyze(img, subWidth)
	if err != nil {
		return nil, Layout{}, err
	}
	if a.Count == 0 {
		return nil, Layout{}, fmt.Errorf("tile width %d wider than image width %d", a.SubWidth, a.Width)
	}
	if scale <= 0 {
		scale = 1.0
	}
	layout := Best(a.Count)

	outSubW := int(float64(a.SubWidth) * scale)
	outSubH := int(float64(a.SubHeight) * scale)
	out := image.NewRGBA(image.Rect(0, 0, outSubW*layout.Cols, outSubH*layout.Rows))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	for i := 0; i < a.Count; i++ {
		srcRect := image.Rect(i*a.SubWidth, 0, (i+1)*a.SubWidth, a.SubHeight).Add(img.Bounds().Min)

		var tile image.Image
		tile = cropped{src: img, rect: srcRect}
		if scale != 1.0 {
			tile = resize.Resize(uint(outSubW), uint(outSubH), tile, resize.Lanczos3)
		}

		row, col := i/layout.Cols, i%layout.Cols
		dstRect := image.Rect(col*outSubW, row*outSubH, (col+1)*outSubW, (row+1)*outSubH)
		draw.Draw(out, dstRect, tile, tile.Bounds().Min, draw.Src)
	}
	return out, layout, nil
}

// cropped adapts a sub-rectangle of an image without copying pixels.
type cropped struct {
	src  image.Image
	rect image.Rectangle
}

func (c cropped) ColorModel() color.Model { return c.src.ColorModel() }
func (c cropped) Bounds() image.Rectangle { return c.rect }
func (c cropped) At(x, y int) color.Color { return c.src.At(x, y) }

// DefaultOutputPath derives "<stem>_grid<ext>" from the input path.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return input[:len(input)-len(ext)] + "_grid" + ext
}

// ReassembleFile is the file-to-file convenience wrapper: decode the
// strip, reassemble, encode to outputPath (format chosen by extension,
// PNG for anything that is not .jpg/.jpeg).
func ReassembleFile(inputPath, outputPath string, subWidth int, scale float64) (Layout, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return Layout{}, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return Layout{}, fmt.Errorf("decode input: %w", err)
	}

	result, layout, err := Reassemble(img, subWidth, scale)
	if err != nil {
		return Layout{}, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return Layout{}, fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, result, &jpeg.Options{Quality: 92})
	default:
		err = png.Encode(out, result)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("encode output: %w", err)
	}
	return layout, nil
}
