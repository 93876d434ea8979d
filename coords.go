package gridshell

import "image"

// CellMetrics describes the pixel geometry of one grid cell.
// Metrics change only when the font or the line spacing changes.
type CellMetrics struct {
	Width           int // cell width in pixels
	Height          int // cell height in pixels, including line spacing
	Ascent          int // baseline offset from the top of the cell
	UnderlineOffset int // underline offset below the baseline
}

// Valid returns true if the metrics can be used to map cells to pixels.
func (m CellMetrics) Valid() bool {
	return m.Width > 0 && m.Height > 0
}

// CellOrigin returns the top-left pixel of the cell at (row, col).
func (m CellMetrics) CellOrigin(row, col int) image.Point {
	return image.Point{X: col * m.Width, Y: row * m.Height}
}

// CellBlock returns the pixel block covering rows row1..row2 and columns col1..col2 (inclusive).
// Max is the inclusive bottom-right pixel of the block, so a single cell block
// is Width-1 pixels wide and Height-1 pixels high. Use PixelRect to get the painted area.
func (m CellMetrics) CellBlock(row1, col1, row2, col2 int) image.Rectangle {
	tl := m.CellOrigin(row1, col1)
	br := m.CellOrigin(row2+1, col2+1)
	return image.Rectangle{Min: tl, Max: br.Sub(image.Point{X: 1, Y: 1})}
}

// PixelRect converts an inclusive block into the half-open rectangle of pixels it covers.
func PixelRect(block image.Rectangle) image.Rectangle {
	return image.Rectangle{Min: block.Min, Max: block.Max.Add(image.Point{X: 1, Y: 1})}
}

// CellAt returns the cell containing the pixel (x, y).
// Returns (0, 0) if the metrics are not valid.
func (m CellMetrics) CellAt(x, y int) (row, col int) {
	if !m.Valid() {
		return 0, 0
	}
	return floorDiv(y, m.Height), floorDiv(x, m.Width)
}

// GridSize returns how many whole rows and columns fit in a w x h pixel area.
func (m CellMetrics) GridSize(w, h int) (rows, cols int) {
	if !m.Valid() || w <= 0 || h <= 0 {
		return 0, 0
	}
	return h / m.Height, w / m.Width
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
