package report

import (
	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
)

// writer draws text at absolute positions with the core Helvetica font.
// Core fonts are Windows-1252, so every string is transcoded before drawing.
type writer struct {
	pdf  *fpdf.Fpdf
	enc  *encoding.Encoder
	size float64
}

func (w *writer) font(style string, size float64, c rgb) {
	w.pdf.SetFont("Helvetica", style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
	w.size = size
}

func (w *writer) lineHeight() float64 {
	return w.size * 1.2
}

// text draws s with its top edge at y.
func (w *writer) text(x, y float64, s string) {
	w.pdf.SetXY(x, y)
	w.pdf.CellFormat(0, w.lineHeight(), w.encode(s), "", 0, "L", false, 0, "")
}

func (w *writer) cell(width float64, s, align string) {
	w.pdf.CellFormat(width, w.lineHeight(), w.encode(s), "", 0, align, false, 0, "")
}

// paragraph wraps s to width starting at (x, y).
func (w *writer) paragraph(x, y, width float64, s string) {
	w.pdf.SetXY(x, y)
	w.pdf.MultiCell(width, w.lineHeight(), w.encode(s), "", "L", false)
}

func (w *writer) encode(s string) string {
	out, err := w.enc.String(s)
	if err != nil {
		return s
	}
	return out
}
