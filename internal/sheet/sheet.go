// Package sheet renders the printable adventure record: a parchment page
// with the record title, the adventurer's name and ruled lines for notes.
package sheet

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	titleSize = 20
	fontSize  = 11
	lineGap   = 28.0
	utf8Font  = "record"
)

// Record is what gets printed.
type Record struct {
	Title    string
	UserName string
}

// Options controls rendering. FontPath, when set, must point at a TTF font
// covering the record's script (e.g. Noto Sans JP for Japanese names).
type Options struct {
	FontPath string
}

// Generate returns the PDF bytes for rec.
func Generate(rec Record, opts Options) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(rec.Title, true)

	family := "Helvetica"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		pdf.AddUTF8Font(utf8Font, "", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load sheet font %s: %w", opts.FontPath, err)
		}
		family = utf8Font
		text = func(s string) string { return s }
	}

	pdf.AddPage()

	// Parchment background
	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawWavyBorder(pdf)

	pdf.SetTextColor(80, 50, 30)
	pdf.SetFont(family, "", titleSize)
	pdf.SetXY(margin+20, margin+30)
	pdf.CellFormat(pageW-2*margin-40, 26, text(rec.Title), "", 0, "C", false, 0, "")

	pdf.SetFont(family, "", fontSize)
	pdf.SetXY(margin+20, margin+70)
	pdf.CellFormat(pageW-2*margin-40, 14, text(rec.UserName), "", 0, "R", false, 0, "")

	// Ruled lines for the log
	pdf.SetDrawColor(160, 130, 90)
	pdf.SetLineWidth(0.5)
	for y := float64(margin + 110); y < pageH-margin-30; y += lineGap {
		pdf.Line(margin+24, y, pageW-margin-24, y)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render sheet: %w", err)
	}
	return buf.Bytes(), nil
}

// drawWavyBorder draws a tattered black edge around the page.
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin, margin, pageW-2*margin, pageH-2*margin, 12, 4)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	edge := func(x0, y0, dx, dy, fx, fy float64, from int) {
		for i := from; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, gofpdf.PointType{
				X: x0 + t*dx + amp*math.Sin(float64(i)*fx),
				Y: y0 + t*dy + amp*math.Cos(float64(i)*fy),
			})
		}
	}
	edge(x, y, w, 0, 0.7, 0.5, 0)
	edge(x+w, y, 0, h, 0.6, 0.4, 1)
	edge(x+w, y+h, -w, 0, 0.8, 0.3, 1)
	edge(x, y+h, 0, -h, 0.5, 0.6, 1)
	return pts
}
