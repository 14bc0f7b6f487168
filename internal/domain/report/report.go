// Package report renders a maintenance and its checklist into a paginated A4 PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/juniu86/rr-guanabara/internal/domain/catalog"
	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

// Layout, in points.
const (
	margin          = 50.0
	headerHeight    = 120.0
	summaryBreakY   = 700.0
	checklistBreakY = 750.0
	equipmentChars  = 35
	labelChars      = 15
	actionChars     = 80
)

type rgb struct{ r, g, b int }

var (
	darkBlue  = rgb{0x00, 0x1c, 0x3d}
	lightBlue = rgb{0x09, 0x63, 0xed}
	white     = rgb{0xff, 0xff, 0xff}
	black     = rgb{0x00, 0x00, 0x00}
	grey      = rgb{0x66, 0x66, 0x66}
)

// Input is everything a report is rendered from.
type Input struct {
	// Maintenance must carry its ChecklistItems. The checklist table prints them by item number.
	Maintenance    *models.Maintenance
	Station        *models.Station
	TechnicianName string
	// Now stamps the footer and the document metadata.
	Now time.Time
}

// Document is a rendered report.
type Document struct {
	Bytes []byte
	Pages int
}

// Generator renders reports. It is safe for concurrent use.
type Generator struct {
	loc      *time.Location
	compress bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithoutCompression writes uncompressed page streams, which keeps text searchable in tests.
func WithoutCompression() Option {
	return func(g *Generator) { g.compress = false }
}

// NewGenerator returns a Generator printing dates in loc.
func NewGenerator(loc *time.Location, opts ...Option) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	g := &Generator{loc: loc, compress: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders in. Identical inputs produce identical bytes.
func (g *Generator) Generate(in Input) (*Document, error) {
	if in.Maintenance == nil || in.Station == nil {
		return nil, errors.New("report: maintenance and station are required")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(g.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(in.Now)
	pdf.SetModificationDate(in.Now)
	pdf.SetTitle("Relatório de Manutenção Preventiva "+in.Maintenance.PreventiveNumber, true)
	pdf.SetAuthor("RR Engenharia e Soluções", true)
	pdf.AliasNbPages("{nb}")

	w := &writer{pdf: pdf, enc: encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())}
	footerDate := formatDate(in.Now, g.loc)
	pdf.SetFooterFunc(func() {
		pageW, pageH := pdf.GetPageSize()
		w.font("", 8, grey)
		pdf.SetXY(margin, pageH-margin)
		w.cell(pageW-2*margin, fmt.Sprintf("Página %d de {nb} | RR Engenharia e Soluções | %s", pdf.PageNo(), footerDate), "C")
	})

	pdf.AddPage()
	g.header(w)
	g.info(w, in)

	var nonConformities []models.ChecklistItem
	for _, item := range in.Maintenance.ChecklistItems {
		if item.Status != models.ItemConfere && item.Status != models.ItemNaoConferido {
			nonConformities = append(nonConformities, item)
		}
	}
	if len(nonConformities) > 0 {
		g.summary(w, nonConformities)
	}
	g.checklist(w, in.Maintenance.ChecklistItems)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &Document{Bytes: buf.Bytes(), Pages: pdf.PageCount()}, nil
}

func (g *Generator) header(w *writer) {
	pageW, _ := w.pdf.GetPageSize()
	w.pdf.SetFillColor(darkBlue.r, darkBlue.g, darkBlue.b)
	w.pdf.Rect(0, 0, pageW, headerHeight, "F")

	w.font("B", 24, white)
	w.text(margin, 30, "RR ENGENHARIA E SOLUÇÕES")
	w.font("", 12, lightBlue)
	w.text(margin, 60, "Sua Parceira em Obras e Instalações")
	w.font("B", 18, white)
	w.text(margin, 85, "Relatório de Manutenção Preventiva")
}

func (g *Generator) info(w *writer, in Input) {
	m := in.Maintenance
	y := 150.0

	w.font("B", 14, black)
	w.text(margin, y, "Informações da Manutenção")
	y += 25

	w.font("", 10, black)
	lines := []string{
		"Cliente: CASAS GUANABARA",
		"Posto: " + in.Station.Name,
		"Endereço: " + in.Station.Address,
		"Preventiva Nº: " + m.PreventiveNumber,
		"Data: " + formatDate(m.Date, g.loc),
		"Técnico: " + in.TechnicianName,
	}
	for _, line := range lines {
		w.text(margin, y, line)
		y += 15
	}
	y += 10

	if m.Observations != nil && *m.Observations != "" {
		w.font("B", 12, black)
		w.text(margin, y, "Observações Gerais:")
		y += 15
		w.font("", 10, black)
		w.paragraph(margin, y, 500, *m.Observations)
	}
}

func (g *Generator) summary(w *writer, items []models.ChecklistItem) {
	w.pdf.AddPage()
	y := margin

	w.font("B", 14, darkBlue)
	w.text(margin, y, "Resumo Executivo - Não Conformidades")
	y += 25

	w.font("", 10, black)
	w.text(margin, y, fmt.Sprintf("Total de não conformidades encontradas: %d", len(items)))
	y += 20

	for i, item := range items {
		if y > summaryBreakY {
			w.pdf.AddPage()
			y = margin
		}

		w.font("B", 10, black)
		w.text(margin, y, fmt.Sprintf("%d. %s", i+1, item.EquipmentName))
		y += 15

		w.font("", 9, black)
		w.text(70, y, "Status: "+catalog.StatusLabel(item.Status))
		y += 12

		if item.CorrectiveAction != nil && *item.CorrectiveAction != "" {
			w.paragraph(70, y, 450, "Ação Corretiva: "+*item.CorrectiveAction)
			y += 15
		}
		y += 10
	}
}

func (g *Generator) checklist(w *writer, items []models.ChecklistItem) {
	w.pdf.AddPage()
	y := margin

	w.font("B", 14, darkBlue)
	w.text(margin, y, "Checklist de Equipamentos")
	y += 25

	w.pdf.SetFillColor(lightBlue.r, lightBlue.g, lightBlue.b)
	w.pdf.Rect(margin, y, 500, 20, "F")
	w.font("B", 9, white)
	w.text(55, y+5, "Item")
	w.text(100, y+5, "Equipamento")
	w.text(380, y+5, "Status")
	w.text(480, y+5, "Valor")
	y += 25

	for _, item := range byItemNumber(items) {
		if y > checklistBreakY {
			w.pdf.AddPage()
			y = margin
		}

		value := "-"
		if item.Value != nil && *item.Value != "" {
			value = *item.Value
		}
		w.font("", 8, black)
		w.text(55, y, fmt.Sprintf("%d", item.ItemNumber))
		w.text(100, y, truncate(item.EquipmentName, equipmentChars))
		w.text(380, y, truncate(catalog.StatusLabel(item.Status), labelChars))
		w.text(480, y, value)
		y += 15

		if item.CorrectiveAction != nil && *item.CorrectiveAction != "" {
			w.font("", 7, grey)
			w.paragraph(100, y, 400, "Ação: "+truncate(*item.CorrectiveAction, actionChars))
			y += 12
		}
	}
}

// byItemNumber returns a copy of items sorted by item number, keeping insertion order on ties.
func byItemNumber(items []models.ChecklistItem) []models.ChecklistItem {
	sorted := make([]models.ChecklistItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ItemNumber < sorted[j].ItemNumber })
	return sorted
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
