// Package render writes maintenance report documents as PDF files.
package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"hourmeter-backend/internal/alarm"
	"hourmeter-backend/internal/report"
)

const (
	issuedLayout = "02/01/2006 15:04"
	stampLayout  = "20060102_150405"

	labelWidth = 40.0
	valueWidth = 130.0
	alarmWidth = 110.0
	stateWidth = 60.0
	rowHeight  = 7.0
)

type rgb struct{ r, g, b int }

var (
	titleColor    = rgb{0x0d, 0x47, 0xa1}
	subtitleColor = rgb{0x19, 0x76, 0xd2}
	sectionColor  = rgb{0x1a, 0x23, 0x7e}
	labelFill     = rgb{0xe3, 0xf2, 0xfd}
	reachedFill   = rgb{0xff, 0xeb, 0xee}
	reachedText   = rgb{0xc6, 0x28, 0x28}
	pendingFill   = rgb{0xf5, 0xf5, 0xf5}
	gridColor     = rgb{0x80, 0x80, 0x80}
)

// PDFRenderer renders report documents to A4 PDF files under Dir.
type PDFRenderer struct {
	Dir         string
	CompanyName string
}

// NewPDFRenderer creates a renderer writing into dir.
func NewPDFRenderer(dir, companyName string) *PDFRenderer {
	return &PDFRenderer{Dir: dir, CompanyName: companyName}
}

// FileName returns the artifact name for a document:
// report_<id>_<yyyymmdd_hhmmss>.pdf, stamped with the issue time.
func FileName(doc *report.Document) string {
	return fmt.Sprintf("report_%d_%s.pdf", doc.RecordID, doc.IssuedAt.Format(stampLayout))
}

// Render writes doc and returns the path of the generated file.
func (r *PDFRenderer) Render(doc *report.Document) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetTitle(fmt.Sprintf("Report %s", doc.Number), true)
	pdf.SetAuthor(r.CompanyName, true)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	p := &page{pdf: pdf, tr: tr}

	p.header(r.CompanyName, doc)
	p.section("DADOS DO CLIENTE", [][2]string{
		{"Nome:", doc.Client.Name},
		{"CNPJ/CPF:", doc.Client.TaxID},
		{"Endereço:", doc.Client.Address},
	})
	p.section("DADOS DA MÁQUINA", [][2]string{
		{"Marca:", doc.Machine.Brand},
		{"Modelo:", doc.Machine.Model},
		{"Ano:", fmt.Sprint(doc.Machine.Year)},
	})
	p.section("DADOS DO TRABALHO", [][2]string{
		{"Local de Trabalho:", doc.Session.Location},
		{"Data Início:", doc.Session.StartDate},
		{"Data Final:", doc.Session.EndDate},
		{"Horímetro Inicial:", report.FormatHours(doc.Session.InitialMeter) + " horas"},
		{"Horímetro Final:", report.FormatHours(doc.Session.FinalMeter) + " horas"},
		{"Horas Trabalhadas:", report.FormatHours(doc.Session.HoursWorked) + " horas"},
	})
	p.alarms(doc.Alarms)
	p.total(doc.TotalHours)
	p.signature(r.CompanyName)

	path := filepath.Join(r.Dir, FileName(doc))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	log.Printf("Rendered report %s to %s", doc.Number, path)
	return path, nil
}

// RemoveArtifacts deletes every rendered PDF of a record and returns how many
// files were removed.
func (r *PDFRenderer) RemoveArtifacts(recordID int64) (int, error) {
	matches, err := filepath.Glob(filepath.Join(r.Dir, fmt.Sprintf("report_%d_*.pdf", recordID)))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove %s: %w", m, err)
		}
		removed++
	}
	return removed, nil
}

// page wraps the fpdf document with the report's drawing primitives.
type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *page) text(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *page) fill(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }

func (p *page) header(company string, doc *report.Document) {
	p.pdf.SetFont("Helvetica", "B", 18)
	p.text(titleColor)
	p.pdf.CellFormat(0, 10, p.tr(company), "", 1, "C", false, 0, "")

	p.pdf.SetFont("Helvetica", "B", 12)
	p.text(subtitleColor)
	p.pdf.CellFormat(0, 8, p.tr("RELATÓRIO DE HORA MÁQUINA TRABALHADA"), "", 1, "C", false, 0, "")
	p.pdf.Ln(5)

	p.pdf.SetFont("Helvetica", "B", 10)
	p.text(rgb{})
	p.pdf.CellFormat(30, 6, p.tr("Relatório Nº:"), "", 0, "L", false, 0, "")
	p.text(reachedText)
	p.pdf.CellFormat(0, 6, doc.Number, "", 1, "L", false, 0, "")

	p.text(rgb{})
	p.pdf.CellFormat(30, 6, p.tr("Data de Emissão:"), "", 0, "L", false, 0, "")
	p.pdf.SetFont("Helvetica", "", 10)
	p.pdf.CellFormat(0, 6, doc.IssuedAt.Format(issuedLayout), "", 1, "L", false, 0, "")
	p.pdf.Ln(5)
}

func (p *page) title(s string) {
	p.pdf.SetFont("Helvetica", "B", 11)
	p.text(sectionColor)
	p.pdf.CellFormat(0, 7, p.tr(s), "", 1, "L", false, 0, "")
}

func (p *page) section(title string, rows [][2]string) {
	p.title(title)
	p.pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)
	p.pdf.SetLineWidth(0.2)
	p.text(rgb{})
	for _, row := range rows {
		p.fill(labelFill)
		p.pdf.SetFont("Helvetica", "B", 10)
		p.pdf.CellFormat(labelWidth, rowHeight, p.tr(row[0]), "1", 0, "R", true, 0, "")
		p.pdf.SetFont("Helvetica", "", 10)
		p.pdf.CellFormat(valueWidth, rowHeight, p.tr(row[1]), "1", 1, "L", false, 0, "")
	}
	p.pdf.Ln(5)
}

func (p *page) alarms(rows []alarm.ThresholdStatus) {
	p.title("ALARMES / MANUTENÇÃO (por modelo)")
	for _, row := range rows {
		label := fmt.Sprintf("%.0f HORAS", row.Hours)
		if row.Status == alarm.StatusReached {
			p.pdf.SetFont("Helvetica", "B", 10)
			p.fill(reachedFill)
			p.text(rgb{})
			p.pdf.CellFormat(alarmWidth, rowHeight, label, "1", 0, "L", true, 0, "")
			p.fill(pendingFill)
			p.text(reachedText)
			p.pdf.CellFormat(stateWidth, rowHeight, "ATENDIDO", "1", 1, "L", true, 0, "")
			continue
		}
		p.pdf.SetFont("Helvetica", "", 10)
		p.fill(pendingFill)
		p.text(rgb{})
		p.pdf.CellFormat(alarmWidth, rowHeight, label, "1", 0, "L", true, 0, "")
		p.pdf.CellFormat(stateWidth, rowHeight, "PENDENTE", "1", 1, "L", true, 0, "")
	}
	p.pdf.Ln(6)
}

func (p *page) total(hours float64) {
	p.pdf.SetFont("Helvetica", "B", 14)
	p.fill(sectionColor)
	p.text(rgb{0xff, 0xff, 0xff})
	p.pdf.CellFormat(alarmWidth, 14, "TOTAL DE HORAS TRABALHADAS (modelo):", "", 0, "R", true, 0, "")
	p.pdf.CellFormat(stateWidth, 14, report.FormatHours(hours)+" HORAS", "", 1, "C", true, 0, "")
}

func (p *page) signature(company string) {
	p.pdf.Ln(30)
	y := p.pdf.GetY()
	left, _, _, _ := p.pdf.GetMargins()
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.SetLineWidth(0.3)
	p.pdf.Line(left, y, left+60, y)

	p.pdf.SetFont("Helvetica", "", 10)
	p.text(rgb{})
	p.pdf.CellFormat(60, 6, p.tr(fmt.Sprintf("Assinatura Autorizada (%s)", shortName(company))), "", 1, "C", false, 0, "")
}

// shortName keeps the first word of a company name, for the signature caption.
func shortName(company string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(company), " ")
	return first
}
