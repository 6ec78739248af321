package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"rkas-ledger/internal/domain"
	"rkas-ledger/internal/format"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// FileExporter writes ledger reports to files on disk.
type FileExporter struct {
	now func() time.Time
}

// NewFileExporter creates a new exporter stamping filenames with the current time.
func NewFileExporter() *FileExporter {
	return &FileExporter{now: time.Now}
}

// Export writes report in the given format into dir and returns the absolute path.
// The csv format is the ledger itself in round-trip layout, not the summary.
func (e *FileExporter) Export(report *domain.LedgerReport, records []domain.BudgetLedgerRecord, exportFormat, dir, base string) (string, error) {
	switch strings.ToLower(exportFormat) {
	case FormatCSV:
		return e.exportCSV(records, dir, base)
	case FormatJSON:
		return e.exportJSON(report, dir, base)
	case FormatPDF:
		return e.exportPDF(report, dir, base)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, exportFormat)
	}
}

func (e *FileExporter) exportCSV(records []domain.BudgetLedgerRecord, dir, base string) (string, error) {
	outputFilename, err := e.generateFilename(base, dir, FormatCSV)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(outputFilename, []byte(SerializeLedger(records)), 0644); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func (e *FileExporter) exportJSON(report *domain.LedgerReport, dir, base string) (string, error) {
	outputFilename, err := e.generateFilename(base, dir, FormatJSON)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func (e *FileExporter) exportPDF(report *domain.LedgerReport, dir, base string) (string, error) {
	outputFilename, err := e.generateFilename(base, dir, FormatPDF)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Ringkasan R-KAS per %s", report.Level)), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	widths := []float64{30, 95, 20, 45, 45, 30}
	headers := []string{"Kode", "Nama", "Item", "Anggaran", "Realisasi", "%"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	writeRow := func(s domain.CategorySummary) {
		if s.OverRealized() {
			pdf.SetTextColor(192, 0, 0)
		} else {
			pdf.SetTextColor(50, 50, 50)
		}
		cells := []string{
			s.CategoryCode,
			truncate(s.CategoryName, 55),
			fmt.Sprintf("%d", s.ItemCount),
			format.Currency(s.TotalBudget),
			format.Currency(s.TotalRealized),
			format.Percentage(s.RealizedPercentage),
		}
		aligns := []string{"L", "L", "R", "R", "R", "R"}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
	for _, s := range report.Summaries {
		writeRow(s)
	}
	pdf.SetFont("Arial", "B", 9)
	writeRow(report.Total)

	if len(report.Monthly) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr("Alokasi Bulanan"))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(50, 50, 50)
		for _, m := range report.Monthly {
			pdf.CellFormat(22, 6, tr(m.Month), "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, tr(format.Currency(m.Amount)), "1", 1, "R", false, 0, "")
		}
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated by rkas | %s", e.now().Format("2006-01-02"))), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func (e *FileExporter) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	if base == "" {
		base = "rkas_report"
	}
	timestamp := e.now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext)), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
