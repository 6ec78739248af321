package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"rkas-ledger/internal/domain"
	"rkas-ledger/internal/format"
	"rkas-ledger/internal/usecase"
)

var (
	boldRed    = color.New(color.FgRed, color.Bold).SprintFunc()
	boldGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	boldYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const fallbackLevelTitle = "Kelompok"

var levelTitles = map[usecase.Level]string{
	usecase.LevelCategory: "Bidang",
	usecase.LevelStandard: "Standar",
	usecase.LevelActivity: "Kegiatan",
	usecase.LevelFunding:  "Sumber Dana",
	usecase.LevelAccount:  "Rekening",
}

// LevelTitle returns the column heading for a grouping level.
func LevelTitle(level string) string {
	if title, ok := levelTitles[usecase.Level(level)]; ok {
		return title
	}
	return fallbackLevelTitle
}

// Presenter writes ledger reports to a terminal.
type Presenter struct {
	out io.Writer
}

// NewPresenter creates a presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// SummaryTableData lays out a report as table rows, header first and total last.
// Over-realized groups are highlighted in red.
func SummaryTableData(report *domain.LedgerReport) pterm.TableData {
	data := pterm.TableData{
		{"Kode", LevelTitle(report.Level), "Item", "Anggaran", "Realisasi", "Sisa", "Realisasi %"},
	}
	for _, s := range report.Summaries {
		data = append(data, summaryRow(s))
	}
	total := summaryRow(report.Total)
	for i := range total {
		total[i] = boldCyan(total[i])
	}
	return append(data, total)
}

func summaryRow(s domain.CategorySummary) []string {
	pct := format.Percentage(s.RealizedPercentage)
	if s.OverRealized() {
		pct = boldRed(pct)
	}
	return []string{
		s.CategoryCode,
		s.CategoryName,
		strconv.Itoa(s.ItemCount),
		format.Currency(s.TotalBudget),
		format.Currency(s.TotalRealized),
		format.Currency(s.Remaining()),
		pct,
	}
}

// RenderReport returns the boxed summary table as a string.
func RenderReport(report *domain.LedgerReport) (string, error) {
	return pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(SummaryTableData(report)).
		Srender()
}

// PrintReport writes the summary table, or an empty-state notice when the
// report holds no records.
func (p *Presenter) PrintReport(report *domain.LedgerReport) error {
	if report.Total.ItemCount == 0 {
		fmt.Fprintln(p.out, boldYellow("Tidak ada data anggaran untuk ditampilkan."))
		p.printRejected(report.Sources)
		return nil
	}

	table, err := RenderReport(report)
	if err != nil {
		return fmt.Errorf("failed to render summary table: %w", err)
	}
	fmt.Fprintln(p.out, table)
	p.printMonthly(report.Monthly)
	p.printRejected(report.Sources)
	return nil
}

func (p *Presenter) printMonthly(monthly []domain.MonthlyAllocation) {
	if len(monthly) == 0 {
		return
	}
	parts := make([]string, 0, len(monthly))
	for _, m := range monthly {
		parts = append(parts, fmt.Sprintf("%s %s", m.Month, format.Currency(m.Amount)))
	}
	fmt.Fprintln(p.out, "Alokasi bulanan: "+strings.Join(parts, " | "))
}

func (p *Presenter) printRejected(sources []domain.SourceStats) {
	for _, s := range sources {
		if s.RejectedRows > 0 {
			fmt.Fprintln(p.out, boldYellow(fmt.Sprintf("%s: %d baris dilewati (kolom kurang dari %d)", s.Name, s.RejectedRows, domain.MinimumFields)))
		}
	}
}

// PrintSourceStats writes one line per source for the validate command.
func (p *Presenter) PrintSourceStats(sources []domain.SourceStats) {
	for _, s := range sources {
		header := boldGreen("header OK")
		switch {
		case s.Empty:
			header = boldYellow("sumber kosong")
		case !s.HeaderMatches:
			header = boldRed("header tidak sesuai")
		}
		fmt.Fprintf(p.out, "%s: %d record, %d baris dilewati, %s\n", s.Name, s.Records, s.RejectedRows, header)
	}
}

// PrintPaths lists exported files.
func (p *Presenter) PrintPaths(paths []string) {
	for _, path := range paths {
		fmt.Fprintln(p.out, boldGreen("Laporan disimpan: ")+path)
	}
}

// Banner returns the colored application title.
func Banner(version string) string {
	return boldCyan(fmt.Sprintf("R-KAS Ledger CLI (v%s)", version))
}
