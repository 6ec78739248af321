package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rkas-ledger/internal/domain"
	"rkas-ledger/internal/gateway"
)

// Ledger is the in-memory record set of one session, plus per-source stats.
type Ledger struct {
	Records []domain.BudgetLedgerRecord
	Sources []domain.SourceStats
}

// LedgerUseCase orchestrates fetching, parsing, aggregating and exporting ledgers.
type LedgerUseCase struct {
	sources      []LedgerSource
	exporter     ReportExporter
	logger       *zap.Logger
	strictHeader bool
}

// Option configures a LedgerUseCase.
type Option func(*LedgerUseCase)

// WithStrictHeader makes Load fail when a source header does not match the
// expected column layout. Columns are still mapped by position either way.
func WithStrictHeader(strict bool) Option {
	return func(uc *LedgerUseCase) { uc.strictHeader = strict }
}

// NewLedgerUseCase creates a new instance of the usecase.
func NewLedgerUseCase(sources []LedgerSource, exporter ReportExporter, logger *zap.Logger, opts ...Option) *LedgerUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &LedgerUseCase{sources: sources, exporter: exporter, logger: logger}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load fetches all sources concurrently and parses them. Records keep source
// order and then file order. Any fetch failure fails the whole load.
func (uc *LedgerUseCase) Load(ctx context.Context) (*Ledger, error) {
	if len(uc.sources) == 0 {
		return nil, domain.ErrNoSources
	}

	results := make([]domain.ParseResult, len(uc.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range uc.sources {
		i, src := i, src
		g.Go(func() error {
			raw, err := src.FetchRaw(gctx)
			if err != nil {
				return fmt.Errorf("could not fetch ledger %s: %w", src.Name(), err)
			}
			results[i] = gateway.ParseLedgerDetailed(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ledger := &Ledger{
		Records: make([]domain.BudgetLedgerRecord, 0),
		Sources: make([]domain.SourceStats, 0, len(uc.sources)),
	}
	for i, res := range results {
		name := uc.sources[i].Name()
		if res.HeaderSeen && !res.HeaderMatches {
			if uc.strictHeader {
				return nil, fmt.Errorf("ledger %s: %w", name, domain.ErrHeaderMismatch)
			}
			uc.logger.Warn("Ledger header does not match expected layout, mapping by position",
				zap.String("source", name))
		}
		if res.RejectedRows > 0 {
			uc.logger.Warn("Dropped short ledger rows",
				zap.String("source", name),
				zap.Int("rejected", res.RejectedRows),
				zap.Int("minimum_fields", domain.MinimumFields))
		}
		uc.logger.Debug("Ledger parsed",
			zap.String("source", name),
			zap.Int("records", len(res.Records)))

		ledger.Records = append(ledger.Records, res.Records...)
		ledger.Sources = append(ledger.Sources, domain.SourceStats{
			Name:          name,
			Records:       len(res.Records),
			RejectedRows:  res.RejectedRows,
			HeaderMatches: res.HeaderMatches,
			Empty:         !res.HeaderSeen,
		})
	}
	return ledger, nil
}

// BuildReport loads the ledger, applies filter and summarizes at level.
// It returns the report and the filtered records it was computed from.
func (uc *LedgerUseCase) BuildReport(ctx context.Context, level Level, filter Filter) (*domain.LedgerReport, []domain.BudgetLedgerRecord, error) {
	ledger, err := uc.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	records := ledger.Records
	if !filter.IsZero() {
		records = FilterRecords(records, filter)
	}

	report := NewReport(records, level)
	report.Sources = ledger.Sources
	return report, records, nil
}

// NewReport aggregates records into a report. It is a pure function.
func NewReport(records []domain.BudgetLedgerRecord, level Level) *domain.LedgerReport {
	return &domain.LedgerReport{
		Level:     string(level),
		Summaries: SummarizeBy(records, level),
		Total:     Total(records),
		Monthly:   MonthlyTotals(records),
		Sources:   make([]domain.SourceStats, 0),
	}
}

// Export writes report in every requested format and returns the written paths.
func (uc *LedgerUseCase) Export(report *domain.LedgerReport, records []domain.BudgetLedgerRecord, formats []string, dir, base string) ([]string, error) {
	if uc.exporter == nil {
		return nil, errors.New("no report exporter configured")
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path, err := uc.exporter.Export(report, records, format, dir, base)
		if err != nil {
			return nil, fmt.Errorf("could not export %s report: %w", format, err)
		}
		uc.logger.Info("Report exported", zap.String("format", format), zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}
