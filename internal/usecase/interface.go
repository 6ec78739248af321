package usecase

import (
	"context"

	"rkas-ledger/internal/domain"
)

// LedgerSource supplies raw ledger text. The usecase layer depends on this
// interface, not on where the text lives.
//
//go:generate mockgen -destination=mocks/mock_interface.go -source=interface.go
type LedgerSource interface {
	Name() string
	FetchRaw(ctx context.Context) (string, error)
}

// ReportExporter writes a report in a single format and returns the file path.
type ReportExporter interface {
	Export(report *domain.LedgerReport, records []domain.BudgetLedgerRecord, format, dir, base string) (string, error)
}
