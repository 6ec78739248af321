package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"rkas-ledger/internal/domain"
	"rkas-ledger/internal/gateway"
	"rkas-ledger/internal/usecase"
	mock_usecase "rkas-ledger/internal/usecase/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ledgerText(rows ...domain.BudgetLedgerRecord) string {
	return gateway.SerializeLedger(rows)
}

func newSource(ctrl *gomock.Controller, name, raw string, err error) *mock_usecase.MockLedgerSource {
	src := mock_usecase.NewMockLedgerSource(ctrl)
	src.EXPECT().Name().Return(name).AnyTimes()
	src.EXPECT().FetchRaw(gomock.Any()).Return(raw, err)
	return src
}

func TestLedgerUseCase_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	records := exampleRecords()

	tests := []struct {
		name        string
		sources     func() []usecase.LedgerSource
		strict      bool
		wantRecords []string
		wantStats   []domain.SourceStats
		wantErr     error
	}{
		{
			name: "single source",
			sources: func() []usecase.LedgerSource {
				return []usecase.LedgerSource{newSource(ctrl, "a.csv", ledgerText(records...), nil)}
			},
			wantRecords: []string{"Pensil", "Buku", "Bola"},
			wantStats:   []domain.SourceStats{{Name: "a.csv", Records: 3, HeaderMatches: true}},
		},
		{
			name: "multiple sources keep source order",
			sources: func() []usecase.LedgerSource {
				return []usecase.LedgerSource{
					newSource(ctrl, "a.csv", ledgerText(records[2]), nil),
					newSource(ctrl, "b.csv", ledgerText(records[0], records[1]), nil),
				}
			},
			wantRecords: []string{"Bola", "Pensil", "Buku"},
			wantStats: []domain.SourceStats{
				{Name: "a.csv", Records: 1, HeaderMatches: true},
				{Name: "b.csv", Records: 2, HeaderMatches: true},
			},
		},
		{
			name: "short rows are counted, not fatal",
			sources: func() []usecase.LedgerSource {
				raw := ledgerText(records[0]) + "01,Kurikulum,Buku\n"
				return []usecase.LedgerSource{newSource(ctrl, "a.csv", raw, nil)}
			},
			wantRecords: []string{"Pensil"},
			wantStats:   []domain.SourceStats{{Name: "a.csv", Records: 1, RejectedRows: 1, HeaderMatches: true}},
		},
		{
			name: "empty source",
			sources: func() []usecase.LedgerSource {
				return []usecase.LedgerSource{newSource(ctrl, "empty.csv", "", nil)}
			},
			wantRecords: []string{},
			wantStats:   []domain.SourceStats{{Name: "empty.csv", Empty: true}},
		},
		{
			name:   "empty source is not a header mismatch when strict",
			strict: true,
			sources: func() []usecase.LedgerSource {
				return []usecase.LedgerSource{newSource(ctrl, "blank.csv", " \n\r\n", nil)}
			},
			wantRecords: []string{},
			wantStats:   []domain.SourceStats{{Name: "blank.csv", Empty: true}},
		},
		{
			name: "header mismatch tolerated by default",
			sources: func() []usecase.LedgerSource {
				raw := strings.Replace(ledgerText(records[0]), "kode_bidang", "bidang", 1)
				return []usecase.LedgerSource{newSource(ctrl, "a.csv", raw, nil)}
			},
			wantRecords: []string{"Pensil"},
			wantStats:   []domain.SourceStats{{Name: "a.csv", Records: 1}},
		},
		{
			name:   "header mismatch rejected when strict",
			strict: true,
			sources: func() []usecase.LedgerSource {
				raw := strings.Replace(ledgerText(records[0]), "kode_bidang", "bidang", 1)
				return []usecase.LedgerSource{newSource(ctrl, "a.csv", raw, nil)}
			},
			wantErr: domain.ErrHeaderMismatch,
		},
		{
			name: "fetch error fails the load",
			sources: func() []usecase.LedgerSource {
				return []usecase.LedgerSource{newSource(ctrl, "s3://b/k.csv", "", context.DeadlineExceeded)}
			},
			wantErr: context.DeadlineExceeded,
		},
		{
			name:    "no sources",
			sources: func() []usecase.LedgerSource { return nil },
			wantErr: domain.ErrNoSources,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewLedgerUseCase(tt.sources(), nil, zap.NewNop(), usecase.WithStrictHeader(tt.strict))
			got, err := uc.Load(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)

			names := make([]string, 0, len(got.Records))
			for _, r := range got.Records {
				names = append(names, r.ComponentName)
			}
			assert.Equal(t, tt.wantRecords, names)
			assert.Equal(t, tt.wantStats, got.Sources)
		})
	}
}

func TestLedgerUseCase_BuildReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := newSource(ctrl, "rkas.csv", ledgerText(exampleRecords()...), nil)
	uc := usecase.NewLedgerUseCase([]usecase.LedgerSource{src}, nil, nil)

	report, records, err := uc.BuildReport(context.Background(), usecase.LevelCategory, usecase.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	assert.Equal(t, "category", report.Level)
	require.Len(t, report.Summaries, 2)
	assert.Equal(t, domain.CategorySummary{
		CategoryCode: "01", CategoryName: "Kurikulum", ItemCount: 2,
		TotalBudget: 250000, TotalRealized: 190000, RealizedPercentage: 76,
	}, report.Summaries[0])
	assert.Equal(t, domain.CategorySummary{
		CategoryCode: "02", CategoryName: "Kesiswaan", ItemCount: 1,
		TotalBudget: 500000, TotalRealized: 500000, RealizedPercentage: 100,
	}, report.Summaries[1])
	assert.Equal(t, 3, report.Total.ItemCount)
	assert.Len(t, report.Monthly, domain.MonthsPerYear)
	assert.Equal(t, []domain.SourceStats{{Name: "rkas.csv", Records: 3, HeaderMatches: true}}, report.Sources)
}

func TestLedgerUseCase_BuildReport_Filtered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := newSource(ctrl, "rkas.csv", ledgerText(exampleRecords()...), nil)
	uc := usecase.NewLedgerUseCase([]usecase.LedgerSource{src}, nil, zap.NewNop())

	report, records, err := uc.BuildReport(context.Background(), usecase.LevelCategory, usecase.Filter{CategoryCode: "02"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.Len(t, report.Summaries, 1)
	assert.Equal(t, "Kesiswaan", report.Summaries[0].CategoryName)
	assert.Equal(t, 500000.0, report.Total.TotalBudget)
}

func TestLedgerUseCase_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	report := usecase.NewReport(exampleRecords(), usecase.LevelCategory)
	records := exampleRecords()

	t.Run("all formats", func(t *testing.T) {
		exporter := mock_usecase.NewMockReportExporter(ctrl)
		gomock.InOrder(
			exporter.EXPECT().Export(report, records, "csv", "/out", "rkas").Return("/out/rkas.csv", nil),
			exporter.EXPECT().Export(report, records, "pdf", "/out", "rkas").Return("/out/rkas.pdf", nil),
		)

		uc := usecase.NewLedgerUseCase(nil, exporter, zap.NewNop())
		paths, err := uc.Export(report, records, []string{"csv", "pdf"}, "/out", "rkas")
		require.NoError(t, err)
		assert.Equal(t, []string{"/out/rkas.csv", "/out/rkas.pdf"}, paths)
	})

	t.Run("exporter error", func(t *testing.T) {
		exporter := mock_usecase.NewMockReportExporter(ctrl)
		exporter.EXPECT().Export(report, records, "xlsx", "/out", "rkas").Return("", domain.ErrUnsupportedFormat)

		uc := usecase.NewLedgerUseCase(nil, exporter, zap.NewNop())
		paths, err := uc.Export(report, records, []string{"xlsx"}, "/out", "rkas")
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
		assert.Nil(t, paths)
	})

	t.Run("no exporter", func(t *testing.T) {
		uc := usecase.NewLedgerUseCase(nil, nil, zap.NewNop())
		_, err := uc.Export(report, records, []string{"csv"}, "", "")
		assert.Error(t, err)
	})
}

func TestNewReport_Empty(t *testing.T) {
	report := usecase.NewReport(nil, usecase.LevelCategory)
	assert.Empty(t, report.Summaries)
	assert.Equal(t, 0.0, report.Total.RealizedPercentage)
	assert.Len(t, report.Monthly, domain.MonthsPerYear)
}
