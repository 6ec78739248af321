package domain

// MonthsPerYear is the number of monthly allocation columns in a ledger row.
const MonthsPerYear = 12

// LedgerColumns is the fixed positional layout of an R-KAS ledger file.
// The header row is never used to map columns; this order is assumed.
var LedgerColumns = []string{
	"kode_bidang", "nama_bidang",
	"kode_standar", "nama_standar",
	"kode_kegiatan", "nama_kegiatan",
	"kode_dana", "nama_dana",
	"kode_rekening", "nama_rekening",
	"kode_komponen", "nama_komponen",
	"satuan", "volume", "harga_satuan",
	"jan", "feb", "mar", "apr", "mei", "jun",
	"jul", "agu", "sep", "okt", "nov", "des",
	"total_anggaran", "total_realisasi",
}

// Column positions within a ledger row.
const (
	ColCategoryCode = iota
	ColCategoryName
	ColStandardCode
	ColStandardName
	ColActivityCode
	ColActivityName
	ColFundingCode
	ColFundingName
	ColAccountCode
	ColAccountName
	ColComponentCode
	ColComponentName
	ColUnit
	ColVolume
	ColUnitPrice
	ColFirstMonth
	ColTotalBudget   = ColFirstMonth + MonthsPerYear
	ColTotalRealized = ColTotalBudget + 1
)

// MinimumFields is the smallest field count a data row needs to become a record.
// Shorter rows are dropped by the parser.
const MinimumFields = ColTotalRealized + 1

// MonthNames are the Indonesian short month labels, January first.
var MonthNames = [MonthsPerYear]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// BudgetLedgerRecord is one parsed line item of planned vs. realized budget.
// Records are created once at parse time and never mutated afterwards.
type BudgetLedgerRecord struct {
	CategoryCode  string `json:"category_code"`
	CategoryName  string `json:"category_name"`
	StandardCode  string `json:"standard_code"`
	StandardName  string `json:"standard_name"`
	ActivityCode  string `json:"activity_code"`
	ActivityName  string `json:"activity_name"`
	FundingCode   string `json:"funding_code"`
	FundingName   string `json:"funding_name"`
	AccountCode   string `json:"account_code"`
	AccountName   string `json:"account_name"`
	ComponentCode string `json:"component_code"`
	ComponentName string `json:"component_name"`

	Unit      string  `json:"unit"`
	Volume    float64 `json:"volume"`
	UnitPrice float64 `json:"unit_price"`

	MonthlyAllocations [MonthsPerYear]float64 `json:"monthly_allocations"`

	TotalBudget   float64 `json:"total_budget"`
	TotalRealized float64 `json:"total_realized"` // May exceed TotalBudget
}

// Remaining returns the unspent budget. Negative when the line is over-realized.
func (r BudgetLedgerRecord) Remaining() float64 {
	return r.TotalBudget - r.TotalRealized
}

// RealizedPercentage returns the share of the budget already realized.
func (r BudgetLedgerRecord) RealizedPercentage() float64 {
	return RealizedPercentage(r.TotalRealized, r.TotalBudget)
}

// RealizedPercentage computes realized/budget*100. A zero budget yields 0 so that
// no NaN or Inf ever reaches a formatted value.
func RealizedPercentage(realized, budget float64) float64 {
	if budget == 0 {
		return 0
	}
	return realized / budget * 100
}

// ParseResult carries parsed records together with ingestion diagnostics.
type ParseResult struct {
	Records       []BudgetLedgerRecord `json:"records"`
	RejectedRows  int                  `json:"rejected_rows"`  // Data rows below MinimumFields
	HeaderSeen    bool                 `json:"header_seen"`    // False for empty input
	HeaderMatches bool                 `json:"header_matches"` // Header equals LedgerColumns
}
