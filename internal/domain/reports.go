package domain

// CategorySummary is an aggregate over ledger records sharing one grouping code.
// It is derived on every request and never stored.
type CategorySummary struct {
	CategoryCode       string  `json:"category_code"`
	CategoryName       string  `json:"category_name"`
	ItemCount          int     `json:"item_count"`
	TotalBudget        float64 `json:"total_budget"`
	TotalRealized      float64 `json:"total_realized"`
	RealizedPercentage float64 `json:"realized_percentage"`
}

// Remaining returns budget minus realized for the group.
func (s CategorySummary) Remaining() float64 {
	return s.TotalBudget - s.TotalRealized
}

// OverRealized reports whether more was spent than planned.
func (s CategorySummary) OverRealized() bool {
	return s.TotalRealized > s.TotalBudget
}

// MonthlyAllocation is the planned amount for one calendar month.
type MonthlyAllocation struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// SourceStats describes what one data source contributed to a report.
type SourceStats struct {
	Name          string `json:"name"`
	Records       int    `json:"records"`
	RejectedRows  int    `json:"rejected_rows"`
	HeaderMatches bool   `json:"header_matches"`
	Empty         bool   `json:"empty"` // No header line, so nothing to check
}

// LedgerReport is the top-level structure handed to presenters and exporters.
type LedgerReport struct {
	Level     string              `json:"level"`
	Summaries []CategorySummary   `json:"summaries"`
	Total     CategorySummary     `json:"total"`
	Monthly   []MonthlyAllocation `json:"monthly"`
	Sources   []SourceStats       `json:"sources"`
}
