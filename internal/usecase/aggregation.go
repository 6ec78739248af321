package usecase

import (
	"fmt"
	"strings"

	"rkas-ledger/internal/domain"
)

// Level selects the ledger hierarchy a summary is grouped by.
type Level string

const (
	LevelCategory Level = "category"
	LevelStandard Level = "standard"
	LevelActivity Level = "activity"
	LevelFunding  Level = "funding"
	LevelAccount  Level = "account"
)

// Levels lists every supported grouping level, broadest first.
var Levels = []Level{LevelCategory, LevelStandard, LevelActivity, LevelFunding, LevelAccount}

// ParseLevel validates a level name. An empty name means LevelCategory.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return LevelCategory, nil
	}
	for _, known := range Levels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedLevel, s)
}

// groupKey returns the code and display name a record contributes at level.
func (l Level) groupKey(r domain.BudgetLedgerRecord) (code, name string) {
	switch l {
	case LevelStandard:
		return r.StandardCode, r.StandardName
	case LevelActivity:
		return r.ActivityCode, r.ActivityName
	case LevelFunding:
		return r.FundingCode, r.FundingName
	case LevelAccount:
		return r.AccountCode, r.AccountName
	default:
		return r.CategoryCode, r.CategoryName
	}
}

// SummarizeByCategory groups records by category code. Output follows the order
// in which each code first appears, and the name of the first record wins.
func SummarizeByCategory(records []domain.BudgetLedgerRecord) []domain.CategorySummary {
	return SummarizeBy(records, LevelCategory)
}

// SummarizeBy groups records by the code of the given hierarchy level using the
// same first-appearance ordering as SummarizeByCategory.
func SummarizeBy(records []domain.BudgetLedgerRecord, level Level) []domain.CategorySummary {
	summaries := make([]domain.CategorySummary, 0)
	index := make(map[string]int)

	for _, r := range records {
		code, name := level.groupKey(r)
		i, ok := index[code]
		if !ok {
			i = len(summaries)
			index[code] = i
			summaries = append(summaries, domain.CategorySummary{
				CategoryCode: code,
				CategoryName: name,
			})
		}
		summaries[i].ItemCount++
		summaries[i].TotalBudget += r.TotalBudget
		summaries[i].TotalRealized += r.TotalRealized
	}

	for i := range summaries {
		summaries[i].RealizedPercentage = domain.RealizedPercentage(summaries[i].TotalRealized, summaries[i].TotalBudget)
	}
	return summaries
}

// Total combines every record into a single summary.
func Total(records []domain.BudgetLedgerRecord) domain.CategorySummary {
	total := domain.CategorySummary{CategoryName: "Total", ItemCount: len(records)}
	for _, r := range records {
		total.TotalBudget += r.TotalBudget
		total.TotalRealized += r.TotalRealized
	}
	total.RealizedPercentage = domain.RealizedPercentage(total.TotalRealized, total.TotalBudget)
	return total
}

// MonthlyTotals sums the monthly allocations of all records, January first.
func MonthlyTotals(records []domain.BudgetLedgerRecord) []domain.MonthlyAllocation {
	monthly := make([]domain.MonthlyAllocation, domain.MonthsPerYear)
	for m := range monthly {
		monthly[m].Month = domain.MonthNames[m]
	}
	for _, r := range records {
		for m, amount := range r.MonthlyAllocations {
			monthly[m].Amount += amount
		}
	}
	return monthly
}

// Filter narrows a record set before aggregation. Zero values match everything.
type Filter struct {
	CategoryCode   string
	FundingCode    string
	Search         string // Case-insensitive match on component or activity name
	OverBudgetOnly bool
}

// IsZero reports whether the filter lets every record through.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

func (f Filter) matches(r domain.BudgetLedgerRecord) bool {
	if f.CategoryCode != "" && r.CategoryCode != f.CategoryCode {
		return false
	}
	if f.FundingCode != "" && r.FundingCode != f.FundingCode {
		return false
	}
	if f.OverBudgetOnly && r.TotalRealized <= r.TotalBudget {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.ComponentName), needle) &&
			!strings.Contains(strings.ToLower(r.ActivityName), needle) {
			return false
		}
	}
	return true
}

// FilterRecords returns the records matching f in their original order.
// The input slice is not modified.
func FilterRecords(records []domain.BudgetLedgerRecord, f Filter) []domain.BudgetLedgerRecord {
	filtered := make([]domain.BudgetLedgerRecord, 0, len(records))
	for _, r := range records {
		if f.matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
