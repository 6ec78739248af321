package gateway

import (
	"math"
	"strconv"
	"strings"

	"rkas-ledger/internal/domain"
)

const (
	ledgerDelimiter = ","
	ledgerNewline   = "\n"
)

// ParseLedger converts raw ledger text into records, in file order.
// Rows with fewer than domain.MinimumFields fields are dropped silently and
// unparseable numbers become 0, so the function never fails.
func ParseLedger(text string) []domain.BudgetLedgerRecord {
	return ParseLedgerDetailed(text).Records
}

// ParseLedgerDetailed parses like ParseLedger and also reports how many data
// rows were rejected and whether the header matches domain.LedgerColumns.
// The header check is informational; columns are always mapped by position.
func ParseLedgerDetailed(text string) domain.ParseResult {
	result := domain.ParseResult{
		Records: make([]domain.BudgetLedgerRecord, 0),
	}

	for _, line := range strings.Split(text, ledgerNewline) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := splitFields(line)

		// Skip header
		if !result.HeaderSeen {
			result.HeaderSeen = true
			result.HeaderMatches = headerMatches(fields)
			continue
		}

		if len(fields) < domain.MinimumFields {
			result.RejectedRows++
			continue
		}
		result.Records = append(result.Records, recordFromFields(fields))
	}
	return result
}

// SerializeLedger renders records back into ledger text using the same
// positional layout ParseLedger expects. Values are written verbatim, so a
// value containing the delimiter will not survive a round trip.
func SerializeLedger(records []domain.BudgetLedgerRecord) string {
	var b strings.Builder
	b.WriteString(strings.Join(domain.LedgerColumns, ledgerDelimiter))
	b.WriteString(ledgerNewline)

	for _, r := range records {
		b.WriteString(strings.Join(fieldsFromRecord(r), ledgerDelimiter))
		b.WriteString(ledgerNewline)
	}
	return b.String()
}

func splitFields(line string) []string {
	fields := strings.Split(line, ledgerDelimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func headerMatches(fields []string) bool {
	if len(fields) != len(domain.LedgerColumns) {
		return false
	}
	for i, name := range domain.LedgerColumns {
		if !strings.EqualFold(fields[i], name) {
			return false
		}
	}
	return true
}

func recordFromFields(f []string) domain.BudgetLedgerRecord {
	r := domain.BudgetLedgerRecord{
		CategoryCode:  f[domain.ColCategoryCode],
		CategoryName:  f[domain.ColCategoryName],
		StandardCode:  f[domain.ColStandardCode],
		StandardName:  f[domain.ColStandardName],
		ActivityCode:  f[domain.ColActivityCode],
		ActivityName:  f[domain.ColActivityName],
		FundingCode:   f[domain.ColFundingCode],
		FundingName:   f[domain.ColFundingName],
		AccountCode:   f[domain.ColAccountCode],
		AccountName:   f[domain.ColAccountName],
		ComponentCode: f[domain.ColComponentCode],
		ComponentName: f[domain.ColComponentName],
		Unit:          f[domain.ColUnit],
		Volume:        parseAmount(f[domain.ColVolume]),
		UnitPrice:     parseAmount(f[domain.ColUnitPrice]),
		TotalBudget:   nonNegative(parseAmount(f[domain.ColTotalBudget])),
		TotalRealized: nonNegative(parseAmount(f[domain.ColTotalRealized])),
	}
	for m := 0; m < domain.MonthsPerYear; m++ {
		r.MonthlyAllocations[m] = parseAmount(f[domain.ColFirstMonth+m])
	}
	return r
}

func fieldsFromRecord(r domain.BudgetLedgerRecord) []string {
	f := make([]string, len(domain.LedgerColumns))
	f[domain.ColCategoryCode] = r.CategoryCode
	f[domain.ColCategoryName] = r.CategoryName
	f[domain.ColStandardCode] = r.StandardCode
	f[domain.ColStandardName] = r.StandardName
	f[domain.ColActivityCode] = r.ActivityCode
	f[domain.ColActivityName] = r.ActivityName
	f[domain.ColFundingCode] = r.FundingCode
	f[domain.ColFundingName] = r.FundingName
	f[domain.ColAccountCode] = r.AccountCode
	f[domain.ColAccountName] = r.AccountName
	f[domain.ColComponentCode] = r.ComponentCode
	f[domain.ColComponentName] = r.ComponentName
	f[domain.ColUnit] = r.Unit
	f[domain.ColVolume] = formatAmount(r.Volume)
	f[domain.ColUnitPrice] = formatAmount(r.UnitPrice)
	for m, amount := range r.MonthlyAllocations {
		f[domain.ColFirstMonth+m] = formatAmount(amount)
	}
	f[domain.ColTotalBudget] = formatAmount(r.TotalBudget)
	f[domain.ColTotalRealized] = formatAmount(r.TotalRealized)
	return f
}

// parseAmount never fails: anything that is not a finite plain decimal is 0.
// Go-only syntax such as "1_000", "0x10" or "Inf" is rejected up front.
func parseAmount(s string) float64 {
	if !isPlainDecimal(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func isPlainDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

// nonNegative keeps budget and realized totals at or above zero.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
