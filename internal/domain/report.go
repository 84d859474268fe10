package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Report kinds
const (
	ReportKindFull    = "full"
	ReportKindOverdue = "overdue"
)

// DefaultOverdueMonths is the number of whole calendar months without a
// payment after which a patient with a positive balance counts as overdue.
const DefaultOverdueMonths = 6

// Overdue reports whether the patient is overdue as of the given reference
// date. A patient is skipped (never overdue) when they owe nothing or when
// they have made no payments at all; otherwise they are overdue when more
// than overdueMonths whole calendar months have elapsed since their most
// recent payment. Day-of-month is ignored. A patient who owes money but has
// never paid anything is not flagged by this rule.
func Overdue(p *Patient, asOf time.Time, overdueMonths int) (bool, error) {
	if p.AmountOwed().LessThanOrEqual(decimal.Zero) || len(p.Payments) == 0 {
		return false, nil
	}

	last, err := p.LastPayment()
	if err != nil {
		return false, err
	}

	months := (asOf.Year()-last.Date.Year())*12 + int(asOf.Month()) - int(last.Date.Month())

	return months > overdueMonths, nil
}

// FullReport returns all patients ordered ascending by name. The input
// slice is not mutated.
func FullReport(patients []*Patient) []*Patient {
	out := make([]*Patient, len(patients))
	copy(out, patients)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// OverdueReport returns the patients overdue as of the reference date,
// ordered ascending by amount owed. The input slice is not mutated.
func OverdueReport(patients []*Patient, asOf time.Time, overdueMonths int) ([]*Patient, error) {
	out := make([]*Patient, 0)

	for _, p := range patients {
		due, err := Overdue(p, asOf, overdueMonths)
		if err != nil {
			return nil, err
		}
		if due {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AmountOwed().LessThan(out[j].AmountOwed())
	})

	return out, nil
}

// Report is the assembled, presentation-ready form of a report: the ordered
// patients with their derived balances.
type Report struct {
	Kind    string         `json:"kind"`
	AsOf    *time.Time     `json:"as_of,omitempty"`
	Entries []*ReportEntry `json:"entries"`
}

type ReportEntry struct {
	Patient    *Patient        `json:"patient"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
}

// AssembleReport pairs each patient with their derived balance, preserving
// the given order.
func AssembleReport(kind string, asOf *time.Time, patients []*Patient) *Report {
	entries := make([]*ReportEntry, 0, len(patients))
	for _, p := range patients {
		entries = append(entries, &ReportEntry{
			Patient:    p,
			AmountOwed: p.AmountOwed(),
		})
	}

	return &Report{
		Kind:    kind,
		AsOf:    asOf,
		Entries: entries,
	}
}
