package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/dentacore/practice-engine/pkg/errors"
)

var asOf = time.Date(2024, time.September, 15, 0, 0, 0, 0, time.UTC)

func newPatient(id int64, name string) *Patient {
	return &Patient{
		ID:         id,
		Name:       name,
		Address:    "1 Main Street",
		Phone:      "555-0100",
		Procedures: []*Procedure{},
		Payments:   []*Payment{},
	}
}

func withProcedure(p *Patient, cost float64) *Patient {
	p.Procedures = append(p.Procedures, &Procedure{
		ID:   int64(len(p.Procedures) + 1),
		Name: "Procedure",
		Cost: MustMoney(cost),
	})
	return p
}

func withPayment(p *Patient, amount float64, paid bool, date time.Time) *Patient {
	p.Payments = append(p.Payments, &Payment{
		ID:        int64(len(p.Payments) + 1),
		PatientID: p.ID,
		Amount:    MustMoney(amount),
		Date:      date,
		Paid:      paid,
	})
	return p
}

func TestAmountOwed_EmptyCollectionsYieldZero(t *testing.T) {
	p := newPatient(1, "Alice")
	assert.True(t, p.AmountOwed().IsZero())
}

func TestAmountOwed_IgnoresPendingPayments(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 100)
	withPayment(p, 40, false, asOf)

	assert.Equal(t, "100.00", p.AmountOwed().StringFixed(2))
}

func TestAmountOwed_MayGoNegative(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 30)
	withPayment(p, 50, true, asOf)

	assert.Equal(t, "-20.00", p.AmountOwed().StringFixed(2))
}

func TestAmountOwed_InvariantUnderReordering(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 10)
	withProcedure(p, 20.50)
	withPayment(p, 5, true, asOf)
	withPayment(p, 7.25, true, asOf)

	before := p.AmountOwed()

	p.Procedures[0], p.Procedures[1] = p.Procedures[1], p.Procedures[0]
	p.Payments[0], p.Payments[1] = p.Payments[1], p.Payments[0]

	assert.True(t, before.Equal(p.AmountOwed()))
}

func TestOverdue_NothingOwedNeverOverdue(t *testing.T) {
	p := newPatient(1, "Carol")
	withProcedure(p, 30)
	withPayment(p, 30, true, asOf.AddDate(-2, 0, 0))

	due, err := Overdue(p, asOf, DefaultOverdueMonths)
	assert.NoError(t, err)
	assert.False(t, due)
}

func TestOverdue_NoPaymentsExemption(t *testing.T) {
	// A patient who owes money but has never made a payment is not
	// flagged, regardless of the reference date.
	p := newPatient(1, "Bob")
	withProcedure(p, 50)

	for _, ref := range []time.Time{asOf, asOf.AddDate(5, 0, 0)} {
		due, err := Overdue(p, ref, DefaultOverdueMonths)
		assert.NoError(t, err)
		assert.False(t, due)
	}
}

func TestOverdue_LastPaymentOlderThanSixMonths(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 100)
	withPayment(p, 40, true, asOf.AddDate(0, -8, 0))

	assert.Equal(t, "60.00", p.AmountOwed().StringFixed(2))

	due, err := Overdue(p, asOf, DefaultOverdueMonths)
	assert.NoError(t, err)
	assert.True(t, due)
}

func TestOverdue_ExactlySixMonthsIsNotOverdue(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 100)
	withPayment(p, 40, true, asOf.AddDate(0, -6, 0))

	due, err := Overdue(p, asOf, DefaultOverdueMonths)
	assert.NoError(t, err)
	assert.False(t, due)
}

func TestOverdue_DayOfMonthIgnored(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 100)
	// 7 calendar months back but a later day of month; still 7 whole
	// months by the year/month arithmetic.
	withPayment(p, 40, true, time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC))

	due, err := Overdue(p, asOf, DefaultOverdueMonths)
	assert.NoError(t, err)
	assert.True(t, due)
}

func TestOverdue_UsesMostRecentPayment(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 100)
	withPayment(p, 10, true, asOf.AddDate(0, -12, 0))
	withPayment(p, 10, true, asOf.AddDate(0, -2, 0))

	due, err := Overdue(p, asOf, DefaultOverdueMonths)
	assert.NoError(t, err)
	assert.False(t, due)
}

func TestOverdue_AllPaymentsUndatedFails(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 100)
	withPayment(p, 10, true, time.Time{})

	_, err := Overdue(p, asOf, DefaultOverdueMonths)
	assert.ErrorIs(t, err, customError.ErrNoDatedPayments)
}

func TestFullReport_SortedByNameSameSet(t *testing.T) {
	patients := []*Patient{
		newPatient(3, "Carol"),
		newPatient(1, "Alice"),
		newPatient(2, "Bob"),
	}

	report := FullReport(patients)

	require.Len(t, report, 3)
	assert.Equal(t, "Alice", report[0].Name)
	assert.Equal(t, "Bob", report[1].Name)
	assert.Equal(t, "Carol", report[2].Name)

	// Input order untouched
	assert.Equal(t, "Carol", patients[0].Name)

	seen := map[int64]bool{}
	for _, p := range report {
		assert.False(t, seen[p.ID], "patient %d appears twice", p.ID)
		seen[p.ID] = true
	}
}

func TestOverdueReport_FiltersAndSortsAscendingByOwed(t *testing.T) {
	old := asOf.AddDate(0, -8, 0)

	bigDebt := newPatient(1, "Alice")
	withProcedure(bigDebt, 500)
	withPayment(bigDebt, 100, true, old)

	smallDebt := newPatient(2, "Bob")
	withProcedure(smallDebt, 80)
	withPayment(smallDebt, 50, true, old)

	settled := newPatient(3, "Carol")
	withProcedure(settled, 30)
	withPayment(settled, 30, true, old)

	neverPaid := newPatient(4, "Dave")
	withProcedure(neverPaid, 1000)

	recent := newPatient(5, "Eve")
	withProcedure(recent, 200)
	withPayment(recent, 10, true, asOf.AddDate(0, -1, 0))

	report, err := OverdueReport([]*Patient{bigDebt, smallDebt, settled, neverPaid, recent}, asOf, DefaultOverdueMonths)
	require.NoError(t, err)

	// Smallest owed first
	require.Len(t, report, 2)
	assert.Equal(t, "Bob", report[0].Name)
	assert.Equal(t, "Alice", report[1].Name)
}

func TestAssembleReport_PairsPatientsWithBalances(t *testing.T) {
	p := newPatient(1, "Alice")
	withProcedure(p, 100)
	withPayment(p, 40, true, asOf)

	report := AssembleReport(ReportKindOverdue, &asOf, []*Patient{p})

	assert.Equal(t, ReportKindOverdue, report.Kind)
	require.NotNil(t, report.AsOf)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, "60.00", report.Entries[0].AmountOwed.StringFixed(2))
}
