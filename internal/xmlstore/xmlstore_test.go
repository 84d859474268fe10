package xmlstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentacore/practice-engine/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "patients.xml"), filepath.Join(dir, "procedures.xml"))
}

func TestMissingFilesAreEmptyDataSets(t *testing.T) {
	store := newTestStore(t)

	patients, err := store.LoadPatients()
	require.NoError(t, err)
	assert.Empty(t, patients)

	catalog, err := store.LoadCatalog()
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestPatientSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)

	date := time.Date(2024, time.January, 2, 10, 30, 0, 0, time.UTC)
	patients := []*domain.Patient{
		{
			ID: 3, Name: "Alice", Address: "1 Main Street", Phone: "555-0100",
			Procedures: []*domain.Procedure{{ID: 2, Name: "Crown", Cost: domain.MustMoney(100)}},
			Payments:   []*domain.Payment{{ID: 5, PatientID: 3, Amount: domain.MustMoney(40), Date: date, Paid: true}},
		},
	}

	require.NoError(t, store.SavePatients(patients))

	loaded, err := store.LoadPatients()
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	p := loaded[0]
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "Alice", p.Name)

	require.Len(t, p.Procedures, 1)
	assert.Equal(t, "Crown", p.Procedures[0].Name)
	assert.Equal(t, "100.00", p.Procedures[0].Cost.StringFixed(2))

	require.Len(t, p.Payments, 1)
	assert.Equal(t, int64(3), p.Payments[0].PatientID)
	assert.True(t, p.Payments[0].Paid)
	assert.True(t, p.Payments[0].Date.Equal(date))
	assert.Equal(t, "60.00", p.AmountOwed().StringFixed(2))
}

func TestSnapshotUsesOriginalElementNames(t *testing.T) {
	store := newTestStore(t)

	patients := []*domain.Patient{
		{
			ID: 1, Name: "Alice", Address: "a", Phone: "p",
			Procedures: []*domain.Procedure{{ID: 1, Name: "Crown", Cost: domain.MustMoney(100)}},
			Payments:   []*domain.Payment{{ID: 1, PatientID: 1, Amount: domain.MustMoney(40), Date: time.Now(), Paid: true}},
		},
	}
	require.NoError(t, store.SavePatients(patients))

	raw, err := os.ReadFile(store.patientsPath)
	require.NoError(t, err)

	for _, needle := range []string{"<PatientList>", "<Patient>", "<Procedures>", "<procedure>", "<type>Crown</type>", "<Payments>", "<payment>", "<status>true</status>"} {
		assert.Contains(t, string(raw), needle)
	}
}

func TestCatalogSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)

	catalog := []*domain.Procedure{
		{ID: 1, Name: "Cleaning", Cost: domain.MustMoney(50)},
		{ID: 2, Name: "Crown", Cost: domain.MustMoney(19.005)},
	}

	require.NoError(t, store.SaveCatalog(catalog))

	loaded, err := store.LoadCatalog()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Cleaning", loaded[0].Name)
	assert.Equal(t, "19.01", loaded[1].Cost.StringFixed(2))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	dir := filepath.Dir(store.patientsPath)

	patients := []*domain.Patient{{ID: 1, Name: "Alice", Address: "a", Phone: "p"}}
	require.NoError(t, store.SavePatients(patients))
	require.NoError(t, store.SaveCatalog([]*domain.Procedure{{ID: 1, Name: "Cleaning", Cost: domain.MustMoney(50)}}))

	// Rewriting replaces the snapshot in place.
	patients[0].Name = "Alicia"
	require.NoError(t, store.SavePatients(patients))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"patients.xml", "procedures.xml"}, names)

	reloaded, err := store.LoadPatients()
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	assert.Equal(t, "Alicia", reloaded[0].Name)
}
