package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidewatch/tidecore/internal/station"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}

const validIndex = `id,name,kind,datum,reference_station_id,high_time_offset_min,low_time_offset_min,high_height_factor,low_height_factor
9414290,San Francisco,reference,0,,0,0,1,1
9414290-SUB,Point Reyes (subordinate),subordinate,0.5,9414290,32,18,0.92,0.88
`

const validConstituents = `constituent,amplitude,phase_deg
M2,2.929,193.1
S2,0.880,216.7
K1,0.950,166.6
`

func TestNewStore_LoadsIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", validIndex)
	writeFile(t, dir, "mock_9414290_constituents.csv", validConstituents)

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := store.ListStations()
	if len(ids) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(ids))
	}
}

func TestNewStore_MissingIndexFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewStore(dir); err == nil {
		t.Fatal("expected an error for a missing stations.csv")
	}
}

func TestNewStore_InvalidHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", "id,name,kind\n9414290,San Francisco,reference\n")

	if _, err := NewStore(dir); err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}

func TestNewStore_SubordinateMissingReferenceID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", `id,name,kind,datum,reference_station_id,high_time_offset_min,low_time_offset_min,high_height_factor,low_height_factor
SUB,Sub,subordinate,0.5,,32,18,0.92,0.88
`)

	if _, err := NewStore(dir); err == nil {
		t.Fatal("expected an error for a subordinate row missing reference_station_id")
	}
}

func TestStore_ResolveKind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", validIndex)
	writeFile(t, dir, "mock_9414290_constituents.csv", validConstituents)

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kind, err := store.ResolveKind("9414290")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != station.Reference {
		t.Errorf("expected Reference, got %v", kind)
	}

	kind, err = store.ResolveKind("9414290-SUB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != station.Subordinate {
		t.Errorf("expected Subordinate, got %v", kind)
	}

	if _, err := store.ResolveKind("NOPE"); err == nil {
		t.Error("expected an error for an unknown station id")
	}
}

func TestStore_Constants_LazyLoadsAndCachesConstituents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", validIndex)
	writeFile(t, dir, "mock_9414290_constituents.csv", validConstituents)

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := store.Constants("9414290")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Amplitudes) != 3 {
		t.Fatalf("expected 3 amplitudes, got %d", len(st.Amplitudes))
	}

	// Remove the backing file; a second call should hit the in-memory
	// cache populated by the first call rather than re-reading.
	if err := os.Remove(filepath.Join(dir, "mock_9414290_constituents.csv")); err != nil {
		t.Fatalf("failed to remove fixture: %v", err)
	}
	st2, err := store.Constants("9414290")
	if err != nil {
		t.Fatalf("unexpected error on cached read: %v", err)
	}
	if len(st2.Amplitudes) != 3 {
		t.Fatalf("expected cached 3 amplitudes, got %d", len(st2.Amplitudes))
	}
}

func TestStore_Constants_UnknownConstituentSkippedSilently(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", validIndex)
	writeFile(t, dir, "mock_9414290_constituents.csv", `constituent,amplitude,phase_deg
ZZ9,1.0,0.0
M2,2.929,193.1
`)

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := store.Constants("9414290")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Amplitudes) != 1 || st.Amplitudes[0].Name != "M2" {
		t.Fatalf("expected the unknown row to be skipped and M2 kept, got %+v", st.Amplitudes)
	}
}

func TestStore_Constants_EmptyConstituentFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", validIndex)
	writeFile(t, dir, "mock_9414290_constituents.csv", "constituent,amplitude,phase_deg\n")

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Constants("9414290"); err == nil {
		t.Fatal("expected an EmptyConstantsError for a reference station with no constituent rows")
	}
}

func TestStore_Constants_Subordinate_NoFileRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stations.csv", validIndex)
	// Intentionally no mock_9414290_constituents.csv for the reference
	// leg; the subordinate record itself needs no constituent file.
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := store.Constants("9414290-SUB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Offset == nil || st.Offset.ReferenceStationID != "9414290" {
		t.Errorf("expected subordinate offset referencing 9414290, got %+v", st.Offset)
	}
}
