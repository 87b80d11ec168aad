// Package csv provides a CSV-backed station.Provider: a bundled
// demonstration adapter reading a station index and per-station
// constituent files from a directory, in lieu of the persistent
// station store the full application would use.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidewatch/tidecore/internal/domain"
	"github.com/tidewatch/tidecore/internal/station"
)

// stationsFile is the index file listing every station this provider
// knows about, one row per station.
const stationsFile = "stations.csv"

var stationsHeader = []string{
	"id", "name", "kind", "datum",
	"reference_station_id",
	"high_time_offset_min", "low_time_offset_min",
	"high_height_factor", "low_height_factor",
}

// Store is a station.Provider backed by CSV files under a data
// directory: stations.csv indexes every station, and
// mock_<id>_constituents.csv holds a reference station's amplitude/phase
// rows, following the teacher's mock_<station>_constituents.csv naming.
type Store struct {
	dataDir  string
	stations map[string]station.Station
}

// NewStore loads stations.csv from dataDir and returns a ready Store.
// Reference stations' constituent files are loaded lazily on first
// Constants call, not at construction, so a large corpus does not pay
// parse cost for stations never queried.
func NewStore(dataDir string) (*Store, error) {
	//nolint:gosec // G304: dataDir is operator-supplied configuration, not end-user input.
	f, err := os.Open(dataDir + "/" + stationsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open station index: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read station index header: %w", err)
	}
	if len(header) != len(stationsHeader) {
		return nil, fmt.Errorf("invalid station index header: expected %v, got %v", stationsHeader, header)
	}
	for i, h := range header {
		if h != stationsHeader[i] {
			return nil, fmt.Errorf("invalid station index header: expected column %d to be %s, got %s", i, stationsHeader[i], h)
		}
	}

	stations := make(map[string]station.Station)

	for {
		record, err := r.Read()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("failed to read station index record: %w", err)
		}
		if len(record) != len(stationsHeader) {
			return nil, fmt.Errorf("invalid station index record: expected %d columns, got %d", len(stationsHeader), len(record))
		}

		s, err := parseStationRow(record)
		if err != nil {
			return nil, err
		}
		stations[s.ID] = s
	}

	return &Store{dataDir: dataDir, stations: stations}, nil
}

func parseStationRow(record []string) (station.Station, error) {
	id := strings.TrimSpace(record[0])
	name := strings.TrimSpace(record[1])
	kindStr := strings.TrimSpace(record[2])

	datum, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return station.Station{}, fmt.Errorf("invalid datum for station %s: %w", id, err)
	}

	var kind station.Kind
	switch kindStr {
	case "reference":
		kind = station.Reference
	case "subordinate":
		kind = station.Subordinate
	default:
		return station.Station{}, fmt.Errorf("invalid kind %q for station %s: must be reference or subordinate", kindStr, id)
	}

	s := station.Station{ID: id, Name: name, Kind: kind, Datum: datum}

	if kind == station.Subordinate {
		offset, err := parseOffset(id, record)
		if err != nil {
			return station.Station{}, err
		}
		s.Offset = offset
	}

	return s, nil
}

func parseOffset(stationID string, record []string) (*station.SubordinateOffset, error) {
	refID := strings.TrimSpace(record[4])
	if refID == "" {
		return nil, fmt.Errorf("subordinate station %s missing reference_station_id", stationID)
	}

	fields := record[5:9]
	parsed := make([]float64, 4)
	for i, raw := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset field %d for station %s: %w", i, stationID, err)
		}
		parsed[i] = v
	}

	return &station.SubordinateOffset{
		ReferenceStationID: refID,
		HighTimeOffsetMin:  parsed[0],
		LowTimeOffsetMin:   parsed[1],
		HighHeightFactor:   parsed[2],
		LowHeightFactor:    parsed[3],
	}, nil
}

// ResolveKind implements station.Provider.
func (s *Store) ResolveKind(id string) (station.Kind, error) {
	st, ok := s.stations[id]
	if !ok {
		return 0, domain.NewUnknownStationError(id, nil)
	}
	return st.Kind, nil
}

// Constants implements station.Provider, loading and caching the
// constituent file for reference stations on first access.
func (s *Store) Constants(id string) (station.Station, error) {
	st, ok := s.stations[id]
	if !ok {
		return station.Station{}, domain.NewUnknownStationError(id, nil)
	}

	if st.Kind == station.Subordinate || st.Amplitudes != nil {
		return st, nil
	}

	amplitudes, err := s.loadAmplitudes(id)
	if err != nil {
		return station.Station{}, err
	}
	if len(amplitudes) == 0 {
		return station.Station{}, domain.NewEmptyConstantsError(id)
	}

	st.Amplitudes = amplitudes
	s.stations[id] = st
	return st, nil
}

var constituentHeader = []string{"constituent", "amplitude", "phase_deg"}

func (s *Store) loadAmplitudes(id string) ([]station.ConstituentAmplitude, error) {
	filename := fmt.Sprintf("%s/mock_%s_constituents.csv", s.dataDir, strings.ToLower(id))

	//nolint:gosec // G304: dataDir is operator configuration; id is validated against the loaded station index.
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open constituent file for station %s: %w", id, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read constituent header for station %s: %w", id, err)
	}
	if len(header) != len(constituentHeader) {
		return nil, fmt.Errorf("invalid constituent header for station %s: expected %v, got %v", id, constituentHeader, header)
	}
	for i, h := range header {
		if h != constituentHeader[i] {
			return nil, fmt.Errorf("invalid constituent header for station %s: expected column %d to be %s, got %s", id, i, constituentHeader[i], h)
		}
	}

	amplitudes := make([]station.ConstituentAmplitude, 0)

	for {
		record, err := r.Read()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("failed to read constituent record for station %s: %w", id, err)
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("invalid constituent record for station %s: expected 3 columns, got %d", id, len(record))
		}

		name := strings.TrimSpace(record[0])
		if _, ok := domain.Lookup(name); !ok {
			// Unknown constituent names are skipped silently per the
			// harmonic engine's own UnknownConstituentName handling;
			// not every station corpus row needs to resolve against
			// this catalog.
			continue
		}

		amplitude, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amplitude for constituent %s in station %s: %w", name, id, err)
		}
		phase, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid phase for constituent %s in station %s: %w", name, id, err)
		}

		amplitudes = append(amplitudes, station.ConstituentAmplitude{
			Name:      name,
			Amplitude: amplitude,
			PhaseDeg:  phase,
		})
	}

	return amplitudes, nil
}

// ListStations returns every station id in the loaded index, in no
// particular order; used by cmd/stations to enumerate the corpus.
func (s *Store) ListStations() []string {
	ids := make([]string, 0, len(s.stations))
	for id := range s.stations {
		ids = append(ids, id)
	}
	return ids
}
