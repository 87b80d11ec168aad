package station

// Provider is the external contract the harmonic engine depends on.
// Implementations resolve a station id to its Kind and, for reference
// stations, its harmonic constants; persistence, caching of the
// underlying corpus, and network access are entirely the provider's
// concern — this repository bundles only a demonstration CSV adapter
// in station/csv.
type Provider interface {
	// ResolveKind reports whether id is a reference or subordinate
	// station, returning a *domain.UnknownStationError if id is not
	// recognized.
	ResolveKind(id string) (Kind, error)

	// Constants returns the full station record for id, including its
	// datum and, for a Reference station, its constituent amplitudes;
	// for a Subordinate station it includes the SubordinateOffset and
	// the reference station's own id but not amplitudes. Returns
	// *domain.UnknownStationError for an unrecognized id and
	// *domain.EmptyConstantsError for a reference station with no
	// amplitude rows.
	Constants(id string) (Station, error)
}
