package domain

import "fmt"

// UnknownStationError is returned when a station id has no entry in
// the configured station.Provider.
type UnknownStationError struct {
	StationID string
	Err       error
}

// NewUnknownStationError builds an UnknownStationError wrapping err,
// which may be nil.
func NewUnknownStationError(stationID string, err error) *UnknownStationError {
	return &UnknownStationError{StationID: stationID, Err: err}
}

func (e *UnknownStationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown station %q: %v", e.StationID, e.Err)
	}
	return fmt.Sprintf("unknown station %q", e.StationID)
}

func (e *UnknownStationError) Unwrap() error { return e.Err }

// EmptyConstantsError is returned when a station resolves but carries
// no harmonic constants the engine can use.
type EmptyConstantsError struct {
	StationID string
}

// NewEmptyConstantsError builds an EmptyConstantsError for stationID.
func NewEmptyConstantsError(stationID string) *EmptyConstantsError {
	return &EmptyConstantsError{StationID: stationID}
}

func (e *EmptyConstantsError) Error() string {
	return fmt.Sprintf("station %q has no harmonic constants", e.StationID)
}
