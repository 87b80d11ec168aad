// Package usecase orchestrates the harmonic engine and the station
// provider into the operations the HTTP façade and the extrema cache
// actually call, including the subordinate-station offset
// post-processing spec section 4.3 describes.
package usecase

import (
	"fmt"
	"time"

	"github.com/tidewatch/tidecore/internal/domain"
	"github.com/tidewatch/tidecore/internal/station"
)

// TideUseCase resolves a station id through a station.Provider and
// evaluates it through a domain.Engine, applying subordinate-station
// time/height offsets where required.
type TideUseCase struct {
	engine   *domain.Engine
	provider station.Provider
}

// NewTideUseCase builds a TideUseCase over the given engine and provider.
func NewTideUseCase(engine *domain.Engine, provider station.Provider) *TideUseCase {
	return &TideUseCase{engine: engine, provider: provider}
}

// resolved bundles everything Height/Rate/NextExtremum need once a
// station id has been looked up through the provider.
type resolved struct {
	kind       station.Kind
	refID      string
	refConsts  domain.StationConstants
	ownDatum   float64
	offset     *station.SubordinateOffset
}

func (uc *TideUseCase) resolve(stationID string) (resolved, error) {
	st, err := uc.provider.Constants(stationID)
	if err != nil {
		return resolved{}, err
	}

	if st.Kind == station.Reference {
		if len(st.Amplitudes) == 0 {
			return resolved{}, domain.NewEmptyConstantsError(stationID)
		}
		return resolved{
			kind:      station.Reference,
			refID:     stationID,
			refConsts: toEngineConstants(st),
			ownDatum:  st.Datum,
		}, nil
	}

	if st.Offset == nil {
		return resolved{}, fmt.Errorf("subordinate station %s missing offset record", stationID)
	}

	refStation, err := uc.provider.Constants(st.Offset.ReferenceStationID)
	if err != nil {
		return resolved{}, err
	}
	if len(refStation.Amplitudes) == 0 {
		return resolved{}, domain.NewEmptyConstantsError(st.Offset.ReferenceStationID)
	}

	return resolved{
		kind:      station.Subordinate,
		refID:     st.Offset.ReferenceStationID,
		refConsts: toEngineConstants(refStation),
		ownDatum:  st.Datum,
		offset:    st.Offset,
	}, nil
}

func toEngineConstants(st station.Station) domain.StationConstants {
	amplitudes := make([]domain.Amplitude, len(st.Amplitudes))
	for i, a := range st.Amplitudes {
		amplitudes[i] = domain.Amplitude{Name: a.Name, Amplitude: a.Amplitude, PhaseDeg: a.PhaseDeg}
	}
	return domain.StationConstants{Datum: st.Datum, Amplitudes: amplitudes}
}

// Height returns h(t) for stationID, applying the subordinate
// height-factor post-processing (r*h_ref + (1-r)*Z0_own, r chosen by
// the sign of the reference rate) when stationID is a subordinate
// station.
func (uc *TideUseCase) Height(stationID string, t time.Time) (float64, error) {
	r, err := uc.resolve(stationID)
	if err != nil {
		return 0, err
	}

	refHeight := uc.engine.Height(r.refConsts, t)
	if r.kind == station.Reference {
		return refHeight, nil
	}

	refRate := uc.engine.Rate(r.refConsts, t)
	factor := r.offset.LowHeightFactor
	if refRate >= 0 {
		factor = r.offset.HighHeightFactor
	}
	return factor*refHeight + (1-factor)*r.ownDatum, nil
}

// Rate returns the reference station's rate for stationID; subordinate
// ids collapse to their reference's rate per spec section 4.3.
func (uc *TideUseCase) Rate(stationID string, t time.Time) (float64, error) {
	r, err := uc.resolve(stationID)
	if err != nil {
		return 0, err
	}
	return uc.engine.Rate(r.refConsts, t), nil
}

// TideHeight returns the full (time, height, rate, direction) tuple
// for stationID at t, honoring subordinate post-processing for height.
func (uc *TideUseCase) TideHeight(stationID string, t time.Time) (domain.TideHeight, error) {
	r, err := uc.resolve(stationID)
	if err != nil {
		return domain.TideHeight{}, err
	}

	height, err := uc.Height(stationID, t)
	if err != nil {
		return domain.TideHeight{}, err
	}
	// Rate and direction come from the engine on the reference
	// constants, so the engine's configured slack threshold applies.
	th := uc.engine.TideHeight(r.refConsts, t)
	th.Height = height

	return th, nil
}

// NextExtremum finds the next extremum of the requested type for
// stationID. For a subordinate station, the reference station's
// extremum time is shifted by the matching time offset and the
// height is recomputed via Height (which applies the height factor),
// per spec section 4.3.
func (uc *TideUseCase) NextExtremum(stationID string, t time.Time, wantHigh bool) (*domain.TideExtremum, error) {
	r, err := uc.resolve(stationID)
	if err != nil {
		return nil, err
	}

	refExtremum := uc.engine.NextExtremum(r.refConsts, t, wantHigh)
	if refExtremum == nil {
		return nil, nil
	}

	if r.kind == station.Reference {
		return refExtremum, nil
	}

	shift := time.Duration(r.offset.LowTimeOffsetMin * float64(time.Minute))
	if wantHigh {
		shift = time.Duration(r.offset.HighTimeOffsetMin * float64(time.Minute))
	}
	shiftedTime := refExtremum.Time.Add(shift)

	height, err := uc.Height(stationID, shiftedTime)
	if err != nil {
		return nil, err
	}

	return &domain.TideExtremum{
		Time:   shiftedTime,
		Height: height,
		Type:   refExtremum.Type,
	}, nil
}

// Extrema lists extrema for stationID in [t0,t1), alternating
// high/low, applying subordinate post-processing per extremum.
func (uc *TideUseCase) Extrema(stationID string, t0, t1 time.Time) ([]domain.TideExtremum, error) {
	if !t1.After(t0) {
		return []domain.TideExtremum{}, nil
	}

	r, err := uc.resolve(stationID)
	if err != nil {
		return nil, err
	}

	wantHigh := uc.engine.Rate(r.refConsts, t0) >= 0
	results := make([]domain.TideExtremum, 0)
	cursor := t0

	for {
		ext, err := uc.NextExtremum(stationID, cursor, wantHigh)
		if err != nil {
			return nil, err
		}
		if ext == nil || !ext.Time.Before(t1) {
			break
		}
		results = append(results, *ext)
		cursor = ext.Time
		wantHigh = !wantHigh
	}

	return results, nil
}

// Curve samples TideHeight for stationID across [t0,t1] on a step grid.
func (uc *TideUseCase) Curve(stationID string, t0, t1 time.Time, step time.Duration) ([]domain.TideHeight, error) {
	if t0.After(t1) {
		return []domain.TideHeight{}, nil
	}

	samples := make([]domain.TideHeight, 0)
	for t := t0; !t.After(t1); t = t.Add(step) {
		th, err := uc.TideHeight(stationID, t)
		if err != nil {
			return nil, err
		}
		samples = append(samples, th)
	}
	return samples, nil
}

// Constituents returns the full constituent catalog for display, e.g.
// by the /v1/constituents HTTP handler.
func (uc *TideUseCase) Constituents() []domain.Constituent {
	return domain.All()
}

// ReferenceConstants exposes the resolved reference-station constants
// for stationID, for callers that need to run the engine directly without repeating provider-resolution logic.
func (uc *TideUseCase) ReferenceConstants(stationID string) (domain.StationConstants, error) {
	r, err := uc.resolve(stationID)
	if err != nil {
		return domain.StationConstants{}, err
	}
	return r.refConsts, nil
}
