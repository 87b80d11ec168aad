package domain

import (
	"math"
	"sort"
	"time"
)

// epsilonSlack is the default rate magnitude below which the tide is
// classified as slack rather than rising or falling.
const epsilonSlack = 0.05

// epsilonNewton is the default rate magnitude Newton's method must
// reach before an extremum search is considered converged.
const epsilonNewton = 1e-3

// rateDelta is the half-width used by the symmetric finite-difference
// derivative of height (±60 s).
const rateDelta = 60 * time.Second

// secondDerivativeDelta is the half-width used by the symmetric
// finite-difference derivative of rate when Newton-stepping an
// extremum (±5 min).
const secondDerivativeDelta = 5 * time.Minute

// coarseStep is the step used while bracketing a sign change in rate.
const coarseStep = 30 * time.Minute

// searchHorizon bounds how far past t an extremum search may look
// before giving up.
const searchHorizon = 30 * time.Hour

const maxNewtonIterations = 20

// Direction classifies the tide's motion at an instant.
type Direction int

const (
	Rising Direction = iota
	Falling
	Slack
)

func (d Direction) String() string {
	switch d {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	case Slack:
		return "slack"
	default:
		return "unknown"
	}
}

// ExtremumType distinguishes a high tide from a low tide.
type ExtremumType int

const (
	High ExtremumType = iota
	Low
)

func (e ExtremumType) String() string {
	if e == High {
		return "high"
	}
	return "low"
}

// TideHeight is the height, rate, and classified direction at an instant.
type TideHeight struct {
	Time      time.Time
	Height    float64
	Rate      float64
	Direction Direction
}

// TideExtremum is a local maximum or minimum of the height function.
type TideExtremum struct {
	Time   time.Time
	Height float64
	Type   ExtremumType
}

// StationConstants is the subset of a station record the engine needs
// to evaluate height: a reference station's datum and per-constituent
// amplitude/phase, resolved via the station.Provider by the caller
// (internal/usecase), keeping this package free of a direct dependency
// on the station package's provider machinery.
type StationConstants struct {
	Datum      float64
	Amplitudes []Amplitude
}

// Amplitude is one constituent's station-specific amplitude and GMT phase.
type Amplitude struct {
	Name      string
	Amplitude float64
	PhaseDeg  float64
}

// Engine evaluates height, rate, extrema, and curves from a fixed
// constituent catalog and a per-constituent equilibrium argument
// cached once at construction, per spec section 4.3's reference-epoch
// convention.
type Engine struct {
	catalog  []Constituent
	catalogV map[string]float64 // V0 at the reference epoch, keyed by constituent name
	epsSlack  float64
	epsNewton float64
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithSlackEpsilon overrides the default slack-rate threshold.
func WithSlackEpsilon(eps float64) EngineOption {
	return func(e *Engine) { e.epsSlack = eps }
}

// WithNewtonEpsilon overrides the default Newton convergence threshold.
func WithNewtonEpsilon(eps float64) EngineOption {
	return func(e *Engine) { e.epsNewton = eps }
}

// NewEngine builds an Engine, evaluating V0 once per catalog
// constituent at the fixed reference epoch (1983-01-01T00:00:00 UTC).
func NewEngine(opts ...EngineOption) *Engine {
	catalog := All()
	v := make(map[string]float64, len(catalog))
	for _, c := range catalog {
		v[c.Name] = V0(c, referenceEpoch)
	}

	e := &Engine{
		catalog:   catalog,
		catalogV:  v,
		epsSlack:  epsilonSlack,
		epsNewton: epsilonNewton,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Height evaluates h(t) = Z0 + sum_i A_i f_i(t) cos(omega_i (t - t_ref) + V_i(t_ref) + u_i(t) - kappa_i).
// Unknown constituent names in amplitudes are skipped silently.
func (e *Engine) Height(constants StationConstants, t time.Time) float64 {
	deltaHours := t.Sub(referenceEpoch).Hours()
	height := constants.Datum

	for _, a := range constants.Amplitudes {
		c, ok := Lookup(a.Name)
		if !ok {
			continue
		}
		f := NodeFactor(c, t)
		u := NodalPhase(c, t)
		v0 := e.catalogV[c.Name]

		phaseDeg := c.SpeedDegPerHr*deltaHours + v0 + u - a.PhaseDeg
		height += a.Amplitude * f * math.Cos(deg2rad(phaseDeg))
	}

	return height
}

// Rate returns the symmetric-difference derivative of height at t,
// in the station's length unit per hour.
func (e *Engine) Rate(constants StationConstants, t time.Time) float64 {
	hPlus := e.Height(constants, t.Add(rateDelta))
	hMinus := e.Height(constants, t.Add(-rateDelta))
	return (hPlus - hMinus) / (2 * rateDelta.Hours())
}

// TideHeight returns height, rate, and classified direction at t.
func (e *Engine) TideHeight(constants StationConstants, t time.Time) TideHeight {
	rate := e.Rate(constants, t)
	height := e.Height(constants, t)

	direction := Slack
	switch {
	case math.Abs(rate) < e.epsSlack:
		direction = Slack
	case rate > 0:
		direction = Rising
	default:
		direction = Falling
	}

	return TideHeight{Time: t, Height: height, Rate: rate, Direction: direction}
}

// secondDerivative approximates the derivative of rate at t via a
// symmetric difference of rate itself, used as the Newton-step slope.
func (e *Engine) secondDerivative(constants StationConstants, t time.Time) float64 {
	rPlus := e.Rate(constants, t.Add(secondDerivativeDelta))
	rMinus := e.Rate(constants, t.Add(-secondDerivativeDelta))
	return (rPlus - rMinus) / (2 * secondDerivativeDelta.Hours())
}

// NextExtremum finds the first extremum of the requested type on the
// reference station's constants on or after t+10min, within a 30-hour
// search horizon. Returns nil if none is bracketed in that window or
// Newton's method fails to converge.
func (e *Engine) NextExtremum(constants StationConstants, t time.Time, wantHigh bool) *TideExtremum {
	start := t.Add(10 * time.Minute)
	deadline := t.Add(searchHorizon)

	prevRate := e.Rate(constants, start)
	cursor := start

	for {
		next := cursor.Add(coarseStep)
		if next.After(deadline) {
			return nil
		}

		nextRate := e.Rate(constants, next)
		if signChanged(prevRate, nextRate) {
			extremum := e.refine(constants, cursor, next)
			if extremum == nil {
				return nil
			}
			if (wantHigh && extremum.Type == High) || (!wantHigh && extremum.Type == Low) {
				return extremum
			}
			// Wrong type bracketed first; keep searching forward
			// from just past it for the requested type.
			cursor = extremum.Time.Add(10 * time.Minute)
			prevRate = e.Rate(constants, cursor)
			continue
		}

		cursor = next
		prevRate = nextRate
	}
}

func signChanged(a, b float64) bool {
	return (a >= 0) != (b >= 0)
}

// refine Newton-steps from the midpoint of a bracket [lo,hi] on rate
// to find where rate=0, classifying the result by the sign of the
// second derivative there. Returns nil on non-convergence.
func (e *Engine) refine(constants StationConstants, lo, hi time.Time) *TideExtremum {
	bracketRadius := hi.Sub(lo)
	if bracketRadius < 0 {
		bracketRadius = -bracketRadius
	}
	maxShift := time.Hour
	guess := lo.Add(hi.Sub(lo) / 2)

	for i := 0; i < maxNewtonIterations; i++ {
		rate := e.Rate(constants, guess)
		if math.Abs(rate) < e.epsNewton {
			second := e.secondDerivative(constants, guess)
			extType := Low
			if second < 0 {
				extType = High
			}
			return &TideExtremum{
				Time:   guess,
				Height: e.Height(constants, guess),
				Type:   extType,
			}
		}

		slope := e.secondDerivative(constants, guess)
		if slope == 0 {
			return nil
		}

		stepHours := -rate / slope
		guess = guess.Add(time.Duration(stepHours * float64(time.Hour)))

		if shift := absDuration(guess.Sub(lo.Add(hi.Sub(lo) / 2))); shift > maxShift {
			return nil
		}
	}

	return nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Extrema lists extrema in [t0,t1), alternating high/low, starting
// from the type implied by the sign of rate at t0.
func (e *Engine) Extrema(constants StationConstants, t0, t1 time.Time) []TideExtremum {
	if !t1.After(t0) {
		return []TideExtremum{}
	}

	wantHigh := e.Rate(constants, t0) >= 0
	results := make([]TideExtremum, 0)
	cursor := t0

	for {
		ext := e.NextExtremum(constants, cursor, wantHigh)
		if ext == nil || !ext.Time.Before(t1) {
			break
		}
		results = append(results, *ext)
		cursor = ext.Time
		wantHigh = !wantHigh
	}

	return results
}

// Curve samples height at t0, t0+step, ..., up to and including t1
// when it lands exactly on the grid. Empty if t0>t1.
func (e *Engine) Curve(constants StationConstants, t0, t1 time.Time, step time.Duration) []TideHeight {
	if t0.After(t1) {
		return []TideHeight{}
	}

	samples := make([]TideHeight, 0)
	for t := t0; !t.After(t1); t = t.Add(step) {
		samples = append(samples, e.TideHeight(constants, t))
	}
	return samples
}

// sortExtrema orders extrema ascending by time. Nothing in the module
// calls it: Extrema already returns a sorted, alternating sequence,
// and the extrema cache sorts its own copies.
func sortExtrema(extrema []TideExtremum) {
	sort.Slice(extrema, func(i, j int) bool {
		return extrema[i].Time.Before(extrema[j].Time)
	})
}
