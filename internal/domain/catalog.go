// Package domain implements the tide-prediction core: the constituent
// catalog, the astronomical engine, and the harmonic engine that
// combines them with a station's stored constants.
package domain

// Class classifies a constituent by its dominant period.
type Class int

// Constituent classes, coarsest to finest period.
const (
	LongPeriod Class = iota
	Diurnal
	Semidiurnal
	Compound
)

func (c Class) String() string {
	switch c {
	case LongPeriod:
		return "long-period"
	case Diurnal:
		return "diurnal"
	case Semidiurnal:
		return "semidiurnal"
	case Compound:
		return "compound"
	default:
		return "unknown"
	}
}

// Doodson holds the six integer multipliers applied to the fundamental
// astronomical arguments (tau, s, h, p, N', p1) to form a constituent's
// equilibrium argument V = d.X + c.
type Doodson [6]int

// Constituent is one partial tide: a fixed angular speed, its Doodson
// multipliers, the SP98 phase-offset constant that reconciles the
// midnight-epoch tau with the noon-epoch conventions some of the
// classical derivations use, and a coarse class tag.
type Constituent struct {
	Name          string
	SpeedDegPerHr float64
	D             Doodson
	PhaseOffsetC  float64 // degrees; see catalog.go doc comment on c.
	Class         Class
}

// catalog is the fixed, declared-order table of supported partial
// tides. Values follow the standard NOAA/Doodson 37-constituent set
// (the same set long used by NOAA CO-OPS harmonic predictions and by
// open tidal-analysis toolkits); classification and closed-form
// node-factor/nodal-phase selection live in astro.go.
//
//nolint:gochecknoglobals // immutable, process-wide lookup table.
var catalog = []Constituent{
	{"M2", 28.9841042, Doodson{2, 0, 0, 0, 0, 0}, 0, Semidiurnal},
	{"S2", 30.0000000, Doodson{2, 2, -2, 0, 0, 0}, 0, Semidiurnal},
	{"N2", 28.4397295, Doodson{2, -1, 0, 1, 0, 0}, 0, Semidiurnal},
	{"K1", 15.0410686, Doodson{1, 1, 0, 0, 0, 0}, 90, Diurnal},
	{"M4", 57.9682084, Doodson{4, 0, 0, 0, 0, 0}, 0, Compound},
	{"O1", 13.9430356, Doodson{1, -1, 0, 0, 0, 0}, -90, Diurnal},
	{"M6", 86.9523127, Doodson{6, 0, 0, 0, 0, 0}, 0, Compound},
	{"MK3", 44.0251729, Doodson{3, 1, 0, 0, 0, 0}, 90, Compound},
	{"S4", 60.0000000, Doodson{4, 4, -4, 0, 0, 0}, 0, Compound},
	{"MN4", 57.4238337, Doodson{4, -1, 0, 1, 0, 0}, 0, Compound},
	{"nu2", 28.5125831, Doodson{2, -1, 2, -1, 0, 0}, 0, Semidiurnal},
	{"S6", 90.0000000, Doodson{6, 6, -6, 0, 0, 0}, 0, Compound},
	{"mu2", 27.9682084, Doodson{2, -2, 2, 0, 0, 0}, 0, Semidiurnal},
	{"2N2", 27.8953548, Doodson{2, -2, 0, 2, 0, 0}, 0, Semidiurnal},
	{"OO1", 16.1391017, Doodson{1, 3, 0, 0, 0, 0}, 90, Diurnal},
	{"lambda2", 29.4556253, Doodson{2, 1, -2, 1, 0, 0}, 180, Semidiurnal},
	{"S1", 15.0000000, Doodson{1, 1, -1, 0, 0, 0}, 0, Diurnal},
	{"M1", 14.4966939, Doodson{1, 0, 0, 1, 0, 0}, 90, Diurnal},
	{"J1", 15.5854433, Doodson{1, 2, 0, -1, 0, 0}, 0, Diurnal},
	{"Mm", 0.5443747, Doodson{0, 1, 0, -1, 0, 0}, 0, LongPeriod},
	{"Ssa", 0.0821373, Doodson{0, 0, 2, 0, 0, 0}, 0, LongPeriod},
	{"Sa", 0.0410686, Doodson{0, 0, 1, 0, 0, 0}, 0, LongPeriod},
	{"Msf", 1.0158958, Doodson{0, 2, -2, 0, 0, 0}, 0, LongPeriod},
	{"Mf", 1.0980331, Doodson{0, 2, 0, 0, 0, 0}, 0, LongPeriod},
	{"rho1", 13.4715145, Doodson{1, -2, 2, -1, 0, 0}, -90, Diurnal},
	{"Q1", 13.3986609, Doodson{1, -2, 0, 1, 0, 0}, -90, Diurnal},
	{"T2", 29.9589333, Doodson{2, 2, -3, 0, 0, 1}, 0, Semidiurnal},
	{"R2", 30.0410667, Doodson{2, 2, -1, 0, 0, -1}, 180, Semidiurnal},
	{"2Q1", 12.8542862, Doodson{1, -3, 0, 2, 0, 0}, -90, Diurnal},
	{"P1", 14.9589314, Doodson{1, 1, -2, 0, 0, 0}, -90, Diurnal},
	{"2SM2", 31.0158958, Doodson{2, 4, -4, 0, 0, 0}, 0, Compound},
	{"M3", 43.4761563, Doodson{3, 0, 0, 0, 0, 0}, 0, Compound},
	{"L2", 29.5284789, Doodson{2, 1, 0, -1, 0, 0}, 180, Semidiurnal},
	{"2MK3", 42.9271398, Doodson{3, -1, 0, 0, 0, 0}, -90, Compound},
	{"K2", 30.0821373, Doodson{2, 2, 0, 0, 0, 0}, 0, Semidiurnal},
	{"M8", 115.9364166, Doodson{8, 0, 0, 0, 0, 0}, 0, Compound},
	{"MS4", 58.9841042, Doodson{4, 2, -2, 0, 0, 0}, 0, Compound},
}

//nolint:gochecknoglobals // built once from catalog at package init.
var catalogIndex = func() map[string]Constituent {
	idx := make(map[string]Constituent, len(catalog))
	for _, c := range catalog {
		idx[c.Name] = c
	}
	return idx
}()

// Lookup returns the catalog entry for name, or false if name is not a
// recognized constituent. Callers use Lookup to silently skip unknown
// names rather than treating them as errors.
func Lookup(name string) (Constituent, bool) {
	c, ok := catalogIndex[name]
	return c, ok
}

// All returns every catalog constituent in declared order. The
// returned slice is a copy; callers may not mutate catalog state
// through it.
func All() []Constituent {
	out := make([]Constituent, len(catalog))
	copy(out, catalog)
	return out
}
