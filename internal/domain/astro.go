package domain

import (
	"math"
	"time"
)

// referenceEpoch is the fixed instant (1983-01-01T00:00:00 UTC) at
// which V is evaluated once per constituent and cached by the
// harmonic engine. It must never be used for f/u, only for V.
//
//nolint:gochecknoglobals // immutable constant instant.
var referenceEpoch = time.Date(1983, time.January, 1, 0, 0, 0, 0, time.UTC)

// j2000Epoch is 2000-01-01T12:00:00 UTC, the epoch for Julian
// centuries T used by the Meeus-style polynomials below.
//
//nolint:gochecknoglobals // immutable constant instant.
var j2000Epoch = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// AstronomicalArguments holds the fundamental astronomical arguments
// at an instant. Tau is kept unbounded (not reduced modulo 360) so
// that tau-dependent phases remain continuous across midnight; every
// other argument is normalized to [0,360).
type AstronomicalArguments struct {
	Tau float64 // mean lunar time, unbounded, degrees
	S   float64 // mean longitude of the moon, degrees
	H   float64 // mean longitude of the sun, degrees
	P   float64 // mean longitude of lunar perigee, degrees
	N   float64 // mean longitude of lunar ascending node, degrees
	P1  float64 // mean longitude of solar perigee, degrees
}

// orbitalParameters are the intermediate lunar-orbit quantities used
// by the node-factor and nodal-phase closed forms.
type orbitalParameters struct {
	I   float64 // inclination of lunar orbit to the equator, degrees
	nu  float64 // degrees
	xi  float64 // degrees
	nup float64 // nu', degrees
	nu2 float64 // nu'', degrees
	bigP float64 // P = p - xi, degrees
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }
func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

// norm360 reduces a degree value to [0,360).
func norm360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// julianCenturies returns Julian centuries since 2000-01-01T12:00:00 UTC.
func julianCenturies(t time.Time) float64 {
	days := t.Sub(j2000Epoch).Hours() / 24.0
	return days / 36525.0
}

// Arguments computes the fundamental astronomical arguments at t.
// Tau accumulates at roughly 15 degrees per hour plus the slow
// s/h drift and is never reduced modulo 360; s, h, p, N, p1 are.
func Arguments(t time.Time) AstronomicalArguments {
	T := julianCenturies(t)

	// Meeus-style low-precision polynomials (degrees).
	s := 218.3164477 + 481267.88123421*T - 0.0015786*T*T + T*T*T/538841.0 - T*T*T*T/65194000.0
	h := 280.4664567 + 36000.76982779*T + 0.0003032*T*T + T*T*T/49931000.0
	p := 83.3532465 + 4069.0137287*T - 0.0103200*T*T - T*T*T/80053.0
	N := 125.0445479 - 1934.1362891*T + 0.0020754*T*T + T*T*T/467441.0
	p1 := 282.9373508 + 1.71945766*T + 0.00045688*T*T - T*T*T/1850000.0

	sNorm := norm360(s)
	hNorm := norm360(h)
	pNorm := norm360(p)
	nNorm := norm360(N)
	p1Norm := norm360(p1)

	// tau is mean lunar time. It must accumulate continuously (~15
	// deg/hour of actual elapsed time, unbounded) rather than resetting
	// with the time-of-day at each midnight, or odd-order Doodson
	// tau-coefficients would introduce a visible hop in V at every UTC
	// day boundary. totalHours is elapsed hours since the J2000 epoch,
	// never reduced modulo 24.
	totalHours := t.Sub(j2000Epoch).Hours()
	tau := 15.0*totalHours + h - s

	return AstronomicalArguments{
		Tau: tau,
		S:   sNorm,
		H:   hNorm,
		P:   pNorm,
		N:   nNorm,
		P1:  p1Norm,
	}
}

// orbital derives I, nu, xi, nu', nu'', and P from N and p, following
// the formulas in spec section 4.2 (Schureman's derivation).
func orbital(args AstronomicalArguments) orbitalParameters {
	Nrad := deg2rad(args.N)
	I := math.Acos(0.9136949 - 0.0356926*math.Cos(Nrad))
	sinI := math.Sin(I)

	nu := math.Asin(0.0897056 * math.Sin(Nrad) / sinI)

	xi := args.N - rad2deg(2*math.Atan(0.64412*math.Tan(Nrad/2))) - rad2deg(nu)

	nup := math.Atan(math.Sin(nu) / (math.Cos(nu) + 0.334766/math.Sin(2*I)))

	nu2 := 0.5 * math.Atan(math.Sin(2*nu)/(math.Cos(2*nu)+0.0726184/(sinI*sinI)))

	bigP := args.P - xi

	return orbitalParameters{
		I:    rad2deg(I),
		nu:   rad2deg(nu),
		xi:   xi,
		nup:  rad2deg(nup),
		nu2:  rad2deg(nu2),
		bigP: norm360(bigP),
	}
}

// V0 returns the equilibrium argument V (degrees, reduced modulo 360)
// for c at t: d.X + c, where tau's contribution uses the unbounded
// tau so the argument is continuous across midnight before the final
// reduction.
func V0(c Constituent, t time.Time) float64 {
	args := Arguments(t)
	v := float64(c.D[0])*args.Tau +
		float64(c.D[1])*args.S +
		float64(c.D[2])*args.H +
		float64(c.D[3])*args.P +
		float64(c.D[4])*args.N +
		float64(c.D[5])*args.P1 +
		c.PhaseOffsetC
	return norm360(v)
}

// NodeFactor returns the dimensionless nodal amplitude factor f for c at t.
func NodeFactor(c Constituent, t time.Time) float64 {
	o := orbital(Arguments(t))
	return nodeFactor(c.Name, o)
}

// NodalPhase returns the nodal phase correction u (degrees) for c at t.
func NodalPhase(c Constituent, t time.Time) float64 {
	o := orbital(Arguments(t))
	return nodalPhase(c.Name, o)
}

// fM2 is the node factor shared by the M2-family constituents
// (M2, N2, 2N2, nu2, mu2, lambda2), per Schureman's cos^4(I/2)/0.91544.
func fM2(o orbitalParameters) float64 {
	c4 := math.Pow(math.Cos(deg2rad(o.I)/2), 4)
	return c4 / 0.91544
}

// fO1 is the node factor shared by the O1-family diurnal constituents
// (O1, Q1, rho1, 2Q1).
func fO1(o orbitalParameters) float64 {
	Irad := deg2rad(o.I)
	return math.Sin(Irad) * math.Pow(math.Cos(Irad/2), 2) / 0.37689
}

func fK1(o orbitalParameters) float64 {
	Irad := deg2rad(o.I)
	sin2I := math.Sin(2 * Irad)
	nuRad := deg2rad(o.nu)
	return math.Sqrt(0.8965*sin2I*sin2I + 0.6001*sin2I*math.Cos(nuRad) + 0.1006)
}

func fK2(o orbitalParameters) float64 {
	Irad := deg2rad(o.I)
	sinI := math.Sin(Irad)
	nu2Rad := deg2rad(2 * o.nu)
	return math.Sqrt(19.0444*math.Pow(sinI, 4) + 2.7702*sinI*sinI*math.Cos(nu2Rad) + 0.0981)
}

func fMf(o orbitalParameters) float64 {
	sinI := math.Sin(deg2rad(o.I))
	return sinI * sinI / 0.1578
}

func fJ1(o orbitalParameters) float64 {
	return math.Sin(2*deg2rad(o.I)) / 0.7214
}

func fOO1(o orbitalParameters) float64 {
	Irad := deg2rad(o.I)
	return math.Sin(Irad) * math.Pow(math.Sin(Irad/2), 2) / 0.01640
}

// fM1 follows Schureman's M1 amplitude-factor formula, using P = p - xi.
func fM1(o orbitalParameters) float64 {
	Irad := deg2rad(o.I)
	cosI := math.Cos(Irad)
	cos2P := math.Cos(2 * deg2rad(o.bigP))
	num := 0.25 + 1.5*cosI*cos2P + 2.25*cosI*cosI
	denom := math.Pow(math.Cos(Irad/2), 3)
	if denom == 0 {
		return 1
	}
	return math.Sqrt(num) / denom
}

// fL2 follows Schureman's L2 amplitude-factor formula.
func fL2(o orbitalParameters) float64 {
	tanHalfI := math.Tan(deg2rad(o.I) / 2)
	cos2P := math.Cos(2 * deg2rad(o.bigP))
	denom := math.Sqrt(1 - 12*tanHalfI*tanHalfI*cos2P + 36*math.Pow(tanHalfI, 4))
	if denom == 0 {
		return 1
	}
	return 1 / denom
}

// fMm follows Schureman's Mm amplitude-factor formula.
func fMm(o orbitalParameters) float64 {
	sinI := math.Sin(deg2rad(o.I))
	return (2.0/3.0 - sinI*sinI) / 0.5021
}

func uM1(o orbitalParameters) float64 {
	Irad := deg2rad(o.I)
	Q := math.Atan(((5*math.Cos(Irad) - 1) / (7*math.Cos(Irad) + 1)) * math.Tan(deg2rad(o.bigP)))
	return o.xi - o.nu + rad2deg(Q)
}

func uL2(o orbitalParameters) float64 {
	Irad := deg2rad(o.I)
	cot2HalfI := 1.0 / math.Pow(math.Tan(Irad/2), 2)
	R := math.Atan(math.Sin(2*deg2rad(o.bigP)) / ((1.0/6.0)*cot2HalfI - math.Cos(2*deg2rad(o.bigP))))
	return 2*o.xi - 2*o.nu - rad2deg(R)
}

// nodeFactor dispatches on the constituent name. Pure solar
// constituents and anything unrecognized default to 1 (no nodal
// amplitude modulation); compounds combine their components'
// factors multiplicatively.
func nodeFactor(name string, o orbitalParameters) float64 {
	switch name {
	case "M2", "N2", "2N2", "nu2", "mu2", "lambda2":
		return fM2(o)
	case "O1", "Q1", "rho1", "2Q1":
		return fO1(o)
	case "K1":
		return fK1(o)
	case "K2":
		return fK2(o)
	case "Mf":
		return fMf(o)
	case "J1":
		return fJ1(o)
	case "OO1":
		return fOO1(o)
	case "M1":
		return fM1(o)
	case "L2":
		return fL2(o)
	case "Mm":
		return fMm(o)
	case "S1", "S2", "T2", "R2", "P1", "Sa", "Ssa", "S4", "S6", "Msf":
		return 1
	case "M4":
		return fM2(o) * fM2(o)
	case "M6":
		return math.Pow(fM2(o), 3)
	case "M8":
		return math.Pow(fM2(o), 4)
	case "M3":
		return math.Pow(fM2(o), 1.5)
	case "MS4":
		return fM2(o)
	case "MN4":
		return fM2(o) * fM2(o)
	case "MK3":
		return fM2(o) * fK1(o)
	case "2MK3":
		return fM2(o) * fM2(o) * fK1(o)
	case "2SM2":
		m2 := fM2(o)
		if m2 == 0 {
			return 1
		}
		return 1 / m2
	default:
		return 1
	}
}

// nodalPhase dispatches on the constituent name, mirroring nodeFactor.
// Pure solar and unrecognized constituents return 0.
func nodalPhase(name string, o orbitalParameters) float64 {
	switch name {
	case "M2", "N2", "2N2", "nu2", "mu2", "lambda2":
		return 2 * (o.xi - o.nu)
	case "O1", "Q1", "rho1", "2Q1":
		return 2*o.xi - o.nu
	case "K1":
		return -o.nup
	case "K2":
		return -2 * o.nu2
	case "Mf":
		return -2 * o.xi
	case "J1":
		return -o.nu
	case "OO1":
		return -2*o.xi - o.nu
	case "M1":
		return uM1(o)
	case "L2":
		return uL2(o)
	case "Mm", "S1", "S2", "T2", "R2", "P1", "Sa", "Ssa", "S4", "S6", "Msf":
		return 0
	default:
		return compoundNodalPhase(name, o)
	}
}

// compoundNodalPhase handles the constituents whose u is a linear
// combination of component constituents' u, as spec section 4.2
// describes (e.g. u(MK3) = u(M2) + u(K1)).
func compoundNodalPhase(name string, o orbitalParameters) float64 {
	uM2 := 2 * (o.xi - o.nu)
	uK1 := -o.nup
	switch name {
	case "M4":
		return 2 * uM2
	case "M6":
		return 3 * uM2
	case "M8":
		return 4 * uM2
	case "M3":
		return 1.5 * uM2
	case "MS4":
		return uM2
	case "MN4":
		uN2 := uM2 // N2 shares M2's group formula
		return uM2 + uN2
	case "MK3":
		return uM2 + uK1
	case "2MK3":
		return 2*uM2 + uK1
	case "2SM2":
		return -uM2
	default:
		return 0
	}
}

// ReferenceEpoch returns the fixed instant at which V is evaluated
// once per constituent by the harmonic engine.
func ReferenceEpoch() time.Time { return referenceEpoch }
