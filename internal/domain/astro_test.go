package domain

import (
	"math"
	"testing"
	"time"
)

func TestArguments_TauUnboundedAcrossMidnight(t *testing.T) {
	before := time.Date(2025, 12, 31, 23, 55, 0, 0, time.UTC)
	after := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)

	argsBefore := Arguments(before)
	argsAfter := Arguments(after)

	// Ten minutes of lunar time is about 2.5 degrees; tau must not jump
	// by anything like 360 degrees just because the UTC day rolled over.
	delta := math.Abs(argsAfter.Tau - argsBefore.Tau)
	if delta > 10 {
		t.Errorf("tau jumped by %.4f degrees across midnight, want < 10", delta)
	}
}

func TestArguments_NormalizedFieldsInRange(t *testing.T) {
	args := Arguments(time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC))

	for name, v := range map[string]float64{"s": args.S, "h": args.H, "p": args.P, "N": args.N, "p1": args.P1} {
		if v < 0 || v >= 360 {
			t.Errorf("%s = %.4f, want in [0,360)", name, v)
		}
	}
}

func TestV0_ReducedModulo360(t *testing.T) {
	m2, ok := Lookup("M2")
	if !ok {
		t.Fatal("M2 not found")
	}
	v := V0(m2, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if v < 0 || v >= 360 {
		t.Errorf("V0(M2) = %.4f, want in [0,360)", v)
	}
}

func TestNodeFactor_PureSolarConstituentsAreUnity(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, name := range []string{"S1", "S2", "T2", "R2", "P1", "Sa", "Ssa", "S4", "S6"} {
		c, ok := Lookup(name)
		if !ok {
			t.Fatalf("%s not found in catalog", name)
		}
		f := NodeFactor(c, t0)
		if math.Abs(f-1.0) > 1e-9 {
			t.Errorf("NodeFactor(%s) = %.6f, want 1", name, f)
		}
		if u := NodalPhase(c, t0); u != 0 {
			t.Errorf("NodalPhase(%s) = %.6f, want 0", name, u)
		}
	}
}

func TestNodeFactor_WithinSchuremanRange(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Each closed form evaluated over the lunar inclination's range
	// (I from about 18.3 to 28.6 degrees), rounded slightly outward.
	ranges := map[string][2]float64{
		"M2":  {0.96, 1.04},
		"N2":  {0.96, 1.04},
		"K1":  {0.88, 1.12},
		"O1":  {0.81, 1.20},
		"K2":  {0.74, 1.32},
		"Mf":  {0.62, 1.46},
		"J1":  {0.82, 1.17},
		"OO1": {0.48, 1.79},
	}
	for _, name := range []string{"M2", "N2", "K1", "O1", "K2", "Mf", "J1", "OO1"} {
		c, ok := Lookup(name)
		if !ok {
			t.Fatalf("%s not found in catalog", name)
		}
		f := NodeFactor(c, t0)
		lo, hi := ranges[name][0], ranges[name][1]
		if f < lo || f > hi {
			t.Errorf("NodeFactor(%s) = %.6f, want in [%.2f,%.2f]", name, f, lo, hi)
		}
	}
}

func TestNodeFactor_CompoundsAreProductsOfComponents(t *testing.T) {
	t0 := time.Date(2026, 5, 20, 6, 0, 0, 0, time.UTC)
	m2, _ := Lookup("M2")
	k1, _ := Lookup("K1")
	m4, _ := Lookup("M4")
	mk3, _ := Lookup("MK3")

	fM2 := NodeFactor(m2, t0)
	fK1 := NodeFactor(k1, t0)

	if got, want := NodeFactor(m4, t0), fM2*fM2; math.Abs(got-want) > 1e-9 {
		t.Errorf("NodeFactor(M4) = %.8f, want f(M2)^2 = %.8f", got, want)
	}
	if got, want := NodeFactor(mk3, t0), fM2*fK1; math.Abs(got-want) > 1e-9 {
		t.Errorf("NodeFactor(MK3) = %.8f, want f(M2)*f(K1) = %.8f", got, want)
	}
}

func TestNodalPhase_CompoundsSumComponents(t *testing.T) {
	t0 := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	m2, _ := Lookup("M2")
	k1, _ := Lookup("K1")
	mk3, _ := Lookup("MK3")
	sm2, _ := Lookup("2SM2")

	uM2 := NodalPhase(m2, t0)
	uK1 := NodalPhase(k1, t0)

	if got, want := NodalPhase(mk3, t0), uM2+uK1; math.Abs(got-want) > 1e-9 {
		t.Errorf("NodalPhase(MK3) = %.8f, want u(M2)+u(K1) = %.8f", got, want)
	}
	if got, want := NodalPhase(sm2, t0), -uM2; math.Abs(got-want) > 1e-9 {
		t.Errorf("NodalPhase(2SM2) = %.8f, want -u(M2) = %.8f", got, want)
	}
}
