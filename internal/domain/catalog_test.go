package domain

import "testing"

func TestLookup_KnownConstituent(t *testing.T) {
	c, ok := Lookup("M2")
	if !ok {
		t.Fatal("expected M2 to be found")
	}
	if c.SpeedDegPerHr != 28.9841042 {
		t.Errorf("M2 speed: expected 28.9841042, got %v", c.SpeedDegPerHr)
	}
	if c.Class != Semidiurnal {
		t.Errorf("M2 class: expected Semidiurnal, got %v", c.Class)
	}
}

func TestLookup_UnknownConstituent(t *testing.T) {
	if _, ok := Lookup("ZZ9"); ok {
		t.Error("expected ZZ9 to be unknown")
	}
}

func TestAll_DeclaredOrderAndCount(t *testing.T) {
	all := All()
	if len(all) < 30 {
		t.Errorf("expected at least 30 constituents, got %d", len(all))
	}
	if all[0].Name != "M2" {
		t.Errorf("expected first constituent to be M2, got %s", all[0].Name)
	}
}

func TestAll_ReturnsCopyNotBackingArray(t *testing.T) {
	all := All()
	all[0].Name = "mutated"

	again := All()
	if again[0].Name != "M2" {
		t.Errorf("mutating All()'s result leaked into the catalog: got %s", again[0].Name)
	}
}

func TestClassString(t *testing.T) {
	cases := map[Class]string{
		LongPeriod:  "long-period",
		Diurnal:     "diurnal",
		Semidiurnal: "semidiurnal",
		Compound:    "compound",
	}
	for class, want := range cases {
		if got := class.String(); got != want {
			t.Errorf("Class(%d).String(): expected %s, got %s", class, want, got)
		}
	}
}
