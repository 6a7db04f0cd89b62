package stats

import "testing"

func TestBenjaminiHochbergRejectsTheSmallPValuesFirst(t *testing.T) {
	pValues := []float64{0.001, 0.008, 0.039, 0.041, 0.23, 0.45, 0.78}

	res, err := BenjaminiHochberg(pValues, 0.05)
	if err != nil {
		t.Fatalf("BenjaminiHochberg: %v", err)
	}
	if !res.Rejections[0] || !res.Rejections[1] {
		t.Fatalf("expected the two smallest p-values to survive BH, got %v", res.Rejections)
	}
	if res.Rejections[5] || res.Rejections[6] {
		t.Fatalf("expected the two largest p-values to fail BH, got %v", res.Rejections)
	}
	for i, p := range pValues {
		if res.AdjustedPValues[i] < p-1e-10 {
			t.Fatalf("adjusted p-value %d (%v) must be >= original (%v)", i, res.AdjustedPValues[i], p)
		}
	}
}

func TestBonferroniMatchesHandComputedThreshold(t *testing.T) {
	pValues := []float64{0.005, 0.01, 0.02, 0.04}

	res, err := Bonferroni(pValues, 0.05)
	if err != nil {
		t.Fatalf("Bonferroni: %v", err)
	}
	want := []bool{true, true, false, false}
	for i, w := range want {
		if res.Rejections[i] != w {
			t.Fatalf("rejection %d: got %v want %v (adjusted %v)", i, res.Rejections[i], w, res.AdjustedPValues[i])
		}
	}
	if res.NRejections != 2 {
		t.Fatalf("NRejections: got %d want 2", res.NRejections)
	}
}

func TestHolmBonferroniIsLessConservativeThanBonferroni(t *testing.T) {
	pValues := []float64{0.001, 0.01, 0.04, 0.07}

	holm, err := HolmBonferroni(pValues, 0.05)
	if err != nil {
		t.Fatalf("HolmBonferroni: %v", err)
	}
	if !holm.Rejections[0] {
		t.Fatal("expected the smallest p-value to be rejected under Holm")
	}
	if holm.NRejections < 1 {
		t.Fatalf("expected at least one rejection, got %d", holm.NRejections)
	}

	bonf, err := Bonferroni(pValues, 0.05)
	if err != nil {
		t.Fatalf("Bonferroni: %v", err)
	}
	if holm.NRejections < bonf.NRejections {
		t.Fatalf("Holm should reject at least as many hypotheses as Bonferroni: holm=%d bonf=%d", holm.NRejections, bonf.NRejections)
	}
}

func TestMultipleComparisonCorrectionsRejectEmptyInput(t *testing.T) {
	if _, err := Bonferroni(nil, 0.05); err == nil {
		t.Fatal("expected an error for empty p_values (Bonferroni)")
	}
	if _, err := HolmBonferroni(nil, 0.05); err == nil {
		t.Fatal("expected an error for empty p_values (Holm)")
	}
	if _, err := BenjaminiHochberg(nil, 0.05); err == nil {
		t.Fatal("expected an error for empty p_values (BH)")
	}
}
