package stats

import "testing"

func TestPermutationTestDetectsClearDifference(t *testing.T) {
	groupA := sequence(10, 30) // mean 19.5
	groupB := sequence(0, 20)  // mean 9.5

	res, err := PermutationTest(groupA, groupB, 1000, 42)
	if err != nil {
		t.Fatalf("PermutationTest: %v", err)
	}
	if !res.IsSignificant(0.05) {
		t.Fatalf("expected significance at 5%%, got p=%v", res.PValue)
	}
	if res.ObservedStatistic <= 0 {
		t.Fatalf("expected a positive observed statistic, got %v", res.ObservedStatistic)
	}
}

func TestPermutationTestNotSignificantForIdenticalDistributions(t *testing.T) {
	// Interleaved values drawn from the same range; no systematic difference.
	var groupA, groupB []float64
	for i := 0; i < 50; i++ {
		groupA = append(groupA, float64(i%10))
		groupB = append(groupB, float64((i+5)%10))
	}

	res, err := PermutationTest(groupA, groupB, 1000, 42)
	if err != nil {
		t.Fatalf("PermutationTest: %v", err)
	}
	if res.PValue < 0.01 {
		t.Fatalf("expected groups to not be significantly different, got p=%v", res.PValue)
	}
}

func TestPermutationTestRejectsEmptyGroups(t *testing.T) {
	if _, err := PermutationTest(nil, []float64{1, 2}, 100, 1); err == nil {
		t.Fatal("expected an error for an empty group")
	}
}
