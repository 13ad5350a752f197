package repository

import (
	"context"
	"testing"

	"rbf-calc/domain"
)

func resultWithFactor(f float64) domain.CalculationResult {
	return domain.CalculationResult{Values: domain.VariableSet{FactorRate: f}}
}

func TestCalculationRepositoryMemory_EvictsOldest(t *testing.T) {

	repo := NewCalculationRepositoryMemory(2)

	for _, f := range []float64{1.1, 1.2, 1.3} {
		if err := repo.Save(domain.CalculationInput{}, resultWithFactor(f)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	recent := repo.Recent(0)
	if len(recent) != 2 {
		t.Fatalf("expected 2 results, got %d", len(recent))
	}
	if recent[0].Values.FactorRate != 1.3 || recent[1].Values.FactorRate != 1.2 {
		t.Errorf("expected newest first without the evicted entry, got %v, %v",
			recent[0].Values.FactorRate, recent[1].Values.FactorRate)
	}

	if got := repo.Recent(1); len(got) != 1 || got[0].Values.FactorRate != 1.3 {
		t.Errorf("expected only the newest result, got %+v", got)
	}
}

func TestMockCache(t *testing.T) {

	cache := NewMockCache()
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "k"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
	if err := cache.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := cache.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("expected v, got %q (%v)", v, ok)
	}
}

func TestAddressBar(t *testing.T) {

	bar := NewAddressBar("http://localhost/")

	if err := bar.ReplaceState("http://localhost/?factorRate=2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bar.Current() != "http://localhost/?factorRate=2" {
		t.Errorf("unexpected current url %s", bar.Current())
	}
	if bar.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", bar.Writes())
	}
}
