package formulation

import (
	"errors"
	"math"
	"testing"

	"gelato-backend/internal/models"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestComputeBlendsByMassFraction(t *testing.T) {
	// A: 10% grassi, 2/kg — B: 0% grassi, 1/kg — 500g/500g
	a := models.Ingredient{ID: 1, Name: "A", FatPct: 10, CostPerKg: 2}
	b := models.Ingredient{ID: 2, Name: "B", FatPct: 0, CostPerKg: 1}

	m, err := Compute([]ResolvedComponent{
		{Ingredient: a, Grams: 500},
		{Ingredient: b, Grams: 500},
	}, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if !almostEqual(m.FatPct, 5.0, 1e-9) {
		t.Errorf("grassi miscelati = %v, atteso 5.0", m.FatPct)
	}
	if !almostEqual(m.CostPerKg, 1.5, 1e-9) {
		t.Errorf("costo miscelato = %v, atteso 1.5", m.CostPerKg)
	}
	if m.TotalGrams != 1000 {
		t.Errorf("peso totale = %v, atteso 1000", m.TotalGrams)
	}

	sum := 0.0
	for _, s := range m.Shares {
		sum += s.Fraction
	}
	if !almostEqual(sum, 1.0, 1e-9) {
		t.Errorf("somma frazioni = %v, attesa 1", sum)
	}
}

func TestComputeFractionSumIsOne(t *testing.T) {
	components := []ResolvedComponent{
		{Ingredient: models.Ingredient{ID: 1}, Grams: 123.4},
		{Ingredient: models.Ingredient{ID: 2}, Grams: 0.07},
		{Ingredient: models.Ingredient{ID: 3}, Grams: 876.53},
		{Ingredient: models.Ingredient{ID: 4}, Grams: 335.11},
	}
	m, err := Compute(components, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	sum := 0.0
	for _, s := range m.Shares {
		sum += s.Fraction
	}
	if !almostEqual(sum, 1.0, 1e-9) {
		t.Errorf("somma frazioni = %v, attesa 1 ± 1e-9", sum)
	}
}

func TestComputeSweetnessUsesRelativeFactor(t *testing.T) {
	// Fruttosio: stessa percentuale di zuccheri del saccarosio ma potere
	// dolcificante 1.7 — la dolcezza percepita deve pesare il fattore,
	// non la sola percentuale di zuccheri
	saccarosio := models.Ingredient{ID: 1, SugarPct: 100, SweetnessEquiv: 1}
	fruttosio := models.Ingredient{ID: 2, SugarPct: 100, SweetnessEquiv: 1.7}

	m, err := Compute([]ResolvedComponent{
		{Ingredient: saccarosio, Grams: 100},
		{Ingredient: fruttosio, Grams: 100},
	}, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if !almostEqual(m.SugarPct, 100, 1e-9) {
		t.Errorf("zuccheri miscelati = %v, attesi 100", m.SugarPct)
	}
	want := 0.5*100*1 + 0.5*100*1.7
	if !almostEqual(m.SweetnessPct, want, 1e-9) {
		t.Errorf("dolcezza = %v, attesa %v", m.SweetnessPct, want)
	}
}

func TestComputeEmptyRecipe(t *testing.T) {
	if _, err := Compute(nil, nil); !errors.Is(err, ErrEmptyRecipe) {
		t.Fatalf("atteso ErrEmptyRecipe, ottenuto %v", err)
	}
}

func TestComputeDegenerateRecipe(t *testing.T) {
	_, err := Compute([]ResolvedComponent{
		{Ingredient: models.Ingredient{ID: 1}, Grams: 0},
		{Ingredient: models.Ingredient{ID: 2}, Grams: 0},
	}, nil)
	if !errors.Is(err, ErrDegenerateRecipe) {
		t.Fatalf("atteso ErrDegenerateRecipe, ottenuto %v", err)
	}
}

func TestResolveUnknownIngredient(t *testing.T) {
	byID := map[uint]models.Ingredient{1: {ID: 1}}
	_, err := Resolve([]models.RecipeComponent{
		{IngredientID: 1, Grams: 100},
		{IngredientID: 99, Grams: 50},
	}, byID)

	var unknown *UnknownIngredientError
	if !errors.As(err, &unknown) {
		t.Fatalf("atteso UnknownIngredientError, ottenuto %v", err)
	}
	if unknown.IngredientID != 99 {
		t.Errorf("ID incriminato = %d, atteso 99", unknown.IngredientID)
	}
}

func TestComputeMergesAllergens(t *testing.T) {
	latte := models.Ingredient{ID: 1, Allergens: []string{"latte"}}
	nocciola := models.Ingredient{ID: 2, Allergens: []string{"frutta a guscio", "latte"}}

	m, err := Compute([]ResolvedComponent{
		{Ingredient: latte, Grams: 700},
		{Ingredient: nocciola, Grams: 300},
	}, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(m.Allergens) != 2 {
		t.Fatalf("allergeni = %v, attesi 2 senza duplicati", m.Allergens)
	}
}

func TestClassifyVerdicts(t *testing.T) {
	m := &Metrics{TotalSolidsPct: 36, FatPct: 4, SugarPct: 25}
	verdicts := Classify(m, DefaultBands())
	if len(verdicts) != 3 {
		t.Fatalf("verdetti = %d, attesi 3", len(verdicts))
	}

	byMetric := make(map[string]BandStatus)
	for _, v := range verdicts {
		byMetric[v.Metric] = v.Status
	}
	if byMetric["total_solids_pct"] != StatusInRange {
		t.Errorf("solidi totali: %s, atteso in_range", byMetric["total_solids_pct"])
	}
	if byMetric["fat_pct"] != StatusBelow {
		t.Errorf("grassi: %s, atteso below", byMetric["fat_pct"])
	}
	if byMetric["sugar_pct"] != StatusAbove {
		t.Errorf("zuccheri: %s, atteso above", byMetric["sugar_pct"])
	}
}

func TestClassifySkipsUnknownMetrics(t *testing.T) {
	m := &Metrics{FatPct: 8}
	verdicts := Classify(m, []Band{
		{Metric: "fat_pct", Min: 6, Max: 12},
		{Metric: "overrun_pct", Min: 20, Max: 40}, // metrica non calcolata
	})
	if len(verdicts) != 1 {
		t.Fatalf("verdetti = %d, atteso 1 (la metrica ignota va saltata)", len(verdicts))
	}
}

func TestLoadBandsEmptyPathUsesDefaults(t *testing.T) {
	bands, err := LoadBands("")
	if err != nil {
		t.Fatalf("LoadBands: %v", err)
	}
	if len(bands) != 3 {
		t.Fatalf("bande di default = %d, attese 3", len(bands))
	}
}
