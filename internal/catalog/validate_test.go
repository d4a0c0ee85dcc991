package catalog

import (
	"reflect"
	"testing"
)

func validDraft() IngredientDraft {
	return IngredientDraft{
		Name:           "Latte intero",
		Category:       "latte",
		CostPerKg:      1.2,
		TotalSolidsPct: 12.5,
		FatPct:         3.6,
		SugarPct:       0,
		LactosePct:     4.8,
		StabilizerPct:  0,
		SweetnessEquiv: 1,
		EnergyKcal:     64,
		ProteinG:       3.3,
		CarbsG:         4.9,
		SugarsG:        4.9,
		FatG:           3.6,
		SatFatG:        2.3,
	}
}

func TestValidateDraftAccepts(t *testing.T) {
	d := validDraft()
	if err := ValidateDraft(&d); err != nil {
		t.Fatalf("bozza valida rifiutata: %v", err)
	}
}

func TestValidateDraftRejectsEmptyName(t *testing.T) {
	d := validDraft()
	d.Name = "   "
	if err := ValidateDraft(&d); err == nil {
		t.Fatal("nome vuoto accettato")
	}
}

func TestValidateDraftRejectsNegativeCost(t *testing.T) {
	d := validDraft()
	d.CostPerKg = -1
	if err := ValidateDraft(&d); err == nil {
		t.Fatal("costo negativo accettato")
	}
}

func TestValidateDraftRejectsPercentageOver100(t *testing.T) {
	d := validDraft()
	d.FatPct = 101
	if err := ValidateDraft(&d); err == nil {
		t.Fatal("percentuale oltre 100 accettata")
	}
}

func TestNormalizeAllergens(t *testing.T) {
	got := NormalizeAllergens([]string{" latte ", "", "Latte", "uova", "  ", "uova"})
	want := []string{"latte", "uova"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeAllergens = %v, atteso %v", got, want)
	}
}

func TestSoftWarningsCompositionExceedsSolids(t *testing.T) {
	d := validDraft()
	d.TotalSolidsPct = 10
	d.FatPct = 5
	d.SugarPct = 4
	d.LactosePct = 3
	d.StabilizerPct = 0

	warnings := SoftWarnings(&d)
	if len(warnings) != 1 {
		t.Fatalf("avvisi = %v, atteso 1 (composizione oltre i solidi)", warnings)
	}
	// Invariante morbido: deve restare un avviso, mai un rifiuto
	if err := ValidateDraft(&d); err != nil {
		t.Fatalf("invariante morbido diventato bloccante: %v", err)
	}
}

func TestSoftWarningsToleratesEpsilon(t *testing.T) {
	d := validDraft()
	d.TotalSolidsPct = 12
	d.FatPct = 6
	d.SugarPct = 6.005 // dentro la tolleranza numerica
	d.LactosePct = 0
	d.StabilizerPct = 0

	if warnings := SoftWarnings(&d); len(warnings) != 0 {
		t.Errorf("avvisi inattesi dentro la tolleranza: %v", warnings)
	}
}

func TestSoftWarningsNutritionBounds(t *testing.T) {
	d := validDraft()
	d.SugarsG = d.CarbsG + 1
	d.SatFatG = d.FatG + 1

	warnings := SoftWarnings(&d)
	if len(warnings) != 2 {
		t.Fatalf("avvisi = %v, attesi 2 (zuccheri>carbo e saturi>grassi)", warnings)
	}
}

func TestSoftWarningsCleanDraft(t *testing.T) {
	d := validDraft()
	if warnings := SoftWarnings(&d); len(warnings) != 0 {
		t.Errorf("avvisi inattesi su bozza pulita: %v", warnings)
	}
}
