package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tolleranza sulla somma di composizione: i dati di produzione sono
// approssimati, mezzo punto percentuale non è un errore.
const compositionEpsilon = 0.01

var validate = validator.New()

// IngredientDraft: Payload del form "nuovo ingrediente".
type IngredientDraft struct {
	Name           string   `json:"name" validate:"required"`
	Category       string   `json:"category"`
	CostPerKg      float64  `json:"cost_per_kg" validate:"gte=0"`
	TotalSolidsPct float64  `json:"total_solids_pct" validate:"gte=0,lte=100"`
	FatPct         float64  `json:"fat_pct" validate:"gte=0,lte=100"`
	SugarPct       float64  `json:"sugar_pct" validate:"gte=0,lte=100"`
	LactosePct     float64  `json:"lactose_pct" validate:"gte=0,lte=100"`
	StabilizerPct  float64  `json:"stabilizer_pct" validate:"gte=0,lte=100"`
	SweetnessEquiv float64  `json:"sweetness_equiv" validate:"gte=0"`
	Allergens      []string `json:"allergens"`
	EnergyKcal     float64  `json:"energy_kcal" validate:"gte=0"`
	ProteinG       float64  `json:"protein_g" validate:"gte=0"`
	CarbsG         float64  `json:"carbs_g" validate:"gte=0"`
	SugarsG        float64  `json:"sugars_g" validate:"gte=0"`
	FatG           float64  `json:"fat_g" validate:"gte=0"`
	SatFatG        float64  `json:"sat_fat_g" validate:"gte=0"`
	FiberG         float64  `json:"fiber_g" validate:"gte=0"`
	SaltG          float64  `json:"salt_g" validate:"gte=0"`
}

// ValidateDraft: Controlli bloccanti. Ritorna un messaggio leggibile per
// l'operatore, mostrato così com'è nel form.
func ValidateDraft(d *IngredientDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("Il nome dell'ingrediente è obbligatorio")
	}
	if err := validate.Struct(d); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			switch fe.Tag() {
			case "lte":
				return fmt.Errorf("Il campo %s non può superare 100", jsonFieldName(fe.StructField()))
			default:
				return fmt.Errorf("Il campo %s non può essere negativo", jsonFieldName(fe.StructField()))
			}
		}
		return fmt.Errorf("Dati ingrediente non validi")
	}
	return nil
}

// NormalizeAllergens: trim, filtro vuoti, dedup mantenendo l'ordine e il
// maiuscolo/minuscolo originale.
func NormalizeAllergens(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, a := range raw {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// SoftWarnings: Invarianti morbide. Non bloccano la registrazione (il
// catalogo preferisce la disponibilità al rigore), ma non vengono mai
// scartate in silenzio.
func SoftWarnings(d *IngredientDraft) []string {
	var warnings []string

	compSum := d.FatPct + d.SugarPct + d.LactosePct + d.StabilizerPct
	if compSum > d.TotalSolidsPct+compositionEpsilon {
		warnings = append(warnings, fmt.Sprintf(
			"La somma di grassi+zuccheri+lattosio+stabilizzanti (%.2f%%) supera i solidi totali dichiarati (%.2f%%)",
			compSum, d.TotalSolidsPct))
	}
	if d.SugarsG > d.CarbsG {
		warnings = append(warnings, fmt.Sprintf(
			"Zuccheri per 100g (%.2fg) superiori ai carboidrati totali (%.2fg)", d.SugarsG, d.CarbsG))
	}
	if d.SatFatG > d.FatG {
		warnings = append(warnings, fmt.Sprintf(
			"Grassi saturi per 100g (%.2fg) superiori ai grassi totali (%.2fg)", d.SatFatG, d.FatG))
	}
	return warnings
}

func jsonFieldName(structField string) string {
	switch structField {
	case "CostPerKg":
		return "cost_per_kg"
	case "TotalSolidsPct":
		return "total_solids_pct"
	case "FatPct":
		return "fat_pct"
	case "SugarPct":
		return "sugar_pct"
	case "LactosePct":
		return "lactose_pct"
	case "StabilizerPct":
		return "stabilizer_pct"
	case "SweetnessEquiv":
		return "sweetness_equiv"
	case "EnergyKcal":
		return "energy_kcal"
	case "ProteinG":
		return "protein_g"
	case "CarbsG":
		return "carbs_g"
	case "SugarsG":
		return "sugars_g"
	case "FatG":
		return "fat_g"
	case "SatFatG":
		return "sat_fat_g"
	case "FiberG":
		return "fiber_g"
	case "SaltG":
		return "salt_g"
	default:
		return structField
	}
}
