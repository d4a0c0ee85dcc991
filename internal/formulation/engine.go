package formulation

import (
	"errors"
	"fmt"

	"gelato-backend/internal/models"
)

var (
	ErrEmptyRecipe      = errors.New("La ricetta non ha componenti")
	ErrDegenerateRecipe = errors.New("Il peso totale della ricetta è zero")
)

// UnknownIngredientError: Componente che referenzia un ingrediente assente
// dal catalogo.
type UnknownIngredientError struct {
	IngredientID uint
}

func (e *UnknownIngredientError) Error() string {
	return fmt.Sprintf("Ingrediente sconosciuto (ID: %d)", e.IngredientID)
}

// ResolvedComponent: Componente di ricetta già risolto contro il catalogo.
type ResolvedComponent struct {
	Ingredient models.Ingredient
	Grams      float64
}

type ComponentShare struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Grams        float64 `json:"grams"`
	Fraction     float64 `json:"fraction"`
}

type NutritionPer100g struct {
	EnergyKcal float64 `json:"energy_kcal"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	SugarsG    float64 `json:"sugars_g"`
	FatG       float64 `json:"fat_g"`
	SatFatG    float64 `json:"sat_fat_g"`
	FiberG     float64 `json:"fiber_g"`
	SaltG      float64 `json:"salt_g"`
}

// Metrics: Risultato del bilanciamento. Derivato, mai autoritativo: si
// ricalcola sempre dal catalogo corrente.
type Metrics struct {
	TotalGrams     float64          `json:"total_grams"`
	Shares         []ComponentShare `json:"shares"`
	FatPct         float64          `json:"fat_pct"`
	TotalSolidsPct float64          `json:"total_solids_pct"`
	SugarPct       float64          `json:"sugar_pct"`
	LactosePct     float64          `json:"lactose_pct"`
	StabilizerPct  float64          `json:"stabilizer_pct"`
	// Dolcezza percepita: somma pesata di zuccheri per potere dolcificante
	// relativo. Resta lineare nella frazione di massa, NON va riderivata
	// dalla semplice percentuale di zuccheri.
	SweetnessPct float64          `json:"sweetness_pct"`
	CostPerKg    float64          `json:"cost_per_kg"`
	Nutrition    NutritionPer100g `json:"nutrition_per_100g"`
	Verdicts     []BandVerdict    `json:"verdicts"`
	Allergens    []string         `json:"allergens"`
}

// Resolve: Risolve i componenti contro una mappa id -> ingrediente.
// Fallisce al primo ingrediente assente nominando l'ID incriminato.
func Resolve(components []models.RecipeComponent, byID map[uint]models.Ingredient) ([]ResolvedComponent, error) {
	resolved := make([]ResolvedComponent, 0, len(components))
	for _, comp := range components {
		ing, ok := byID[comp.IngredientID]
		if !ok {
			return nil, &UnknownIngredientError{IngredientID: comp.IngredientID}
		}
		resolved = append(resolved, ResolvedComponent{Ingredient: ing, Grams: comp.Grams})
	}
	return resolved, nil
}

// Compute: Metriche aggregate di una ricetta. Tutti i campi miscelati sono
// combinazioni lineari pesate per frazione di massa.
func Compute(components []ResolvedComponent, bands []Band) (*Metrics, error) {
	if len(components) == 0 {
		return nil, ErrEmptyRecipe
	}

	total := 0.0
	for _, comp := range components {
		total += comp.Grams
	}
	if total <= 0 {
		return nil, ErrDegenerateRecipe
	}

	m := &Metrics{TotalGrams: total}
	allergenSeen := make(map[string]bool)

	for _, comp := range components {
		frac := comp.Grams / total
		ing := comp.Ingredient

		m.Shares = append(m.Shares, ComponentShare{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Grams:        comp.Grams,
			Fraction:     frac,
		})

		m.FatPct += frac * ing.FatPct
		m.TotalSolidsPct += frac * ing.TotalSolidsPct
		m.SugarPct += frac * ing.SugarPct
		m.LactosePct += frac * ing.LactosePct
		m.StabilizerPct += frac * ing.StabilizerPct
		m.SweetnessPct += frac * ing.SugarPct * ing.SweetnessEquiv
		m.CostPerKg += frac * ing.CostPerKg

		m.Nutrition.EnergyKcal += frac * ing.EnergyKcal
		m.Nutrition.ProteinG += frac * ing.ProteinG
		m.Nutrition.CarbsG += frac * ing.CarbsG
		m.Nutrition.SugarsG += frac * ing.SugarsG
		m.Nutrition.FatG += frac * ing.FatG
		m.Nutrition.SatFatG += frac * ing.SatFatG
		m.Nutrition.FiberG += frac * ing.FiberG
		m.Nutrition.SaltG += frac * ing.SaltG

		for _, a := range ing.Allergens {
			if !allergenSeen[a] {
				allergenSeen[a] = true
				m.Allergens = append(m.Allergens, a)
			}
		}
	}

	m.Verdicts = Classify(m, bands)
	return m, nil
}
