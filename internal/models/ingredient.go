package models

import (
	"time"

	"gorm.io/datatypes"
)

// Ingredient: Materia prima riutilizzabile del catalogo.
// Mai cancellata fisicamente: ricette e movimenti storici la referenziano.
type Ingredient struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Category  string `gorm:"size:50;index" json:"category"` // latte, zuccheri, frutta, stabilizzanti vs.
	CostPerKg float64 `gorm:"not null" json:"cost_per_kg"`

	// Composizione percentuale (0-100)
	TotalSolidsPct float64 `gorm:"not null" json:"total_solids_pct"`
	FatPct         float64 `gorm:"not null" json:"fat_pct"`
	SugarPct       float64 `gorm:"not null" json:"sugar_pct"`
	LactosePct     float64 `gorm:"not null" json:"lactose_pct"`
	StabilizerPct  float64 `gorm:"not null" json:"stabilizer_pct"`

	// Potere dolcificante relativo (saccarosio = 1)
	SweetnessEquiv float64 `gorm:"not null;default:1" json:"sweetness_equiv"`

	Allergens datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"allergens"`

	// Valori nutrizionali per 100g
	EnergyKcal float64 `gorm:"not null" json:"energy_kcal"`
	ProteinG   float64 `gorm:"not null" json:"protein_g"`
	CarbsG     float64 `gorm:"not null" json:"carbs_g"`
	SugarsG    float64 `gorm:"not null" json:"sugars_g"`
	FatG       float64 `gorm:"not null" json:"fat_g"`
	SatFatG    float64 `gorm:"not null" json:"sat_fat_g"`
	FiberG     float64 `gorm:"not null" json:"fiber_g"`
	SaltG      float64 `gorm:"not null" json:"salt_g"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
