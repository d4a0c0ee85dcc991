package models

import (
	"time"

	"gorm.io/datatypes"
)

// Recipe: Formulazione con nome. I componenti sono ordinati (Position).
type Recipe struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Name       string            `gorm:"size:100;not null" json:"name"`
	Components []RecipeComponent `gorm:"foreignKey:RecipeID" json:"components"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type RecipeComponent struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"index;not null" json:"recipe_id"`
	IngredientID uint `gorm:"index;not null" json:"ingredient_id"`
	Ingredient   Ingredient `json:"-"`
	Grams        float64 `gorm:"not null" json:"grams"`
	Position     int     `gorm:"not null" json:"position"`
}

// RecipeComputation: Snapshot versionato di un calcolo di bilanciamento.
// Le metriche non sono mai autoritative: si ricalcolano sempre dal catalogo
// corrente, lo snapshot serve solo come storico.
type RecipeComputation struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RecipeID   uint           `gorm:"index;not null" json:"recipe_id"`
	Token      string         `gorm:"size:36;uniqueIndex;not null" json:"token"`
	Metrics    datatypes.JSON `gorm:"type:jsonb" json:"metrics"`
	ComputedAt time.Time      `gorm:"index;not null" json:"computed_at"`
}
