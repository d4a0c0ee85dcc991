package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn  MovementType = "in"  // carico
	MovementOut MovementType = "out" // scarico
)

const (
	ReasonPurchase   = "purchase"
	ReasonProduction = "production"
	ReasonWaste      = "waste"
	ReasonCorrection = "correction"
)

// Movement: Riga immutabile del registro movimenti. Mai modificata o
// cancellata: gli errori si correggono con un nuovo movimento
// reason="correction". La somma dei movimenti firmati per lotto definisce
// la giacenza, le righe InventoryLot sono solo una proiezione.
type Movement struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	IngredientID uint         `gorm:"index;not null" json:"ingredient_id"`
	Ingredient   Ingredient   `json:"-"`
	LotCode      string       `gorm:"size:50;index;not null" json:"lot_code"`
	Type         MovementType `gorm:"size:3;not null" json:"type"`
	QtyKg        decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"qty_kg"`
	Reason       string       `gorm:"size:50;not null" json:"reason"`

	// Solo per i carichi
	CostPerKg  *decimal.Decimal `gorm:"type:numeric(14,4)" json:"cost_per_kg,omitempty"`
	ExpiryDate *time.Time       `json:"expiry_date,omitempty"`
	Supplier   string           `gorm:"size:100" json:"supplier,omitempty"`

	Note      string    `gorm:"size:500" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
