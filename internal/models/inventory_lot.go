package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LotStatus string

const (
	LotActive   LotStatus = "active"
	LotDepleted LotStatus = "depleted"
	LotExpired  LotStatus = "expired"
)

// InventoryLot: Giacenza corrente di un lotto fisico. Identità =
// (ingredient_id, lot_code). QtyKg è una proiezione derivata dal registro
// movimenti, sempre riconciliabile con un replay. Lo stato NON è salvato:
// si deriva a ogni lettura da quantità e scadenza per evitare flag stantii.
type InventoryLot struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	IngredientID uint       `gorm:"uniqueIndex:idx_lot_ingredient_code;not null" json:"ingredient_id"`
	Ingredient   Ingredient `json:"-"`
	LotCode      string     `gorm:"size:50;uniqueIndex:idx_lot_ingredient_code;not null" json:"lot_code"`

	QtyKg decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"qty_kg"`

	// Costo e scadenza del primo carico (first-write-wins, vedi ledger)
	UnitCost   *decimal.Decimal `gorm:"type:numeric(14,4)" json:"unit_cost,omitempty"`
	ExpiryDate *time.Time       `gorm:"index" json:"expiry_date,omitempty"`
	Supplier   string           `gorm:"size:100" json:"supplier,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status: Stato derivato al momento della lettura. La scadenza non azzera
// la giacenza: il lotto scaduto resta in magazzino finché un movimento
// "waste" non lo scarica fisicamente.
func (l *InventoryLot) Status(now time.Time) LotStatus {
	if l.QtyKg.LessThanOrEqual(decimal.Zero) {
		return LotDepleted
	}
	if l.ExpiryDate != nil && l.ExpiryDate.Before(now) {
		return LotExpired
	}
	return LotActive
}
