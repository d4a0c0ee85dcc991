package inventory

import (
	"errors"
	"time"

	"gelato-backend/internal/config"
	"gelato-backend/internal/database"
	"gelato-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LotResponse: Vista di un lotto per il client, con stato derivato al
// momento della lettura.
type LotResponse struct {
	ID             uint             `json:"id"`
	IngredientID   uint             `json:"ingredient_id"`
	IngredientName string           `json:"ingredient_name"`
	LotCode        string           `json:"lot_code"`
	QtyKg          decimal.Decimal  `json:"qty_kg"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpiryDate     *time.Time       `json:"expiry_date,omitempty"`
	Supplier       string           `json:"supplier,omitempty"`
	Status         models.LotStatus `json:"status"`
	DaysUntil      *int             `json:"days_until_expiry,omitempty"`
}

func toLotResponse(lot models.InventoryLot, now time.Time) LotResponse {
	resp := LotResponse{
		ID:             lot.ID,
		IngredientID:   lot.IngredientID,
		IngredientName: lot.Ingredient.Name,
		LotCode:        lot.LotCode,
		QtyKg:          lot.QtyKg,
		UnitCost:       lot.UnitCost,
		ExpiryDate:     lot.ExpiryDate,
		Supplier:       lot.Supplier,
		Status:         lot.Status(now),
	}
	if lot.ExpiryDate != nil {
		d := DaysUntil(now, *lot.ExpiryDate)
		resp.DaysUntil = &d
	}
	return resp
}

// GET /api/inventory/items
func ListStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lots []models.InventoryLot
		err := database.DB.
			Preload("Ingredient").
			Order("ingredient_id ASC, lot_code ASC").
			Find(&lots).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giacenze non caricate")
		}

		now := time.Now()
		out := make([]LotResponse, 0, len(lots))
		for _, lot := range lots {
			// I lotti esauriti escono dalla vista, quelli scaduti restano:
			// lo stock fisico esiste ancora e va smaltito con uno scarico
			// "waste"
			if lot.Status(now) == models.LotDepleted {
				continue
			}
			out = append(out, toLotResponse(lot, now))
		}
		return c.JSON(out)
	}
}

// GET /api/inventory/expiring?days=N
func ListExpiringHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", cfg.ExpiryHorizonDays)
		if days < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Il parametro days non può essere negativo")
		}

		now := time.Now()
		horizon := now.Add(time.Duration(days) * 24 * time.Hour)

		var lots []models.InventoryLot
		err := database.DB.
			Preload("Ingredient").
			Where("expiry_date IS NOT NULL AND qty_kg > 0").
			Where("expiry_date >= ? AND expiry_date <= ?", now, horizon).
			Order("expiry_date ASC").
			Find(&lots).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lotti in scadenza non caricati")
		}

		out := make([]LotResponse, 0, len(lots))
		for _, lot := range lots {
			out = append(out, toLotResponse(lot, now))
		}
		return c.JSON(out)
	}
}

type FEFOResponse struct {
	IngredientID uint            `json:"ingredient_id"`
	QtyKg        decimal.Decimal `json:"qty_kg"`
	Allocations  []Allocation    `json:"allocations"`
}

// GET /api/inventory/fefo?ingredient_id=&qty_kg=
func SuggestFEFOHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ingredientID := c.QueryInt("ingredient_id")
		if ingredientID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Parametro ingredient_id obbligatorio")
		}
		qty, err := decimal.NewFromString(c.Query("qty_kg"))
		if err != nil || qty.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "Parametro qty_kg obbligatorio e maggiore di zero")
		}

		var lots []models.InventoryLot
		if err := database.DB.Where("ingredient_id = ?", ingredientID).Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giacenze non caricate")
		}

		allocations, err := AllocateFEFO(lots, qty, time.Now())
		if err != nil {
			if errors.Is(err, ErrInsufficientStock) {
				return fiber.NewError(fiber.StatusConflict,
					"Giacenza attiva insufficiente per la quantità richiesta")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(FEFOResponse{
			IngredientID: uint(ingredientID),
			QtyKg:        qty,
			Allocations:  allocations,
		})
	}
}
