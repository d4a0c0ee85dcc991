package dashboard

import (
	"time"

	"gelato-backend/internal/config"
	"gelato-backend/internal/database"
	"gelato-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IngredientStockSummary struct {
	IngredientID   uint            `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	TotalKg        decimal.Decimal `json:"total_kg"`
	ActiveLots     int             `json:"active_lots"`
	ExpiredLots    int             `json:"expired_lots"`
	ExpiringLots   int             `json:"expiring_lots"` // entro l'orizzonte
}

type InventorySummaryResponse struct {
	HorizonDays  int                      `json:"horizon_days"`
	TotalKg      decimal.Decimal          `json:"total_kg"`
	ExpiredLots  int                      `json:"expired_lots"`
	ExpiringLots int                      `json:"expiring_lots"`
	Ingredients  []IngredientStockSummary `json:"ingredients"`
}

// GET /api/dashboard/inventory-summary
// Proiezione di sola lettura sul registro: totali per ingrediente e
// contatori degli avvisi di scadenza.
func InventorySummaryHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", cfg.ExpiryHorizonDays)
		if days < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Il parametro days non può essere negativo")
		}

		var lots []models.InventoryLot
		err := database.DB.
			Preload("Ingredient").
			Order("ingredient_id ASC, lot_code ASC").
			Find(&lots).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giacenze non caricate")
		}

		now := time.Now()
		horizon := now.Add(time.Duration(days) * 24 * time.Hour)

		resp := InventorySummaryResponse{HorizonDays: days}
		index := make(map[uint]int)

		for _, lot := range lots {
			status := lot.Status(now)
			if status == models.LotDepleted {
				continue
			}

			i, ok := index[lot.IngredientID]
			if !ok {
				resp.Ingredients = append(resp.Ingredients, IngredientStockSummary{
					IngredientID:   lot.IngredientID,
					IngredientName: lot.Ingredient.Name,
				})
				i = len(resp.Ingredients) - 1
				index[lot.IngredientID] = i
			}
			entry := &resp.Ingredients[i]

			entry.TotalKg = entry.TotalKg.Add(lot.QtyKg)
			resp.TotalKg = resp.TotalKg.Add(lot.QtyKg)

			switch status {
			case models.LotExpired:
				entry.ExpiredLots++
				resp.ExpiredLots++
			case models.LotActive:
				entry.ActiveLots++
				if lot.ExpiryDate != nil && !lot.ExpiryDate.After(horizon) {
					entry.ExpiringLots++
					resp.ExpiringLots++
				}
			}
		}

		return c.JSON(resp)
	}
}
