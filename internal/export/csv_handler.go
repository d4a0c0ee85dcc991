package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"gelato-backend/internal/database"
	"gelato-backend/internal/formulation"
	"gelato-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Gli export sono formattatori puri sopra le letture del core: nessuna
// regola di dominio vive qui, i calcoli passano sempre dal motore di
// formulazione o dalle proiezioni del registro.

func sendCSV(c *fiber.Ctx, filename string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Generazione CSV fallita")
	}
	if err := w.WriteAll(rows); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Generazione CSV fallita")
	}
	w.Flush()

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

// GET /api/export/ingredients.csv
func IngredientsCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ingredients []models.Ingredient
		if err := database.DB.Order("id ASC").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ingredienti non caricati")
		}

		header := []string{"id", "nome", "categoria", "costo_kg", "solidi_pct", "grassi_pct",
			"zuccheri_pct", "lattosio_pct", "stabilizzanti_pct", "dolcezza_rel", "allergeni"}
		rows := make([][]string, 0, len(ingredients))
		for _, ing := range ingredients {
			rows = append(rows, []string{
				fmt.Sprint(ing.ID), ing.Name, ing.Category, f2(ing.CostPerKg),
				f2(ing.TotalSolidsPct), f2(ing.FatPct), f2(ing.SugarPct),
				f2(ing.LactosePct), f2(ing.StabilizerPct), f2(ing.SweetnessEquiv),
				strings.Join(ing.Allergens, "; "),
			})
		}
		return sendCSV(c, "ingredients.csv", header, rows)
	}
}

// GET /api/export/recipes.csv
func RecipesCSVHandler(bands []formulation.Band) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var recipes []models.Recipe
		err := database.DB.
			Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			Order("id ASC").
			Find(&recipes).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ricette non caricate")
		}

		header := []string{"id", "nome", "peso_totale_g", "grassi_pct", "solidi_pct",
			"zuccheri_pct", "dolcezza_pct", "costo_kg", "bilanciamento"}
		rows := make([][]string, 0, len(recipes))
		for _, recipe := range recipes {
			metrics, err := formulation.ComputeForRecipe(recipe.ID, bands)
			if err != nil {
				// Ricetta non calcolabile (es. ingrediente rimosso dal
				// catalogo): la riga lo segnala senza bloccare l'export
				rows = append(rows, []string{fmt.Sprint(recipe.ID), recipe.Name,
					"", "", "", "", "", "", "non calcolabile"})
				continue
			}
			verdict := "in_range"
			for _, v := range metrics.Verdicts {
				if v.Status != formulation.StatusInRange {
					verdict = string(v.Status) + ":" + v.Metric
					break
				}
			}
			rows = append(rows, []string{
				fmt.Sprint(recipe.ID), recipe.Name, f2(metrics.TotalGrams),
				f2(metrics.FatPct), f2(metrics.TotalSolidsPct), f2(metrics.SugarPct),
				f2(metrics.SweetnessPct), f2(metrics.CostPerKg), verdict,
			})
		}
		return sendCSV(c, "recipes.csv", header, rows)
	}
}

// GET /api/export/labels.csv
// Etichetta prodotto: ingredienti in ordine di peso decrescente, dichiarazione
// allergeni, valori nutrizionali per 100g.
func LabelsCSVHandler(bands []formulation.Band) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var recipes []models.Recipe
		if err := database.DB.Order("id ASC").Find(&recipes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ricette non caricate")
		}

		header := []string{"ricetta", "ingredienti", "allergeni", "kcal_100g", "proteine_g",
			"carboidrati_g", "zuccheri_g", "grassi_g", "saturi_g", "fibre_g", "sale_g"}
		rows := make([][]string, 0, len(recipes))
		for _, recipe := range recipes {
			metrics, err := formulation.ComputeForRecipe(recipe.ID, bands)
			if err != nil {
				continue
			}

			shares := append([]formulation.ComponentShare(nil), metrics.Shares...)
			sort.SliceStable(shares, func(i, j int) bool { return shares[i].Grams > shares[j].Grams })
			names := make([]string, 0, len(shares))
			for _, s := range shares {
				names = append(names, s.Name)
			}

			n := metrics.Nutrition
			rows = append(rows, []string{
				recipe.Name,
				strings.Join(names, ", "),
				strings.Join(metrics.Allergens, "; "),
				f2(n.EnergyKcal), f2(n.ProteinG), f2(n.CarbsG), f2(n.SugarsG),
				f2(n.FatG), f2(n.SatFatG), f2(n.FiberG), f2(n.SaltG),
			})
		}
		return sendCSV(c, "labels.csv", header, rows)
	}
}

// GET /api/export/inventory.csv
func InventoryCSVHandler() fiber.Handler {
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
		header := []string{"ingrediente", "lotto", "qta_kg", "costo_kg", "scadenza", "fornitore", "stato"}
		rows := make([][]string, 0, len(lots))
		for _, lot := range lots {
			cost := ""
			if lot.UnitCost != nil {
				cost = lot.UnitCost.StringFixed(2)
			}
			expiry := ""
			if lot.ExpiryDate != nil {
				expiry = lot.ExpiryDate.Format("2006-01-02")
			}
			rows = append(rows, []string{
				lot.Ingredient.Name, lot.LotCode, lot.QtyKg.StringFixed(3),
				cost, expiry, lot.Supplier, string(lot.Status(now)),
			})
		}
		return sendCSV(c, "inventory.csv", header, rows)
	}
}

// GET /api/export/movements.csv
func MovementsCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var movements []models.Movement
		err := database.DB.Preload("Ingredient").Order("id ASC").Find(&movements).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Movimenti non caricati")
		}

		header := []string{"id", "data", "ingrediente", "lotto", "tipo", "qta_kg",
			"motivo", "costo_kg", "scadenza", "fornitore", "nota"}
		rows := make([][]string, 0, len(movements))
		for _, mv := range movements {
			cost := ""
			if mv.CostPerKg != nil {
				cost = mv.CostPerKg.StringFixed(2)
			}
			expiry := ""
			if mv.ExpiryDate != nil {
				expiry = mv.ExpiryDate.Format("2006-01-02")
			}
			rows = append(rows, []string{
				fmt.Sprint(mv.ID), mv.CreatedAt.Format(time.RFC3339),
				mv.Ingredient.Name, mv.LotCode, string(mv.Type),
				mv.QtyKg.StringFixed(3), mv.Reason, cost, expiry, mv.Supplier, mv.Note,
			})
		}
		return sendCSV(c, "movements.csv", header, rows)
	}
}
