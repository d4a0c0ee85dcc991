package catalog

import (
	"gelato-backend/internal/database"
	"gelato-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CreateIngredientResponse struct {
	Ingredient models.Ingredient `json:"ingredient"`
	Warnings   []string          `json:"warnings"`
}

// POST /api/ingredients
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var draft IngredientDraft
		if err := c.BodyParser(&draft); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo della richiesta non valido")
		}

		if err := ValidateDraft(&draft); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Dolcezza relativa: default saccarosio se non indicata
		if draft.SweetnessEquiv == 0 {
			draft.SweetnessEquiv = 1
		}

		warnings := SoftWarnings(&draft)

		ing := models.Ingredient{
			Name:           draft.Name,
			Category:       draft.Category,
			CostPerKg:      draft.CostPerKg,
			TotalSolidsPct: draft.TotalSolidsPct,
			FatPct:         draft.FatPct,
			SugarPct:       draft.SugarPct,
			LactosePct:     draft.LactosePct,
			StabilizerPct:  draft.StabilizerPct,
			SweetnessEquiv: draft.SweetnessEquiv,
			Allergens:      NormalizeAllergens(draft.Allergens),
			EnergyKcal:     draft.EnergyKcal,
			ProteinG:       draft.ProteinG,
			CarbsG:         draft.CarbsG,
			SugarsG:        draft.SugarsG,
			FatG:           draft.FatG,
			SatFatG:        draft.SatFatG,
			FiberG:         draft.FiberG,
			SaltG:          draft.SaltG,
		}

		if err := database.DB.Create(&ing).Error; err != nil {
			logrus.WithError(err).Error("Creazione ingrediente fallita")
			return fiber.NewError(fiber.StatusInternalServerError, "Ingrediente non salvato")
		}

		if len(warnings) > 0 {
			logrus.WithField("ingredient_id", ing.ID).Warnf("Ingrediente registrato con %d avvisi", len(warnings))
		}

		return c.Status(fiber.StatusCreated).JSON(CreateIngredientResponse{
			Ingredient: ing,
			Warnings:   warnings,
		})
	}
}

// GET /api/ingredients
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ingredients []models.Ingredient
		// Ordine di inserimento = id crescente
		if err := database.DB.Order("id ASC").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ingredienti non caricati")
		}
		return c.JSON(ingredients)
	}
}

// GET /api/ingredients/:id
func GetIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID ingrediente non valido")
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingrediente non trovato")
		}
		return c.JSON(ing)
	}
}
