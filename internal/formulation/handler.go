package formulation

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gelato-backend/internal/database"
	"gelato-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ComponentRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	Grams        float64 `json:"grams"`
}

type CreateRecipeRequest struct {
	Name       string             `json:"name"`
	Components []ComponentRequest `json:"components"`
}

type ComputeRecipeRequest struct {
	RecipeID uint `json:"recipe_id"`
}

type ComputeRecipeResponse struct {
	RecipeID   uint      `json:"recipe_id"`
	Token      string    `json:"token"`
	ComputedAt time.Time `json:"computed_at"`
	Metrics    *Metrics  `json:"metrics"`
}

// POST /api/recipes
func CreateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo della richiesta non valido")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Il nome della ricetta è obbligatorio")
		}
		if len(body.Components) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Aggiungi almeno un componente alla ricetta")
		}
		for _, comp := range body.Components {
			if comp.IngredientID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Ogni componente deve indicare un ingrediente")
			}
			if comp.Grams <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "I grammi di ogni componente devono essere maggiori di zero")
			}
		}

		recipe := models.Recipe{Name: strings.TrimSpace(body.Name)}
		for i, comp := range body.Components {
			recipe.Components = append(recipe.Components, models.RecipeComponent{
				IngredientID: comp.IngredientID,
				Grams:        comp.Grams,
				Position:     i,
			})
		}

		if err := database.DB.Create(&recipe).Error; err != nil {
			logrus.WithError(err).Error("Creazione ricetta fallita")
			return fiber.NewError(fiber.StatusInternalServerError, "Ricetta non salvata")
		}

		return c.Status(fiber.StatusCreated).JSON(recipe)
	}
}

// GET /api/recipes
func ListRecipesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var recipes []models.Recipe
		err := database.DB.
			Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			Order("id ASC").
			Find(&recipes).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ricette non caricate")
		}
		return c.JSON(recipes)
	}
}

// POST /api/recipes/compute
func ComputeRecipeHandler(bands []Band) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ComputeRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo della richiesta non valido")
		}
		if body.RecipeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "recipe_id obbligatorio")
		}

		metrics, err := ComputeForRecipe(body.RecipeID, bands)
		if err != nil {
			return err
		}

		// Snapshot versionato: ogni calcolo produce un nuovo token, la
		// storia non viene mai mutata.
		raw, err := json.Marshal(metrics)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Serializzazione metriche fallita")
		}
		snapshot := models.RecipeComputation{
			RecipeID:   body.RecipeID,
			Token:      uuid.NewString(),
			Metrics:    raw,
			ComputedAt: time.Now(),
		}
		if err := database.DB.Create(&snapshot).Error; err != nil {
			logrus.WithError(err).Error("Salvataggio snapshot di calcolo fallito")
			return fiber.NewError(fiber.StatusInternalServerError, "Snapshot di calcolo non salvato")
		}

		return c.JSON(ComputeRecipeResponse{
			RecipeID:   body.RecipeID,
			Token:      snapshot.Token,
			ComputedAt: snapshot.ComputedAt,
			Metrics:    metrics,
		})
	}
}

// ComputeForRecipe: Carica ricetta e ingredienti e calcola le metriche.
// Usato anche dagli export, che non devono reimplementare alcuna regola.
func ComputeForRecipe(recipeID uint, bands []Band) (*Metrics, error) {
	var recipe models.Recipe
	err := database.DB.
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Ricetta non trovata")
	}

	ids := make([]uint, 0, len(recipe.Components))
	for _, comp := range recipe.Components {
		ids = append(ids, comp.IngredientID)
	}

	var ingredients []models.Ingredient
	if len(ids) > 0 {
		if err := database.DB.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Ingredienti non caricati")
		}
	}
	byID := make(map[uint]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	resolved, err := Resolve(recipe.Components, byID)
	if err != nil {
		var unknown *UnknownIngredientError
		if errors.As(err, &unknown) {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, unknown.Error())
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Risoluzione componenti fallita")
	}

	metrics, err := Compute(resolved, bands)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyRecipe), errors.Is(err, ErrDegenerateRecipe):
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		default:
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Calcolo metriche fallito")
		}
	}
	return metrics, nil
}
