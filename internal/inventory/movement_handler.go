package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gelato-backend/internal/database"
	"gelato-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var validate = validator.New()

// MovementRequest: Payload del form movimenti di magazzino.
type MovementRequest struct {
	Type         string   `json:"type" validate:"required,oneof=in out"`
	IngredientID uint     `json:"ingredient_id" validate:"required"`
	LotCode      string   `json:"lot_code" validate:"required"`
	QtyKg        float64  `json:"qty_kg" validate:"required,gt=0"`
	Reason       string   `json:"reason"`
	CostPerKg    *float64 `json:"cost_per_kg" validate:"omitempty,gte=0"`
	ExpiryDate   string   `json:"expiry_date"` // ISO 8601 o "2006-01-02"
	Supplier     string   `json:"supplier"`
	Note         string   `json:"note"`
}

func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Dati movimento non validi"
	}
	switch errs[0].StructField() {
	case "Type":
		return "Il tipo movimento deve essere 'in' (carico) o 'out' (scarico)"
	case "IngredientID":
		return "Indica l'ingrediente del movimento"
	case "LotCode":
		return "Il codice lotto è obbligatorio"
	case "QtyKg":
		return "La quantità deve essere maggiore di zero"
	case "CostPerKg":
		return "Il costo al kg non può essere negativo"
	default:
		return "Dati movimento non validi"
	}
}

func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("Formato scadenza non valido, usa ISO 8601 oppure 'YYYY-MM-DD'")
}

// POST /api/inventory/movements
func RecordMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo della richiesta non valido")
		}

		body.LotCode = strings.TrimSpace(body.LotCode)
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
		}

		expiry, err := parseExpiry(body.ExpiryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reason := strings.TrimSpace(body.Reason)
		if reason == "" {
			// Il form precompila "purchase": un carico senza motivo è un
			// acquisto, uno scarico è produzione
			if body.Type == string(models.MovementIn) {
				reason = models.ReasonPurchase
			} else {
				reason = models.ReasonProduction
			}
		}

		qty := decimal.NewFromFloat(body.QtyKg)
		var cost *decimal.Decimal
		if body.CostPerKg != nil {
			d := decimal.NewFromFloat(*body.CostPerKg)
			cost = &d
		}

		// Costo e scadenza riguardano solo i carichi
		if body.Type == string(models.MovementOut) {
			cost = nil
			expiry = nil
		}

		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", body.IngredientID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Ingrediente sconosciuto (ID: %d)", body.IngredientID))
		}

		movement := models.Movement{
			IngredientID: body.IngredientID,
			LotCode:      body.LotCode,
			Type:         models.MovementType(body.Type),
			QtyKg:        qty,
			Reason:       reason,
			CostPerKg:    cost,
			ExpiryDate:   expiry,
			Supplier:     strings.TrimSpace(body.Supplier),
			Note:         strings.TrimSpace(body.Note),
		}

		key := LotKey{IngredientID: body.IngredientID, LotCode: body.LotCode}
		unlock := lockLot(key)
		defer unlock()

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if movement.Type == models.MovementIn {
				return applyIn(tx, &movement)
			}
			return applyOut(tx, &movement)
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			logrus.WithError(err).Error("Registrazione movimento fallita")
			return fiber.NewError(fiber.StatusInternalServerError, "Movimento non registrato")
		}

		return c.Status(fiber.StatusCreated).JSON(movement)
	}
}

// applyIn: Carico. Un lotto già esistente viene rabboccato: la quantità si
// accumula, costo e scadenza restano quelli del primo carico
// (first-write-wins) salvo correzione esplicita.
func applyIn(tx *gorm.DB, mv *models.Movement) error {
	var lot models.InventoryLot
	err := tx.Where("ingredient_id = ? AND lot_code = ?", mv.IngredientID, mv.LotCode).First(&lot).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		lot = models.InventoryLot{
			IngredientID: mv.IngredientID,
			LotCode:      mv.LotCode,
			QtyKg:        mv.QtyKg,
			UnitCost:     mv.CostPerKg,
			ExpiryDate:   mv.ExpiryDate,
			Supplier:     mv.Supplier,
		}
		if err := tx.Create(&lot).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		TopUp(&lot, mv)
		if err := tx.Save(&lot).Error; err != nil {
			return err
		}
	}
	return tx.Create(mv).Error
}

// applyOut: Scarico. Il lotto va indicato esplicitamente: il registro non
// sceglie mai un lotto diverso al posto dell'operatore (per il
// suggerimento c'è l'endpoint FEFO).
func applyOut(tx *gorm.DB, mv *models.Movement) error {
	var lot models.InventoryLot
	err := tx.Where("ingredient_id = ? AND lot_code = ?", mv.IngredientID, mv.LotCode).First(&lot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Lotto %s inesistente per questo ingrediente", mv.LotCode))
	}
	if err != nil {
		return err
	}

	if err := Withdraw(&lot, mv.QtyKg); err != nil {
		return fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Giacenza insufficiente per il lotto %s: disponibili %s kg, richiesti %s kg",
				lot.LotCode, lot.QtyKg.String(), mv.QtyKg.String()))
	}

	if err := tx.Save(&lot).Error; err != nil {
		return err
	}
	return tx.Create(mv).Error
}

// GET /api/inventory/movements
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var movements []models.Movement
		if err := database.DB.Order("id ASC").Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Movimenti non caricati")
		}
		return c.JSON(movements)
	}
}
