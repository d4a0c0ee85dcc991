package main

import (
	"strings"

	"gelato-backend/internal/catalog"
	"gelato-backend/internal/config"
	"gelato-backend/internal/dashboard"
	"gelato-backend/internal/database"
	"gelato-backend/internal/export"
	"gelato-backend/internal/formulation"
	"gelato-backend/internal/inventory"
	"gelato-backend/internal/tutorials"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	bands, err := formulation.LoadBands(cfg.BalanceBandsPath)
	if err != nil {
		logrus.Fatalf("Bande di bilanciamento non caricate: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error":  e.Message,
					"detail": e.Message,
				})
			}
			logrus.WithError(err).Error("Errore inatteso")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  "Errore imprevisto del server",
				"detail": "Errore imprevisto del server",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	api := app.Group("/api")

	// Catalogo ingredienti
	api.Post("/ingredients", catalog.CreateIngredientHandler())
	api.Get("/ingredients", catalog.ListIngredientsHandler())
	api.Get("/ingredients/:id", catalog.GetIngredientHandler())

	// Ricette e bilanciamento
	api.Post("/recipes", formulation.CreateRecipeHandler())
	api.Get("/recipes", formulation.ListRecipesHandler())
	api.Post("/recipes/compute", formulation.ComputeRecipeHandler(bands))

	// Magazzino a lotti
	api.Post("/inventory/movements", inventory.RecordMovementHandler())
	api.Get("/inventory/movements", inventory.ListMovementsHandler())
	api.Get("/inventory/items", inventory.ListStockHandler())
	api.Get("/inventory/expiring", inventory.ListExpiringHandler(cfg))
	api.Get("/inventory/fefo", inventory.SuggestFEFOHandler())

	// Dashboard avvisi
	api.Get("/dashboard/inventory-summary", dashboard.InventorySummaryHandler(cfg))

	// Export (formattatori puri sopra le letture del core)
	api.Get("/export/ingredients.csv", export.IngredientsCSVHandler())
	api.Get("/export/recipes.csv", export.RecipesCSVHandler(bands))
	api.Get("/export/labels.csv", export.LabelsCSVHandler(bands))
	api.Get("/export/inventory.csv", export.InventoryCSVHandler())
	api.Get("/export/movements.csv", export.MovementsCSVHandler())
	api.Get("/export/inventory.xlsx", export.InventoryXLSXHandler())

	// Tutorial video
	api.Get("/tutorials", tutorials.ListTutorialsHandler())

	logrus.Infof("Server in ascolto sulla porta %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
