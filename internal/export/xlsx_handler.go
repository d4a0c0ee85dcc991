package export

import (
	"bytes"
	"fmt"
	"time"

	"gelato-backend/internal/database"
	"gelato-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// GET /api/export/inventory.xlsx
func InventoryXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lots []models.InventoryLot
		err := database.DB.
			Preload("Ingredient").
			Order("ingredient_id ASC, lot_code ASC").
			Find(&lots).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giacenze non caricate")
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Giacenze"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Ingrediente", "Lotto", "Quantità (kg)", "Costo/kg", "Scadenza", "Fornitore", "Stato"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		now := time.Now()
		row := 2
		for _, lot := range lots {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), lot.Ingredient.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), lot.LotCode)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), lot.QtyKg.InexactFloat64())
			if lot.UnitCost != nil {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), lot.UnitCost.InexactFloat64())
			}
			if lot.ExpiryDate != nil {
				f.SetCellValue(sheet, fmt.Sprintf("E%d", row), lot.ExpiryDate.Format("2006-01-02"))
			}
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), lot.Supplier)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), string(lot.Status(now)))
			row++
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			logrus.WithError(err).Error("Generazione XLSX fallita")
			return fiber.NewError(fiber.StatusInternalServerError, "Generazione XLSX fallita")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventory.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
