package tutorials

import "github.com/gofiber/fiber/v2"

type Tutorial struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// Lista curata a mano, nessuna logica: il frontend la mostra così com'è.
var catalog = []Tutorial{
	{Title: "Bilanciare una base bianca", Category: "Formulazione", URL: "https://www.youtube.com/watch?v=gelato-base-bianca"},
	{Title: "Zuccheri e potere dolcificante", Category: "Formulazione", URL: "https://www.youtube.com/watch?v=gelato-zuccheri"},
	{Title: "Gestione lotti e scadenze", Category: "Magazzino", URL: "https://www.youtube.com/watch?v=gelato-lotti-fefo"},
	{Title: "Mantecazione: errori comuni", Category: "Produzione", URL: "https://www.youtube.com/watch?v=gelato-mantecazione"},
}

// GET /api/tutorials
func ListTutorialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(catalog)
	}
}
