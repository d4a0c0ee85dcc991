package formulation

import (
	"encoding/json"
	"fmt"
	"os"
)

type BandStatus string

const (
	StatusBelow   BandStatus = "below"
	StatusInRange BandStatus = "in_range"
	StatusAbove   BandStatus = "above"
)

// Band: Banda obiettivo per una metrica miscelata. Le bande sono dati di
// configurazione, non costanti: variano per categoria di prodotto.
type Band struct {
	Metric string  `json:"metric"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type BandVerdict struct {
	Metric string     `json:"metric"`
	Min    float64    `json:"min"`
	Max    float64    `json:"max"`
	Value  float64    `json:"value"`
	Status BandStatus `json:"status"`
}

// DefaultBands: Archetipo gelato a base latte.
func DefaultBands() []Band {
	return []Band{
		{Metric: "total_solids_pct", Min: 32, Max: 42},
		{Metric: "fat_pct", Min: 6, Max: 12},
		{Metric: "sugar_pct", Min: 16, Max: 22},
	}
}

// LoadBands: Legge la tabella delle bande da un file JSON. Path vuoto =
// bande di default.
func LoadBands(path string) ([]Band, error) {
	if path == "" {
		return DefaultBands(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lettura bande di bilanciamento: %w", err)
	}
	var bands []Band
	if err := json.Unmarshal(data, &bands); err != nil {
		return nil, fmt.Errorf("parsing bande di bilanciamento: %w", err)
	}
	if len(bands) == 0 {
		return DefaultBands(), nil
	}
	return bands, nil
}

// Classify: Verdetto per banda: below / in_range / above. Le metriche non
// coperte da una banda non compaiono nel verdetto.
func Classify(m *Metrics, bands []Band) []BandVerdict {
	verdicts := make([]BandVerdict, 0, len(bands))
	for _, b := range bands {
		value, ok := metricValue(m, b.Metric)
		if !ok {
			continue
		}
		v := BandVerdict{Metric: b.Metric, Min: b.Min, Max: b.Max, Value: value}
		switch {
		case value < b.Min:
			v.Status = StatusBelow
		case value > b.Max:
			v.Status = StatusAbove
		default:
			v.Status = StatusInRange
		}
		verdicts = append(verdicts, v)
	}
	return verdicts
}

func metricValue(m *Metrics, metric string) (float64, bool) {
	switch metric {
	case "total_solids_pct":
		return m.TotalSolidsPct, true
	case "fat_pct":
		return m.FatPct, true
	case "sugar_pct":
		return m.SugarPct, true
	case "lactose_pct":
		return m.LactosePct, true
	case "stabilizer_pct":
		return m.StabilizerPct, true
	case "sweetness_pct":
		return m.SweetnessPct, true
	case "cost_per_kg":
		return m.CostPerKg, true
	default:
		return 0, false
	}
}
