package inventory

import (
	"errors"
	"testing"
	"time"

	"gelato-backend/internal/models"

	"github.com/shopspring/decimal"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func dayPtr(n int) *time.Time {
	d := day(n)
	return &d
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReplayBalances(t *testing.T) {
	movements := []models.Movement{
		{IngredientID: 1, LotCode: "L1", Type: models.MovementIn, QtyKg: dec("10")},
		{IngredientID: 1, LotCode: "L1", Type: models.MovementOut, QtyKg: dec("3.5")},
		{IngredientID: 1, LotCode: "L2", Type: models.MovementIn, QtyKg: dec("4")},
		{IngredientID: 2, LotCode: "L1", Type: models.MovementIn, QtyKg: dec("7")},
		{IngredientID: 1, LotCode: "L1", Type: models.MovementIn, QtyKg: dec("2")},
		{IngredientID: 1, LotCode: "L1", Type: models.MovementOut, QtyKg: dec("0.5")},
	}

	balances := ReplayBalances(movements)

	cases := []struct {
		key  LotKey
		want string
	}{
		{LotKey{1, "L1"}, "8"},
		{LotKey{1, "L2"}, "4"},
		{LotKey{2, "L1"}, "7"},
	}
	for _, tc := range cases {
		if got := balances[tc.key]; !got.Equal(dec(tc.want)) {
			t.Errorf("giacenza %v = %s, attesa %s", tc.key, got, tc.want)
		}
	}
	// Stesso codice lotto su ingredienti diversi: giacenze separate
	if len(balances) != 3 {
		t.Errorf("lotti ricostruiti = %d, attesi 3", len(balances))
	}
}

func TestAllocateFEFOExample(t *testing.T) {
	// L1 scade al giorno 5 con 3kg, L2 al giorno 20 con 10kg:
	// 5kg richiesti -> [(L1,3),(L2,2)]
	lots := []models.InventoryLot{
		{LotCode: "L2", QtyKg: dec("10"), ExpiryDate: dayPtr(20)},
		{LotCode: "L1", QtyKg: dec("3"), ExpiryDate: dayPtr(5)},
	}

	allocations, err := AllocateFEFO(lots, dec("5"), day(0))
	if err != nil {
		t.Fatalf("AllocateFEFO: %v", err)
	}
	if len(allocations) != 2 {
		t.Fatalf("allocazioni = %d, attese 2", len(allocations))
	}
	if allocations[0].LotCode != "L1" || !allocations[0].QtyKg.Equal(dec("3")) {
		t.Errorf("prima allocazione = %+v, attesa (L1, 3)", allocations[0])
	}
	if allocations[1].LotCode != "L2" || !allocations[1].QtyKg.Equal(dec("2")) {
		t.Errorf("seconda allocazione = %+v, attesa (L2, 2)", allocations[1])
	}
}

func TestAllocateFEFONeverSkipsEarlierLot(t *testing.T) {
	lots := []models.InventoryLot{
		{LotCode: "A", QtyKg: dec("2"), ExpiryDate: dayPtr(30)},
		{LotCode: "B", QtyKg: dec("2"), ExpiryDate: dayPtr(10)},
		{LotCode: "C", QtyKg: dec("2"), ExpiryDate: dayPtr(20)},
	}

	allocations, err := AllocateFEFO(lots, dec("6"), day(0))
	if err != nil {
		t.Fatalf("AllocateFEFO: %v", err)
	}

	order := []string{"B", "C", "A"}
	total := decimal.Zero
	for i, alloc := range allocations {
		if alloc.LotCode != order[i] {
			t.Errorf("posizione %d: lotto %s, atteso %s", i, alloc.LotCode, order[i])
		}
		total = total.Add(alloc.QtyKg)
	}
	// Il totale allocato deve coincidere esattamente con la richiesta
	if !total.Equal(dec("6")) {
		t.Errorf("totale allocato = %s, atteso 6", total)
	}
}

func TestAllocateFEFONoExpiryLast(t *testing.T) {
	lots := []models.InventoryLot{
		{LotCode: "SENZA", QtyKg: dec("10")},
		{LotCode: "CON", QtyKg: dec("1"), ExpiryDate: dayPtr(3)},
	}

	allocations, err := AllocateFEFO(lots, dec("2"), day(0))
	if err != nil {
		t.Fatalf("AllocateFEFO: %v", err)
	}
	if allocations[0].LotCode != "CON" {
		t.Errorf("il lotto con scadenza va consumato prima di quello senza")
	}
	if allocations[1].LotCode != "SENZA" || !allocations[1].QtyKg.Equal(dec("1")) {
		t.Errorf("seconda allocazione = %+v, attesa (SENZA, 1)", allocations[1])
	}
}

func TestAllocateFEFOSkipsExpiredAndDepleted(t *testing.T) {
	lots := []models.InventoryLot{
		{LotCode: "SCADUTO", QtyKg: dec("5"), ExpiryDate: dayPtr(-1)},
		{LotCode: "VUOTO", QtyKg: dec("0"), ExpiryDate: dayPtr(10)},
		{LotCode: "OK", QtyKg: dec("4"), ExpiryDate: dayPtr(10)},
	}

	allocations, err := AllocateFEFO(lots, dec("4"), day(0))
	if err != nil {
		t.Fatalf("AllocateFEFO: %v", err)
	}
	if len(allocations) != 1 || allocations[0].LotCode != "OK" {
		t.Fatalf("allocazioni = %+v, atteso solo il lotto OK", allocations)
	}
}

func TestAllocateFEFOInsufficientStock(t *testing.T) {
	lots := []models.InventoryLot{
		{LotCode: "SCADUTO", QtyKg: dec("100"), ExpiryDate: dayPtr(-1)}, // non conta
		{LotCode: "OK", QtyKg: dec("3"), ExpiryDate: dayPtr(10)},
	}

	_, err := AllocateFEFO(lots, dec("5"), day(0))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("atteso ErrInsufficientStock, ottenuto %v", err)
	}
}

func TestTopUpFirstWriteWins(t *testing.T) {
	cost1 := dec("2.50")
	cost2 := dec("3.00")

	lot := models.InventoryLot{QtyKg: dec("5"), UnitCost: &cost1, ExpiryDate: dayPtr(10)}
	TopUp(&lot, &models.Movement{
		Type:       models.MovementIn,
		QtyKg:      dec("3"),
		Reason:     models.ReasonPurchase,
		CostPerKg:  &cost2,
		ExpiryDate: dayPtr(20),
	})

	if !lot.QtyKg.Equal(dec("8")) {
		t.Errorf("giacenza dopo rabbocco = %s, attesa 8", lot.QtyKg)
	}
	if !lot.UnitCost.Equal(cost1) {
		t.Errorf("costo sovrascritto dal rabbocco: %s, atteso %s", lot.UnitCost, cost1)
	}
	if !lot.ExpiryDate.Equal(day(10)) {
		t.Errorf("scadenza sovrascritta dal rabbocco: %v, attesa giorno 10", lot.ExpiryDate)
	}
}

func TestTopUpFillsMissingCostAndExpiry(t *testing.T) {
	cost := dec("2.50")

	lot := models.InventoryLot{QtyKg: dec("5")}
	TopUp(&lot, &models.Movement{
		Type:       models.MovementIn,
		QtyKg:      dec("1"),
		Reason:     models.ReasonPurchase,
		CostPerKg:  &cost,
		ExpiryDate: dayPtr(15),
		Supplier:   "Caseificio Rossi",
	})

	if lot.UnitCost == nil || !lot.UnitCost.Equal(cost) {
		t.Errorf("costo mancante non valorizzato: %v", lot.UnitCost)
	}
	if lot.ExpiryDate == nil || !lot.ExpiryDate.Equal(day(15)) {
		t.Errorf("scadenza mancante non valorizzata: %v", lot.ExpiryDate)
	}
	if lot.Supplier != "Caseificio Rossi" {
		t.Errorf("fornitore mancante non valorizzato: %q", lot.Supplier)
	}
}

func TestTopUpCorrectionOverwrites(t *testing.T) {
	cost1 := dec("2.50")
	cost2 := dec("3.00")

	lot := models.InventoryLot{QtyKg: dec("5"), UnitCost: &cost1, ExpiryDate: dayPtr(10)}
	TopUp(&lot, &models.Movement{
		Type:       models.MovementIn,
		QtyKg:      dec("0.5"),
		Reason:     models.ReasonCorrection,
		CostPerKg:  &cost2,
		ExpiryDate: dayPtr(25),
	})

	if !lot.UnitCost.Equal(cost2) {
		t.Errorf("la correzione non ha sovrascritto il costo: %s", lot.UnitCost)
	}
	if !lot.ExpiryDate.Equal(day(25)) {
		t.Errorf("la correzione non ha sovrascritto la scadenza: %v", lot.ExpiryDate)
	}
}

func TestWithdraw(t *testing.T) {
	lot := models.InventoryLot{QtyKg: dec("5")}
	if err := Withdraw(&lot, dec("3")); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if !lot.QtyKg.Equal(dec("2")) {
		t.Errorf("giacenza dopo scarico = %s, attesa 2", lot.QtyKg)
	}
	// Scarico fino all'esaurimento esatto
	if err := Withdraw(&lot, dec("2")); err != nil {
		t.Fatalf("Withdraw a zero: %v", err)
	}
	if !lot.QtyKg.Equal(dec("0")) {
		t.Errorf("giacenza dopo esaurimento = %s, attesa 0", lot.QtyKg)
	}
}

func TestWithdrawInsufficientLeavesBalanceUnchanged(t *testing.T) {
	lot := models.InventoryLot{QtyKg: dec("2")}
	err := Withdraw(&lot, dec("2.5"))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("atteso ErrInsufficientStock, ottenuto %v", err)
	}
	// Il rifiuto non deve toccare la giacenza: niente scarichi parziali
	if !lot.QtyKg.Equal(dec("2")) {
		t.Errorf("giacenza dopo il rifiuto = %s, attesa 2 invariata", lot.QtyKg)
	}
}

func TestLotStatusDerivation(t *testing.T) {
	now := day(0)

	cases := []struct {
		name string
		lot  models.InventoryLot
		want models.LotStatus
	}{
		{"attivo", models.InventoryLot{QtyKg: dec("5"), ExpiryDate: dayPtr(10)}, models.LotActive},
		{"attivo senza scadenza", models.InventoryLot{QtyKg: dec("5")}, models.LotActive},
		{"esaurito", models.InventoryLot{QtyKg: dec("0"), ExpiryDate: dayPtr(10)}, models.LotDepleted},
		// Scaduto con giacenza: lo stato cambia ma la quantità resta,
		// lo smaltimento fisico passa da un movimento waste
		{"scaduto con giacenza", models.InventoryLot{QtyKg: dec("2"), ExpiryDate: dayPtr(-3)}, models.LotExpired},
		{"esaurito e scaduto", models.InventoryLot{QtyKg: dec("0"), ExpiryDate: dayPtr(-3)}, models.LotDepleted},
	}
	for _, tc := range cases {
		if got := tc.lot.Status(now); got != tc.want {
			t.Errorf("%s: stato %s, atteso %s", tc.name, got, tc.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	if got := DaysUntil(day(0), day(14)); got != 14 {
		t.Errorf("DaysUntil = %d, atteso 14", got)
	}
	if got := DaysUntil(day(0), day(0)); got != 0 {
		t.Errorf("DaysUntil stesso giorno = %d, atteso 0", got)
	}
	// Scaduto da poche ore: deve leggere -1, non 0 come chi scade oggi
	if got := DaysUntil(day(0).Add(6*time.Hour), day(0)); got != -1 {
		t.Errorf("DaysUntil scaduto da 6 ore = %d, atteso -1", got)
	}
	if got := DaysUntil(day(0), day(-2)); got != -2 {
		t.Errorf("DaysUntil scaduto da 2 giorni = %d, atteso -2", got)
	}
}
