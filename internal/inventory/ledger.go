package inventory

import (
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"gelato-backend/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInsufficientStock = errors.New("Giacenza insufficiente")

// LotKey: Identità di un lotto: il codice lotto è unico per ingrediente,
// non globalmente.
type LotKey struct {
	IngredientID uint
	LotCode      string
}

// Serializzazione per lotto: due scarichi concorrenti sullo stesso lotto
// non devono mai perdere aggiornamenti. Lotti diversi procedono in
// parallelo, non serve alcun ordine globale.
// La mappa cresce di una voce per ogni (ingrediente, lotto) mai toccato e
// non viene mai svuotata: con poche migliaia di lotti l'occupazione è
// trascurabile, un'eviction qui non vale la complessità.
var lotLocks sync.Map // LotKey -> *sync.Mutex

func lockLot(key LotKey) func() {
	v, _ := lotLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ReplayBalances: Giacenze per lotto ricostruite dal solo registro
// movimenti. La proiezione InventoryLot deve sempre coincidere con questo
// replay.
func ReplayBalances(movements []models.Movement) map[LotKey]decimal.Decimal {
	balances := make(map[LotKey]decimal.Decimal)
	for _, mv := range movements {
		key := LotKey{IngredientID: mv.IngredientID, LotCode: mv.LotCode}
		switch mv.Type {
		case models.MovementIn:
			balances[key] = balances[key].Add(mv.QtyKg)
		case models.MovementOut:
			balances[key] = balances[key].Sub(mv.QtyKg)
		}
	}
	return balances
}

// TopUp: Rabbocco di un lotto esistente con un nuovo carico. La quantità si
// accumula; costo e scadenza restano quelli del primo carico che li ha
// registrati (first-write-wins), una scelta deliberata: il primo documento
// di acquisto fa fede. Solo un movimento reason="correction" li sovrascrive.
func TopUp(lot *models.InventoryLot, mv *models.Movement) {
	lot.QtyKg = lot.QtyKg.Add(mv.QtyKg)

	correction := mv.Reason == models.ReasonCorrection
	if mv.CostPerKg != nil && (lot.UnitCost == nil || correction) {
		lot.UnitCost = mv.CostPerKg
	}
	if mv.ExpiryDate != nil && (lot.ExpiryDate == nil || correction) {
		lot.ExpiryDate = mv.ExpiryDate
	}
	if lot.Supplier == "" && mv.Supplier != "" {
		lot.Supplier = mv.Supplier
	}
}

// Withdraw: Scarico da un lotto esistente. Se la giacenza non copre la
// quantità richiesta il movimento viene rifiutato e il lotto resta
// intatto: mai scaricare parzialmente, mai andare in negativo.
func Withdraw(lot *models.InventoryLot, qty decimal.Decimal) error {
	if qty.GreaterThan(lot.QtyKg) {
		return ErrInsufficientStock
	}
	lot.QtyKg = lot.QtyKg.Sub(qty)
	return nil
}

// Allocation: Prelievo suggerito da un singolo lotto.
type Allocation struct {
	LotCode string          `json:"lot_code"`
	QtyKg   decimal.Decimal `json:"qty_kg"`
}

// AllocateFEFO: Allocazione greedy first-expiry-first-out sui soli lotti
// attivi: prima il lotto che scade prima, i lotti senza scadenza per
// ultimi, a parità di scadenza vince il codice lotto minore. La scelta del
// lotto da scaricare resta comunque dell'operatore: questo è solo un
// suggerimento.
func AllocateFEFO(lots []models.InventoryLot, qty decimal.Decimal, now time.Time) ([]Allocation, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("La quantità richiesta deve essere maggiore di zero")
	}

	active := make([]models.InventoryLot, 0, len(lots))
	for _, lot := range lots {
		if lot.Status(now) == models.LotActive {
			active = append(active, lot)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		ei, ej := active[i].ExpiryDate, active[j].ExpiryDate
		switch {
		case ei == nil && ej == nil:
			return active[i].LotCode < active[j].LotCode
		case ei == nil:
			return false
		case ej == nil:
			return true
		case ei.Equal(*ej):
			return active[i].LotCode < active[j].LotCode
		default:
			return ei.Before(*ej)
		}
	})

	remaining := qty
	var allocations []Allocation
	for _, lot := range active {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(lot.QtyKg, remaining)
		allocations = append(allocations, Allocation{LotCode: lot.LotCode, QtyKg: take})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, ErrInsufficientStock
	}
	return allocations, nil
}

// DaysUntil: Giorni interi alla scadenza, arrotondati verso il basso
// anche per i negativi: un lotto scaduto da poche ore deve leggere -1,
// non 0 come uno che scade oggi.
func DaysUntil(now time.Time, expiry time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}
