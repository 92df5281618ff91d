package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// DeriveChangeType increase si la cantidad sube; cualquier otro caso es decrease.
func DeriveChangeType(previous, next int) string {
	if next > previous {
		return entity.ChangeTypeIncrease
	}
	return entity.ChangeTypeDecrease
}

// DefaultNotes nota sintetizada cuando el operador no escribe una.
func DefaultNotes(previous, next int) string {
	return fmt.Sprintf("Stock changed from %d to %d", previous, next)
}

// NewHistoryEntry arma la entrada de auditoría de un cambio de stock.
func NewHistoryEntry(id, productID string, previous, next int, notes, actor string, at time.Time) *entity.StockHistoryEntry {
	if notes == "" {
		notes = DefaultNotes(previous, next)
	}
	if actor == "" {
		actor = entity.SystemActor
	}
	return &entity.StockHistoryEntry{
		ID:               id,
		ProductID:        productID,
		PreviousQuantity: previous,
		NewQuantity:      next,
		ChangeType:       DeriveChangeType(previous, next),
		Notes:            notes,
		CreatedBy:        actor,
		CreatedAt:        at,
	}
}

// ReplayResult resultado de reproducir el historial de un producto.
type ReplayResult struct {
	Entries  int
	Start    int
	Final    int
	Broken   bool  // una entrada no encadena con la anterior
	BrokenAt int64 // Seq de la primera entrada que rompe la cadena
}

// Replay reproduce las entradas en orden de Seq partiendo del PreviousQuantity de la primera.
// Seq lo asigna el almacén al confirmar el cambio; CreatedAt viene del reloj de cada instancia y no ordena.
// Acepta las entradas en cualquier orden (las consultas devuelven más reciente primero).
func Replay(entries []*entity.StockHistoryEntry) ReplayResult {
	if len(entries) == 0 {
		return ReplayResult{}
	}
	sorted := make([]*entity.StockHistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	res := ReplayResult{Entries: len(sorted), Start: sorted[0].PreviousQuantity}
	qty := res.Start
	for _, e := range sorted {
		if e.PreviousQuantity != qty && !res.Broken {
			res.Broken = true
			res.BrokenAt = e.Seq
		}
		qty = e.NewQuantity
	}
	res.Final = qty
	return res
}

// EndOfDay último instante del día de t (en su zona horaria); el fin de un rango de fechas es inclusivo.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
