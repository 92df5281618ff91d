package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
)

func TestDeriveChangeType(t *testing.T) {
	assert.Equal(t, entity.ChangeTypeIncrease, inventory.DeriveChangeType(10, 15))
	assert.Equal(t, entity.ChangeTypeDecrease, inventory.DeriveChangeType(4, 3))
	// Sin variación no hay aumento.
	assert.Equal(t, entity.ChangeTypeDecrease, inventory.DeriveChangeType(7, 7))
}

func TestNewHistoryEntry_DefaultsDeNotaYAutor(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := inventory.NewHistoryEntry("h1", "P1", 10, 15, "", "", at)

	assert.Equal(t, "Stock changed from 10 to 15", e.Notes)
	assert.Equal(t, entity.SystemActor, e.CreatedBy)
	assert.Equal(t, entity.ChangeTypeIncrease, e.ChangeType)
	assert.Equal(t, at, e.CreatedAt)
}

func TestNewHistoryEntry_RespetaNotaDelOperador(t *testing.T) {
	e := inventory.NewHistoryEntry("h1", "P1", 10, 15, "restock", "u-1", time.Now())
	assert.Equal(t, "restock", e.Notes)
	assert.Equal(t, "u-1", e.CreatedBy)
}

func TestReplay_ReproduceCantidadFinal(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// Orden "más reciente primero", como lo devuelven las consultas.
	entries := []*entity.StockHistoryEntry{
		{Seq: 3, PreviousQuantity: 15, NewQuantity: 14, CreatedAt: base.Add(2 * time.Minute)},
		{Seq: 2, PreviousQuantity: 10, NewQuantity: 15, CreatedAt: base.Add(time.Minute)},
		{Seq: 1, PreviousQuantity: 0, NewQuantity: 10, CreatedAt: base},
	}

	res := inventory.Replay(entries)

	assert.Equal(t, 3, res.Entries)
	assert.Equal(t, 0, res.Start)
	assert.Equal(t, 14, res.Final)
	assert.False(t, res.Broken)
}

func TestReplay_DesempataPorSeq(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []*entity.StockHistoryEntry{
		{Seq: 2, PreviousQuantity: 5, NewQuantity: 4, CreatedAt: at},
		{Seq: 1, PreviousQuantity: 3, NewQuantity: 5, CreatedAt: at},
	}
	res := inventory.Replay(entries)
	assert.Equal(t, 3, res.Start)
	assert.Equal(t, 4, res.Final)
	assert.False(t, res.Broken)
}

func TestReplay_IgnoraRelojAtrasadoDeOtraInstancia(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// La segunda escritura vino de una instancia con el reloj 3 s atrasado.
	entries := []*entity.StockHistoryEntry{
		{Seq: 7, PreviousQuantity: 10, NewQuantity: 9, CreatedAt: at.Add(-3 * time.Second)},
		{Seq: 6, PreviousQuantity: 12, NewQuantity: 10, CreatedAt: at},
	}
	res := inventory.Replay(entries)
	assert.Equal(t, 12, res.Start)
	assert.Equal(t, 9, res.Final)
	assert.False(t, res.Broken)
}

func TestReplay_DetectaCadenaRota(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []*entity.StockHistoryEntry{
		{Seq: 1, PreviousQuantity: 0, NewQuantity: 10, CreatedAt: base},
		{Seq: 2, PreviousQuantity: 12, NewQuantity: 11, CreatedAt: base.Add(time.Minute)},
	}
	res := inventory.Replay(entries)
	assert.True(t, res.Broken)
	assert.Equal(t, int64(2), res.BrokenAt)
}

func TestReplay_SinEntradas(t *testing.T) {
	assert.Equal(t, inventory.ReplayResult{}, inventory.Replay(nil))
}

func TestEndOfDay_Inclusivo(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	d := time.Date(2026, 3, 1, 9, 30, 0, 0, loc)
	end := inventory.EndOfDay(d)

	assert.Equal(t, 2026, end.Year())
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 1, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.True(t, end.Before(time.Date(2026, 3, 2, 0, 0, 0, 0, loc)))
	assert.Equal(t, loc, end.Location())
}
