// Package analytics contiene los agregados de ganancia que alimentan el tablero de administración.
// Todo se calcula al leer sobre los ProfitRecord; no hay totales persistidos que reiniciar.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// ProfitUseCase agrega ganancias por rango de fechas.
type ProfitUseCase struct {
	profits     repository.ProfitRecordRepository
	products    repository.ProductRepository
	readRetries int
	now         func() time.Time
}

// NewProfitUseCase construye el caso de uso.
func NewProfitUseCase(repos ports.Repos, readRetries int) *ProfitUseCase {
	return &ProfitUseCase{
		profits:     repos.Profits,
		products:    repos.Products,
		readRetries: readRetries,
		now:         time.Now,
	}
}

// Summary suma los registros de [from, to]. to incluye el día completo; ambos son opcionales.
func (uc *ProfitUseCase) Summary(ctx context.Context, from, to *time.Time) (*dto.ProfitSummaryDTO, error) {
	if to != nil {
		end := domaininv.EndOfDay(*to)
		to = &end
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	records, err := uc.list(ctx, from, to)
	if err != nil {
		return nil, err
	}

	sum := aggregate(records)
	out := &dto.ProfitSummaryDTO{
		From:         from,
		To:           to,
		Count:        len(records),
		TotalRevenue: sum.revenue,
		TotalCost:    sum.cost,
		TotalProfit:  sum.profit,
		Records:      make([]dto.ProfitRecordDTO, 0, len(records)),
	}
	for _, r := range records {
		out.Records = append(out.Records, dto.ToProfitRecordDTO(r))
	}
	return out, nil
}

// Dashboard KPIs del día y del mes en curso más el número de productos por reponer.
// Las tres lecturas corren en paralelo.
func (uc *ProfitUseCase) Dashboard(ctx context.Context) (*dto.ProfitDashboardDTO, error) {
	now := uc.now()

	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := domaininv.EndOfDay(now)
	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type recordsResult struct {
		records []*entity.ProfitRecord
		err     error
	}
	type lowResult struct {
		count int
		err   error
	}

	todayCh := make(chan recordsResult, 1)
	monthCh := make(chan recordsResult, 1)
	lowCh := make(chan lowResult, 1)

	go func() {
		r, err := uc.list(ctx, &todayStart, &todayEnd)
		todayCh <- recordsResult{r, err}
	}()
	go func() {
		r, err := uc.list(ctx, &monthStart, &todayEnd)
		monthCh <- recordsResult{r, err}
	}()
	go func() {
		products, err := ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) ([]*entity.Product, error) {
			return uc.products.List(ctx, repository.ProductFilter{PhysicalOnly: true})
		})
		lowCh <- lowResult{len(domaininv.ListLowStock(products)), err}
	}()

	today := <-todayCh
	month := <-monthCh
	low := <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ganancias de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ganancias del mes: %w", month.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	return &dto.ProfitDashboardDTO{
		TodayProfit:   aggregate(today.records).profit,
		TodayOrders:   len(today.records),
		MonthlyProfit: aggregate(month.records).profit,
		MonthlyOrders: len(month.records),
		LowStockCount: low.count,
		DateLabel:     monthLabel(now),
	}, nil
}

func (uc *ProfitUseCase) list(ctx context.Context, from, to *time.Time) ([]*entity.ProfitRecord, error) {
	return ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) ([]*entity.ProfitRecord, error) {
		return uc.profits.List(ctx, repository.ProfitFilter{From: from, To: to})
	})
}

type totals struct {
	revenue decimal.Decimal
	cost    decimal.Decimal
	profit  decimal.Decimal
}

func aggregate(records []*entity.ProfitRecord) totals {
	var t totals
	for _, r := range records {
		t.revenue = t.revenue.Add(r.SellingPrice)
		t.cost = t.cost.Add(r.PurchasePrice)
		t.profit = t.profit.Add(r.Profit)
	}
	return t
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
