package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// HistoryQuery filtros de consulta del historial. To incluye el día completo.
type HistoryQuery struct {
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// HistoryVerification resultado de reproducir el historial contra la cantidad actual del producto.
type HistoryVerification struct {
	ProductID       string
	CurrentQuantity int
	Replay          domaininv.ReplayResult
	Consistent      bool
}

// HistoryUseCase lecturas del historial de stock (solo lectura, con reintento ante fallos transitorios).
type HistoryUseCase struct {
	products    repository.ProductRepository
	history     repository.StockHistoryRepository
	reports     ports.HistoryReportGenerator
	readRetries int
}

// NewHistoryUseCase construye el caso de uso. reports puede ser nil si no se exponen reportes PDF.
func NewHistoryUseCase(repos ports.Repos, reports ports.HistoryReportGenerator, readRetries int) *HistoryUseCase {
	return &HistoryUseCase{
		products:    repos.Products,
		history:     repos.History,
		reports:     reports,
		readRetries: readRetries,
	}
}

// Query devuelve las entradas más recientes primero. From posterior a To es domain.ErrInvalidInput.
func (uc *HistoryUseCase) Query(ctx context.Context, q HistoryQuery) ([]*entity.StockHistoryEntry, error) {
	filter, err := toHistoryFilter(q)
	if err != nil {
		return nil, err
	}
	return ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) ([]*entity.StockHistoryEntry, error) {
		return uc.history.Query(ctx, filter)
	})
}

// Verify reproduce el historial completo de un producto y comprueba que la cadena de
// cantidades termina en la cantidad almacenada. Un producto sin historial es consistente.
func (uc *HistoryUseCase) Verify(ctx context.Context, productID string) (*HistoryVerification, error) {
	product, err := uc.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	entries, err := ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) ([]*entity.StockHistoryEntry, error) {
		return uc.history.Query(ctx, repository.HistoryFilter{ProductID: productID})
	})
	if err != nil {
		return nil, err
	}
	res := domaininv.Replay(entries)
	consistent := !res.Broken
	if res.Entries > 0 && res.Final != product.StockQuantity {
		consistent = false
	}
	return &HistoryVerification{
		ProductID:       productID,
		CurrentQuantity: product.StockQuantity,
		Replay:          res,
		Consistent:      consistent,
	}, nil
}

// Report genera el PDF del historial filtrado. Con ProductID vacío abarca todos los productos.
func (uc *HistoryUseCase) Report(ctx context.Context, q HistoryQuery) ([]byte, error) {
	if uc.reports == nil {
		return nil, fmt.Errorf("%w: reportes no configurados", domain.ErrInvalidInput)
	}
	var product *entity.Product
	if q.ProductID != "" {
		p, err := uc.getProduct(ctx, q.ProductID)
		if err != nil {
			return nil, err
		}
		product = p
	}
	entries, err := uc.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	title := "Historial de stock"
	if product != nil {
		title = fmt.Sprintf("Historial de stock - %s", product.Name)
	}
	return uc.reports.GenerateHistoryPDF(ctx, ports.HistoryReport{
		Title:   title,
		Product: product,
		Entries: entries,
	})
}

func (uc *HistoryUseCase) getProduct(ctx context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) (*entity.Product, error) {
		return uc.products.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func toHistoryFilter(q HistoryQuery) (repository.HistoryFilter, error) {
	if q.Limit < 0 || q.Offset < 0 {
		return repository.HistoryFilter{}, domain.ErrInvalidInput
	}
	f := repository.HistoryFilter{
		ProductID: q.ProductID,
		From:      q.From,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.To != nil {
		end := domaininv.EndOfDay(*q.To)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return repository.HistoryFilter{}, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	return f, nil
}
