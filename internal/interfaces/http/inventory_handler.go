package http

import (
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain"
)

// InventoryHandler maneja el libro de stock: productos con alerta, ajustes e historial (protegido).
type InventoryHandler struct {
	ledger  *inventory.LedgerUseCase
	history *inventory.HistoryUseCase
	alerts  *inventory.AlertUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, history *inventory.HistoryUseCase, alerts *inventory.AlertUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, history: history, alerts: alerts}
}

// ListProducts godoc
// @Summary      Productos físicos con su estado de alerta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductStockDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/products [get]
func (h *InventoryHandler) ListProducts(c *fiber.Ctx) error {
	list, err := h.alerts.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toProductStockDTOs(list))
}

// GetProduct GET /api/inventory/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	pa, err := h.alerts.Product(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductStockDTO(pa.Product, string(pa.Status)))
}

// ListAlerts GET /api/inventory/alerts: productos en LOW u OUT, en orden de catálogo.
func (h *InventoryHandler) ListAlerts(c *fiber.Ctx) error {
	list, err := h.alerts.LowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":    len(list),
		"products": toProductStockDTOs(list),
	})
}

// AdjustStock godoc
// @Summary      Fijar la cantidad en stock de un producto
// @Description  Registra exactamente una entrada de historial. Cantidades negativas se rechazan.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Product ID"
// @Param        body  body  dto.AdjustStockRequest  true  "quantity, notes"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/stock [put]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil || in.Quantity == nil {
		return badBody(c)
	}
	qty, err := wholeQuantity(*in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.Adjust(c.Context(), inventory.AdjustInput{
		ProductID:   c.Params("id"),
		NewQuantity: qty,
		Notes:       in.Notes,
		Actor:       actor(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AdjustStockResponse{
		Product:        dto.ToProductStockDTO(out.Product, string(out.Status)),
		Entry:          dto.ToHistoryEntryDTO(out.Entry),
		PreviousStatus: string(out.PreviousStatus),
	})
}

// wholeQuantity acepta solo enteros representables; 2.5 o 1e20 son domain.ErrInvalidQuantity.
func wholeQuantity(d decimal.Decimal) (int, error) {
	if !d.IsInteger() || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) || d.LessThan(decimal.NewFromInt(math.MinInt32)) {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, d.String())
	}
	return int(d.IntPart()), nil
}

// AdjustThreshold PUT /api/inventory/products/:id/threshold
func (h *InventoryHandler) AdjustThreshold(c *fiber.Ctx) error {
	var in dto.AdjustThresholdRequest
	if err := c.BodyParser(&in); err != nil || in.Threshold == nil {
		return badBody(c)
	}
	p, err := h.ledger.AdjustThreshold(c.Context(), c.Params("id"), *in.Threshold)
	if err != nil {
		return writeError(c, err)
	}
	pa, err := h.alerts.Product(c.Context(), p.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductStockDTO(pa.Product, string(pa.Status)))
}

// SetPurchasePrice PUT /api/inventory/products/:id/purchase-price
func (h *InventoryHandler) SetPurchasePrice(c *fiber.Ctx) error {
	var in dto.PurchasePriceRequest
	if err := c.BodyParser(&in); err != nil || in.PurchasePrice == nil {
		return badBody(c)
	}
	p, err := h.ledger.SetPurchasePrice(c.Context(), c.Params("id"), *in.PurchasePrice)
	if err != nil {
		return writeError(c, err)
	}
	pa, err := h.alerts.Product(c.Context(), p.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductStockDTO(pa.Product, string(pa.Status)))
}

// History godoc
// @Summary      Historial de stock, más reciente primero
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD, día completo)"
// @Param        limit       query  int     false  "Máx. entradas (default 20, max 100)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.HistoryPageDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	q, err := historyQuery(c)
	if err != nil {
		return badParams(c, err.Error())
	}
	entries, err := h.history.Query(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.StockHistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToHistoryEntryDTO(e))
	}
	return c.JSON(dto.HistoryPageDTO{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(items)},
	})
}

// HistoryReport GET /api/inventory/history/report: misma consulta que History, en PDF.
func (h *InventoryHandler) HistoryReport(c *fiber.Ctx) error {
	q, err := historyQuery(c)
	if err != nil {
		return badParams(c, err.Error())
	}
	pdf, err := h.history.Report(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	name := "historial-stock.pdf"
	if q.ProductID != "" {
		name = fmt.Sprintf("historial-stock-%s.pdf", q.ProductID)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	return c.Send(pdf)
}

// VerifyHistory GET /api/inventory/products/:id/history/verify
func (h *InventoryHandler) VerifyHistory(c *fiber.Ctx) error {
	v, err := h.history.Verify(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.HistoryVerificationDTO{
		ProductID:       v.ProductID,
		CurrentQuantity: v.CurrentQuantity,
		Entries:         v.Replay.Entries,
		StartQuantity:   v.Replay.Start,
		ReplayedFinal:   v.Replay.Final,
		Consistent:      v.Consistent,
		BrokenAtSeq:     v.Replay.BrokenAt,
	})
}

func historyQuery(c *fiber.Ctx) (inventory.HistoryQuery, error) {
	var req dto.HistoryQueryRequest
	if err := c.QueryParser(&req); err != nil {
		return inventory.HistoryQuery{}, fmt.Errorf("parámetros de consulta inválidos")
	}
	req.DefaultPage()
	from, err := parseDate(req.From)
	if err != nil {
		return inventory.HistoryQuery{}, fmt.Errorf("from debe tener formato YYYY-MM-DD")
	}
	to, err := parseDate(req.To)
	if err != nil {
		return inventory.HistoryQuery{}, fmt.Errorf("to debe tener formato YYYY-MM-DD")
	}
	return inventory.HistoryQuery{
		ProductID: req.ProductID,
		From:      from,
		To:        to,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}, nil
}

func toProductStockDTOs(list []inventory.ProductAlert) []dto.ProductStockDTO {
	out := make([]dto.ProductStockDTO, 0, len(list))
	for _, pa := range list {
		out = append(out, dto.ToProductStockDTO(pa.Product, string(pa.Status)))
	}
	return out
}
