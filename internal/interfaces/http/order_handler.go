package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/orders"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// OrderHandler alta de pedidos y su ciclo de vida: validar, cancelar, eliminar.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Sin token el pedido queda como invitado. Nombre y precio se copian del producto.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "product_id, customer_name, customer_contact"
// @Success      201   {object}  dto.OrderDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.Create(c.Context(), orders.CreateInput{
		ProductID: in.ProductID,
		Customer: entity.CustomerInfo{
			UserID:  GetUserID(c),
			Name:    in.CustomerName,
			Contact: in.CustomerContact,
		},
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderDTO(order))
}

// List GET /api/orders?status=&limit=&offset=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var req dto.ListOrdersRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c, "parámetros de consulta inválidos")
	}
	req.DefaultPage()
	list, err := h.uc.List(c.Context(), repository.OrderFilter{
		Status: entity.OrderStatus(req.Status),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.OrderDTO, 0, len(list))
	for _, o := range list {
		items = append(items, dto.ToOrderDTO(o))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: req.Limit, Offset: req.Offset, Count: len(items)},
	})
}

// Get GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToOrderDTO(order))
}

// Validate godoc
// @Summary      Validar pedido
// @Description  Registra la ganancia, descuenta una unidad si el producto es físico y marca el pedido
//
//	como validated. Todo o nada.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Order ID"
// @Success      200  {object}  dto.ValidateOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/validate [post]
func (h *OrderHandler) Validate(c *fiber.Ctx) error {
	res, err := h.uc.Validate(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ValidateOrderResponse{
		Order:  dto.ToOrderDTO(res.Order),
		Profit: dto.ToProfitRecordDTO(res.Profit),
	}
	if res.Stock != nil {
		entry := dto.ToHistoryEntryDTO(res.Stock)
		out.Stock = &entry
	}
	return c.JSON(out)
}

// Cancel POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToOrderDTO(order))
}

// Delete DELETE /api/orders/:id. 502 DELETION_NOT_CONFIRMED si el pedido sigue visible tras borrarlo.
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return writeError(c, domain.ErrInvalidInput)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
