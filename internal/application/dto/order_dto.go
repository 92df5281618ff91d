package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// CreateOrderRequest body para POST /api/orders. Sin sesión el pedido queda como invitado.
type CreateOrderRequest struct {
	ProductID       string `json:"product_id"`
	CustomerName    string `json:"customer_name"`
	CustomerContact string `json:"customer_contact"` // email o teléfono
}

// ListOrdersRequest query params de GET /api/orders.
type ListOrdersRequest struct {
	Status string `query:"status"`
	PageRequest
}

// OrderDTO respuesta de pedido.
type OrderDTO struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Amount          decimal.Decimal `json:"amount"`
	CustomerUserID  string          `json:"customer_user_id,omitempty"`
	CustomerName    string          `json:"customer_name"`
	CustomerContact string          `json:"customer_contact"`
	Guest           bool            `json:"guest"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ValidateOrderResponse respuesta de POST /api/orders/:id/validate.
type ValidateOrderResponse struct {
	Order  OrderDTO              `json:"order"`
	Profit ProfitRecordDTO       `json:"profit"`
	Stock  *StockHistoryEntryDTO `json:"stock,omitempty"`
}

// ToOrderDTO convierte un pedido del dominio.
func ToOrderDTO(o *entity.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID,
		ProductID:       o.ProductID,
		ProductName:     o.ProductName,
		Amount:          o.Amount,
		CustomerUserID:  o.Customer.UserID,
		CustomerName:    o.Customer.Name,
		CustomerContact: o.Customer.Contact,
		Guest:           o.Customer.IsGuest(),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
