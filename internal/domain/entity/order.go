package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido. pending es el único estado no terminal.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusValidated OrderStatus = "validated"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal indica si ya no se admite ninguna transición desde este estado.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusValidated || s == OrderStatusCancelled
}

// CanTransitionTo aplica la tabla de transiciones: pending → validated | cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s != OrderStatusPending {
		return false
	}
	return next == OrderStatusValidated || next == OrderStatusCancelled
}

// Valid indica si el valor corresponde a un estado conocido.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusValidated, OrderStatusCancelled:
		return true
	}
	return false
}

// CustomerInfo datos del comprador: perfil autenticado (UserID) o invitado.
type CustomerInfo struct {
	UserID  string
	Name    string
	Contact string // email o teléfono
}

// IsGuest indica si el pedido se capturó sin sesión.
func (c CustomerInfo) IsGuest() bool { return c.UserID == "" }

// Order representa un pedido. ProductName y Amount son copias tomadas al crear el pedido.
type Order struct {
	ID          string
	ProductID   string
	ProductName string
	Amount      decimal.Decimal
	Customer    CustomerInfo
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
