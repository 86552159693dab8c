package dto

import (
	"time"

	"ristorante/internal/domain"
)

type AddItemRequest struct {
	TableID   string   `json:"table_id"`
	ProductID string   `json:"product_id"`
	DoughType *string  `json:"dough_type"`
	ExtraIDs  []string `json:"extra_ids"`
}

type AddItemResponse struct {
	Message string `json:"message"`
	Item    Item   `json:"item"`
}

type ActiveOrder struct {
	Order domain.Order `json:"order"`
	Items []Item       `json:"items"`
	Total float64      `json:"total"`
}

type Receipt struct {
	Order           domain.Order   `json:"order"`
	Table           *domain.Table  `json:"table"`
	KitchenItems    []Item         `json:"kitchen_items"`
	PizzeriaItems   []Item         `json:"pizzeria_items"`
	GlutenFreeItems []Item         `json:"gluten_free_items"`
	DoughSummary    map[string]int `json:"dough_summary"`
	Total           float64        `json:"total"`
}

type CashRegister struct {
	ClosedOrders []ClosedOrder `json:"closed_orders"`
	TotalRevenue float64       `json:"total_revenue"`
}

type ClosedOrder struct {
	OrderID     string             `json:"order_id"`
	TableNumber int                `json:"table_number"`
	Covers      int                `json:"covers"`
	UseCount    int                `json:"use_count"`
	Date        time.Time          `json:"date"`
	Items       []CashRegisterItem `json:"items"`
	Total       float64            `json:"total"`
}

type CashRegisterItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	TotalPrice     float64  `json:"total_price"`
	Customizations []string `json:"customizations"`
}

// Ticket is the message published to a preparation station when an order is sent.
type Ticket struct {
	OrderID     string       `json:"order_id"`
	TableNumber int          `json:"table_number"`
	Station     string       `json:"station"`
	Items       []TicketItem `json:"items"`
	SentAt      time.Time    `json:"sent_at"`
}

type TicketItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Customizations []string `json:"customizations"`
	GlutenFree     bool     `json:"gluten_free"`
}
