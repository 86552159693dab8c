package dto

import "ristorante/internal/domain"

type OpenTableRequest struct {
	TableID string `json:"table_id"`
	Covers  *int   `json:"covers"`
}

type OpenTableResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// TableSummary is a table with the running totals of its open orders.
type TableSummary struct {
	domain.Table
	ItemsCount int     `json:"items_count"`
	Total      float64 `json:"total"`
}

// TableDetail embeds the active order and its items when the table has one.
// A free table carries neither key; an open table always carries items, even
// when the list is empty.
type TableDetail struct {
	domain.Table
	ActiveOrder *domain.Order `json:"active_order,omitempty"`
	Items       []Item        `json:"items,omitzero"`
}
