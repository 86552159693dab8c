package dto

import "ristorante/internal/domain"

// Item is an order item as rendered to clients, with its derived customizations.
type Item struct {
	domain.OrderItem
	Customizations []string `json:"customizations"`
}

func NewItem(item domain.OrderItem) Item {
	if item.Extras == nil {
		item.Extras = []domain.ItemExtra{}
	}
	return Item{
		OrderItem:      item,
		Customizations: item.Customizations(),
	}
}

func NewItems(items []domain.OrderItem) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, NewItem(item))
	}
	return out
}
