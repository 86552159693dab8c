package domain

import "time"

// GlutenFreeDough is the dough name whose pizzas are prepared apart on receipts.
const GlutenFreeDough = "Senza Glutine"

type Order struct {
	ID        string    `bson:"id" json:"id"`
	TableID   string    `bson:"table_id" json:"table_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	IsSent    bool      `bson:"is_sent" json:"is_sent"`
	IsClosed  bool      `bson:"is_closed" json:"is_closed"`
}

func NewOrder(id, tableID string, createdAt time.Time) Order {
	return Order{
		ID:        id,
		TableID:   tableID,
		CreatedAt: createdAt,
	}
}

// ItemExtra is a snapshot of an Extra taken when the item was ordered.
type ItemExtra struct {
	ID    string  `bson:"id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// OrderItem copies name, price and type from the product so later catalog
// changes never alter existing orders.
type OrderItem struct {
	ID          string      `bson:"id" json:"id"`
	OrderID     string      `bson:"order_id" json:"order_id"`
	ProductID   string      `bson:"product_id" json:"product_id"`
	Name        string      `bson:"name" json:"name"`
	Price       float64     `bson:"price" json:"price"`
	ProductType ProductType `bson:"product_type" json:"product_type"`
	DoughType   *string     `bson:"dough_type" json:"dough_type"`
	TotalPrice  float64     `bson:"total_price" json:"total_price"`
	Extras      []ItemExtra `bson:"extras" json:"extras"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
}

// NewOrderItem prices a product with an optional dough and extras:
// product price + dough surcharge + sum of extra prices.
func NewOrderItem(id, orderID string, product Product, dough *DoughType, extras []ItemExtra, createdAt time.Time) OrderItem {
	item := OrderItem{
		ID:          id,
		OrderID:     orderID,
		ProductID:   product.ID,
		Name:        product.Name,
		Price:       product.Price,
		ProductType: product.Type,
		TotalPrice:  product.Price,
		Extras:      []ItemExtra{},
		CreatedAt:   createdAt,
	}

	if dough != nil {
		name := dough.Name
		item.DoughType = &name
		item.TotalPrice += dough.AdditionalPrice
	}

	for _, extra := range extras {
		item.Extras = append(item.Extras, extra)
		item.TotalPrice += extra.Price
	}

	return item
}

func (i OrderItem) Dough() string {
	if i.DoughType == nil {
		return ""
	}
	return *i.DoughType
}

func (i OrderItem) IsGlutenFree() bool {
	return i.Dough() == GlutenFreeDough
}

// Customizations lists the dough name followed by the extra names.
func (i OrderItem) Customizations() []string {
	customizations := []string{}
	if dough := i.Dough(); dough != "" {
		customizations = append(customizations, dough)
	}
	for _, extra := range i.Extras {
		customizations = append(customizations, extra.Name)
	}
	return customizations
}

func ItemsTotal(items []OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}
