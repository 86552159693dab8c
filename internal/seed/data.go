package seed

import "ristorante/internal/domain"

const tableCount = 12

type productSeed struct {
	name     string
	price    float64
	category domain.Category
}

var menu = []productSeed{
	{"Bruschetta al Pomodoro", 8.0, domain.CategoryAntipasti},
	{"Antipasto Misto", 12.0, domain.CategoryAntipasti},
	{"Caprese", 10.0, domain.CategoryAntipasti},
	{"Frittura di Mare", 12.0, domain.CategoryAntipasti},

	{"Spaghetti alla Carbonara", 14.0, domain.CategoryPasta},
	{"Penne all'Arrabbiata", 14.0, domain.CategoryPasta},
	{"Tagliatelle ai Funghi Porcini", 16.0, domain.CategoryPasta},
	{"Risotto ai Frutti di Mare", 18.0, domain.CategoryPasta},

	{"Margherita", 9.0, domain.CategoryPizza},
	{"Diavola", 11.0, domain.CategoryPizza},
	{"Quattro Formaggi", 12.0, domain.CategoryPizza},
	{"Capricciosa", 13.0, domain.CategoryPizza},
	{"Napoletana", 10.0, domain.CategoryPizza},
	{"Prosciutto e Funghi", 12.0, domain.CategoryPizza},

	{"Tiramisù", 6.0, domain.CategoryDessert},
	{"Panna Cotta", 6.0, domain.CategoryDessert},
	{"Cannoli Siciliani", 7.0, domain.CategoryDessert},
	{"Gelato Artigianale", 6.0, domain.CategoryDessert},
}

var doughTypes = []struct {
	name            string
	additionalPrice float64
}{
	{"Classica", 0.0},
	{"Napoli", 0.0},
	{"Cereali", 2.0},
	{domain.GlutenFreeDough, 2.0},
}

var extras = []struct {
	name  string
	price float64
}{
	{"Mozzarella senza lattosio", 1.5},
	{"Bufala", 2.0},
	{"Funghi porcini", 2.5},
	{"Prosciutto crudo", 2.0},
}

// newProduct derives type and customizability from the category: pizzas go
// to the pizzeria and are the only customizable items.
func newProduct(id string, p productSeed) domain.Product {
	product := domain.Product{
		ID:       id,
		Name:     p.name,
		Price:    p.price,
		Category: p.category,
		Type:     domain.ProductTypeKitchen,
	}
	if p.category == domain.CategoryPizza {
		product.Type = domain.ProductTypePizzeria
		product.IsCustomizable = true
	}
	return product
}
