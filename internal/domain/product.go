package domain

type Category string

const (
	CategoryAntipasti Category = "antipasti"
	CategoryPasta     Category = "pasta"
	CategoryPizza     Category = "pizza"
	CategoryDessert   Category = "dessert"
)

// MenuOrder is the order categories are presented in.
var MenuOrder = []Category{CategoryAntipasti, CategoryPasta, CategoryPizza, CategoryDessert}

// MenuRank returns the position of c in MenuOrder, or len(MenuOrder) for unknown categories.
func MenuRank(c Category) int {
	for i, known := range MenuOrder {
		if known == c {
			return i
		}
	}
	return len(MenuOrder)
}

type ProductType string

const (
	ProductTypeKitchen  ProductType = "kitchen"
	ProductTypePizzeria ProductType = "pizzeria"
)

type Product struct {
	ID             string      `bson:"id" json:"id"`
	Name           string      `bson:"name" json:"name"`
	Price          float64     `bson:"price" json:"price"`
	Category       Category    `bson:"category" json:"category"`
	Type           ProductType `bson:"type" json:"type"`
	IsCustomizable bool        `bson:"is_customizable" json:"is_customizable"`
}

type DoughType struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	AdditionalPrice float64 `bson:"additional_price" json:"additional_price"`
}

type Extra struct {
	ID    string  `bson:"id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}
