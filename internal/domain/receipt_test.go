package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupItems_Partition(t *testing.T) {
	items := []OrderItem{
		{ID: "k1", ProductType: ProductTypeKitchen},
		{ID: "p1", ProductType: ProductTypePizzeria, DoughType: strPtr("Cereali")},
		{ID: "g1", ProductType: ProductTypePizzeria, DoughType: strPtr(GlutenFreeDough)},
		{ID: "p2", ProductType: ProductTypePizzeria},
		{ID: "k2", ProductType: ProductTypeKitchen, DoughType: strPtr(GlutenFreeDough)},
	}

	groups := GroupItems(items)

	ids := func(items []OrderItem) []string {
		out := []string{}
		for _, i := range items {
			out = append(out, i.ID)
		}
		return out
	}

	assert.Equal(t, []string{"k1", "k2"}, ids(groups.Kitchen))
	assert.Equal(t, []string{"p1", "p2"}, ids(groups.Pizzeria))
	assert.Equal(t, []string{"g1"}, ids(groups.GlutenFree))
	assert.Equal(t, len(items), len(groups.Kitchen)+len(groups.Pizzeria)+len(groups.GlutenFree))
}

func TestGroupItems_Empty(t *testing.T) {
	groups := GroupItems(nil)

	assert.NotNil(t, groups.Kitchen)
	assert.NotNil(t, groups.Pizzeria)
	assert.NotNil(t, groups.GlutenFree)
	assert.Empty(t, groups.Kitchen)
}

func TestDoughSummary(t *testing.T) {
	items := []OrderItem{
		{ProductType: ProductTypePizzeria, DoughType: strPtr("Cereali")},
		{ProductType: ProductTypePizzeria, DoughType: strPtr("Cereali")},
		{ProductType: ProductTypePizzeria, DoughType: strPtr(GlutenFreeDough)},
		{ProductType: ProductTypePizzeria},
		{ProductType: ProductTypeKitchen, DoughType: strPtr("Napoli")},
	}

	summary := DoughSummary(items)

	assert.Equal(t, map[string]int{"Cereali": 2, GlutenFreeDough: 1}, summary)
}
