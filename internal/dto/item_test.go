package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ristorante/internal/domain"
)

func TestNewItem_FlattensOrderItem(t *testing.T) {
	dough := "Cereali"
	item := NewItem(domain.OrderItem{
		ID:          "i1",
		Name:        "Margherita",
		ProductType: domain.ProductTypePizzeria,
		DoughType:   &dough,
		TotalPrice:  13.0,
		Extras:      []domain.ItemExtra{{ID: "e1", Name: "Bufala", Price: 2.0}},
	})

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "i1", out["id"])
	assert.Equal(t, "Cereali", out["dough_type"])
	assert.Equal(t, 13.0, out["total_price"])
	assert.Equal(t, []interface{}{"Cereali", "Bufala"}, out["customizations"])
}

func TestNewItems_NeverNull(t *testing.T) {
	items := NewItems(nil)
	require.NotNil(t, items)

	raw, err := json.Marshal(items)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = json.Marshal(NewItem(domain.OrderItem{ID: "x"}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"extras":[]`)
	assert.Contains(t, string(raw), `"customizations":[]`)
}
