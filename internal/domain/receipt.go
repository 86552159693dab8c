package domain

// ItemGroups splits an order's items into the three receipt sections. Every
// item lands in exactly one group.
type ItemGroups struct {
	Kitchen    []OrderItem
	Pizzeria   []OrderItem
	GlutenFree []OrderItem
}

func GroupItems(items []OrderItem) ItemGroups {
	groups := ItemGroups{
		Kitchen:    []OrderItem{},
		Pizzeria:   []OrderItem{},
		GlutenFree: []OrderItem{},
	}

	for _, item := range items {
		switch {
		case item.ProductType == ProductTypePizzeria && item.IsGlutenFree():
			groups.GlutenFree = append(groups.GlutenFree, item)
		case item.ProductType == ProductTypePizzeria:
			groups.Pizzeria = append(groups.Pizzeria, item)
		default:
			groups.Kitchen = append(groups.Kitchen, item)
		}
	}

	return groups
}

// DoughSummary counts pizzeria items per dough name. Items without a dough are
// not counted.
func DoughSummary(items []OrderItem) map[string]int {
	summary := map[string]int{}
	for _, item := range items {
		if item.ProductType != ProductTypePizzeria {
			continue
		}
		if dough := item.Dough(); dough != "" {
			summary[dough]++
		}
	}
	return summary
}
