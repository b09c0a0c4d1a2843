// Package query translates storefront filter requests into record API
// parameters, and applies the filters the platform cannot evaluate
// server-side over already-transformed results.
package query

import (
	"strings"

	"storefront-service/internal/apper"
	"storefront-service/internal/models"
)

// Sort keys accepted from callers.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
)

// ProductFilter is a caller-supplied catalog filter. Category, Search
// and SortBy resolve server-side; Sizes, Colors and the price bounds
// are applied client-side after transformation.
type ProductFilter struct {
	Category string
	Search   string
	SortBy   string
	Sizes    []string
	Colors   []string
	MinPrice *float64
	MaxPrice *float64
}

// OrderFilter is a caller-supplied order list filter. Status resolves
// server-side; Search is applied client-side.
type OrderFilter struct {
	Status string
	Search string
}

// ProductWhere builds the server-side filter clauses for a product
// fetch: category exact match and name substring search.
func ProductWhere(f ProductFilter) []apper.Where {
	var where []apper.Where

	if f.Category != "" {
		where = append(where, apper.Where{
			FieldName: "category_c",
			Operator:  apper.OpEqualTo,
			Values:    []any{f.Category},
		})
	}

	if f.Search != "" {
		where = append(where, apper.Where{
			FieldName: "name_c",
			Operator:  apper.OpContains,
			Values:    []any{strings.ToLower(f.Search)},
		})
	}

	return where
}

// ProductOrder maps a sort key to its server-side directive. An
// unrecognized or absent key issues no directive, leaving the result
// in server-default order.
func ProductOrder(f ProductFilter) []apper.OrderBy {
	switch f.SortBy {
	case SortPriceLow:
		return []apper.OrderBy{{FieldName: "price_c", SortType: apper.SortAsc}}
	case SortPriceHigh:
		return []apper.OrderBy{{FieldName: "price_c", SortType: apper.SortDesc}}
	case SortName:
		return []apper.OrderBy{{FieldName: "name_c", SortType: apper.SortAsc}}
	default:
		return nil
	}
}

// ApplyProductFilters applies the filters without server-side support:
// any-match on sizes and colors, inclusive price bounds.
func ApplyProductFilters(products []models.Product, f ProductFilter) []models.Product {
	out := products

	if len(f.Sizes) > 0 {
		out = keep(out, func(p models.Product) bool {
			return intersects(p.Sizes, f.Sizes)
		})
	}

	if len(f.Colors) > 0 {
		out = keep(out, func(p models.Product) bool {
			return intersects(p.Colors, f.Colors)
		})
	}

	if f.MinPrice != nil {
		out = keep(out, func(p models.Product) bool {
			return p.Price >= *f.MinPrice
		})
	}

	if f.MaxPrice != nil {
		out = keep(out, func(p models.Product) bool {
			return p.Price <= *f.MaxPrice
		})
	}

	return out
}

// OrderWhere builds the server-side filter clauses for an order fetch.
// The pseudo-status "all" means no filter.
func OrderWhere(f OrderFilter) []apper.Where {
	if f.Status == "" || f.Status == "all" {
		return nil
	}
	return []apper.Where{{
		FieldName: "status_c",
		Operator:  apper.OpEqualTo,
		Values:    []any{f.Status},
	}}
}

// OrderSort is the fixed newest-first sort for order listings.
func OrderSort() []apper.OrderBy {
	return []apper.OrderBy{{FieldName: "order_date_c", SortType: apper.SortDesc}}
}

// ApplyOrderSearch filters orders by a case-insensitive free-text match
// against the order number or any line item name.
func ApplyOrderSearch(orders []models.Order, search string) []models.Order {
	if search == "" {
		return orders
	}
	q := strings.ToLower(search)

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.OrderNumber), q) {
			out = append(out, o)
			continue
		}
		for _, item := range o.Items {
			if strings.Contains(strings.ToLower(item.Name), q) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

func keep(products []models.Product, pred func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
