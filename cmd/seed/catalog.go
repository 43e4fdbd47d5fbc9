package main

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/shopspring/decimal"
)

type sampleProduct struct {
	name     string
	brand    string
	category string
	price    string
	retailer string
}

var sampleCatalog = []sampleProduct{
	{"Harmony Sofa", "West Elm", domain.CategorySofa, "1499.00", "West Elm"},
	{"Modern Sectional", "Wayfair", domain.CategorySofa, "899.00", "Wayfair"},
	{"Velvet Chesterfield", "CB2", domain.CategorySofa, "1799.00", "CB2"},
	{"Mid-Century Sofa", "Article", domain.CategorySofa, "1299.00", "Article"},
	{"Sleeper Sofa", "IKEA", domain.CategorySofa, "599.00", "IKEA"},
	{"L-Shaped Sectional", "Wayfair", domain.CategorySofa, "1099.00", "Wayfair"},
	{"Leather Sofa", "West Elm", domain.CategorySofa, "2199.00", "West Elm"},
	{"Modular Sofa", "Floyd", domain.CategorySofa, "1895.00", "Floyd"},
	{"Linen Sofa", "Pottery Barn", domain.CategorySofa, "1599.00", "Pottery Barn"},
	{"Tufted Sofa", "CB2", domain.CategorySofa, "1399.00", "CB2"},

	{"Glass Coffee Table", "West Elm", domain.CategoryCoffeeTable, "399.00", "West Elm"},
	{"Wooden Coffee Table", "IKEA", domain.CategoryCoffeeTable, "199.00", "IKEA"},
	{"Marble Coffee Table", "CB2", domain.CategoryCoffeeTable, "699.00", "CB2"},
	{"Round Coffee Table", "Article", domain.CategoryCoffeeTable, "449.00", "Article"},
	{"Storage Coffee Table", "Wayfair", domain.CategoryCoffeeTable, "299.00", "Wayfair"},
	{"Industrial Coffee Table", "West Elm", domain.CategoryCoffeeTable, "549.00", "West Elm"},
	{"Nesting Coffee Tables", "CB2", domain.CategoryCoffeeTable, "399.00", "CB2"},
	{"Lift-Top Coffee Table", "Wayfair", domain.CategoryCoffeeTable, "329.00", "Wayfair"},

	{"Arc Floor Lamp", "West Elm", domain.CategoryFloorLamp, "299.00", "West Elm"},
	{"Tripod Floor Lamp", "IKEA", domain.CategoryFloorLamp, "89.00", "IKEA"},
	{"LED Floor Lamp", "CB2", domain.CategoryFloorLamp, "349.00", "CB2"},
	{"Reading Floor Lamp", "Article", domain.CategoryFloorLamp, "199.00", "Article"},
	{"Modern Floor Lamp", "Wayfair", domain.CategoryFloorLamp, "159.00", "Wayfair"},
	{"Brass Floor Lamp", "West Elm", domain.CategoryFloorLamp, "399.00", "West Elm"},
	{"Corner Floor Lamp", "CB2", domain.CategoryFloorLamp, "279.00", "CB2"},

	{"Ceramic Table Lamp", "West Elm", domain.CategoryTableLamp, "129.00", "West Elm"},
	{"Modern Table Lamp", "IKEA", domain.CategoryTableLamp, "49.00", "IKEA"},
	{"Marble Base Lamp", "CB2", domain.CategoryTableLamp, "179.00", "CB2"},
	{"Brass Table Lamp", "Article", domain.CategoryTableLamp, "149.00", "Article"},
	{"Touch Table Lamp", "Wayfair", domain.CategoryTableLamp, "79.00", "Wayfair"},
	{"USB Table Lamp", "West Elm", domain.CategoryTableLamp, "99.00", "West Elm"},

	{"Wooden Dining Table", "West Elm", domain.CategoryDiningTable, "899.00", "West Elm"},
	{"Glass Dining Table", "IKEA", domain.CategoryDiningTable, "399.00", "IKEA"},
	{"Marble Dining Table", "CB2", domain.CategoryDiningTable, "1299.00", "CB2"},
	{"Extendable Dining Table", "Article", domain.CategoryDiningTable, "999.00", "Article"},
	{"Round Dining Table", "Wayfair", domain.CategoryDiningTable, "599.00", "Wayfair"},
	{"Farmhouse Dining Table", "Pottery Barn", domain.CategoryDiningTable, "1199.00", "Pottery Barn"},

	{"Dining Chair Set", "West Elm", domain.CategoryChair, "599.00", "West Elm"},
	{"Accent Chair", "IKEA", domain.CategoryChair, "199.00", "IKEA"},
	{"Velvet Accent Chair", "CB2", domain.CategoryChair, "499.00", "CB2"},
	{"Office Chair", "Article", domain.CategoryChair, "349.00", "Article"},
	{"Dining Chairs (Set of 4)", "Wayfair", domain.CategoryChair, "399.00", "Wayfair"},
	{"Armchair", "West Elm", domain.CategoryChair, "699.00", "West Elm"},
	{"Folding Chairs", "IKEA", domain.CategoryChair, "79.00", "IKEA"},

	{"Nightstand", "West Elm", domain.CategorySideTable, "299.00", "West Elm"},
	{"End Table", "IKEA", domain.CategorySideTable, "99.00", "IKEA"},
	{"Marble Side Table", "CB2", domain.CategorySideTable, "349.00", "CB2"},
	{"Nesting Tables", "Article", domain.CategorySideTable, "249.00", "Article"},
	{"C-Table", "Wayfair", domain.CategorySideTable, "129.00", "Wayfair"},
	{"Drawer Nightstand", "West Elm", domain.CategorySideTable, "399.00", "West Elm"},

	{"Globe Pendant", "West Elm", domain.CategoryPendantLight, "199.00", "West Elm"},
	{"Industrial Pendant", "IKEA", domain.CategoryPendantLight, "79.00", "IKEA"},
	{"Glass Pendant", "CB2", domain.CategoryPendantLight, "249.00", "CB2"},
	{"Multi-Light Pendant", "Article", domain.CategoryPendantLight, "399.00", "Article"},
	{"Drum Pendant", "Wayfair", domain.CategoryPendantLight, "159.00", "Wayfair"},
	{"Chandelier", "Pottery Barn", domain.CategoryPendantLight, "599.00", "Pottery Barn"},
}

// buildProducts превращает образцы в товары каталога с внешними ID prod_001, prod_002 и т.д.
func buildProducts(samples []sampleProduct) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(samples))
	for i, s := range samples {
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}

		p := domain.NewProduct(fmt.Sprintf("prod_%03d", i+1), s.name, s.brand, s.category, price, s.retailer)
		p.Description = fmt.Sprintf("%s %s - High quality furniture piece", s.brand, s.name)
		p.ImageURL = "https://via.placeholder.com/400x400?text=" + strings.ReplaceAll(s.name, " ", "+")
		p.RetailerURL = retailerURL(s.retailer, s.name)
		p.AffiliateURL = p.RetailerURL + "?ref=splay"

		products = append(products, p)
	}

	return products, nil
}

func retailerURL(retailer, name string) string {
	host := strings.ToLower(strings.ReplaceAll(retailer, " ", ""))
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return fmt.Sprintf("https://%s.com/%s", host, slug)
}

// filterCategories оставляет товары указанных категорий, пустой список означает все.
func filterCategories(products []*domain.Product, categories []string) []*domain.Product {
	if len(categories) == 0 {
		return products
	}

	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if _, ok := wanted[p.Category]; ok {
			out = append(out, p)
		}
	}
	return out
}
