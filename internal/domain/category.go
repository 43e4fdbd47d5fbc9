package domain

import "slices"

// Категории мебели, которые распознаёт детектор.
const (
	CategorySofa         = "sofa"
	CategoryCoffeeTable  = "coffee_table"
	CategoryFloorLamp    = "floor_lamp"
	CategoryTableLamp    = "table_lamp"
	CategoryDiningTable  = "dining_table"
	CategoryChair        = "chair"
	CategorySideTable    = "side_table"
	CategoryPendantLight = "pendant_light"
)

var supportedCategories = []string{
	CategorySofa,
	CategoryCoffeeTable,
	CategoryFloorLamp,
	CategoryTableLamp,
	CategoryDiningTable,
	CategoryChair,
	CategorySideTable,
	CategoryPendantLight,
}

// SupportedCategories возвращает копию списка поддерживаемых категорий.
func SupportedCategories() []string {
	return slices.Clone(supportedCategories)
}

// IsSupportedCategory проверяет, знает ли система категорию.
func IsSupportedCategory(category string) bool {
	return slices.Contains(supportedCategories, category)
}

// EmbeddingText возвращает текст, по которому строится эмбеддинг обнаруженного предмета.
func EmbeddingText(category string) string {
	return category + " furniture"
}
