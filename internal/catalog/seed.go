package catalog

import "github.com/shopspring/decimal"

// Default returns the seed catalog the terminals ship with. The back-office
// product table is managed separately; this fixture is what a fresh POS
// session prices against.
func Default() Provider {
	provider, err := NewProvider(seedProducts(), seedSizes(), seedToppings())
	if err != nil {
		// the seed is static and validated by tests
		panic(err)
	}
	return provider
}

func seedProducts() []Product {
	return []Product{
		{ID: "granizado-fresa", Name: "Granizado Fresa", Price: decimal.RequireFromString("3.5"), Category: "granizado", Icon: "🍓", Color: "#e63950"},
		{ID: "granizado-limon", Name: "Granizado Limón", Price: decimal.RequireFromString("3.5"), Category: "granizado", Icon: "🍋", Color: "#c5d92e"},
		{ID: "granizado-frambuesa", Name: "Granizado Frambuesa", Price: decimal.RequireFromString("4.0"), Category: "granizado", Icon: "🫐", Color: "#5b4b9e"},
		{ID: "granizado-mango", Name: "Granizado Mango", Price: decimal.RequireFromString("4.0"), Category: "granizado", Icon: "🥭", Color: "#f2a93b"},
		{ID: "granizado-mix", Name: "Granizado Mix", Price: decimal.RequireFromString("4.5"), Category: "granizado", Icon: "🌈", Color: "#3bb0f2"},
		{ID: "granizado-cola", Name: "Granizado Cola", Price: decimal.RequireFromString("3.5"), Category: "granizado", Icon: "🥤", Color: "#6b4226"},
	}
}

func seedSizes() []Size {
	return []Size{
		{ID: "small", Name: "Pequeño", Multiplier: decimal.RequireFromString("0.8")},
		{ID: "medium", Name: "Mediano", Multiplier: decimal.RequireFromString("1")},
		{ID: "large", Name: "Grande", Multiplier: decimal.RequireFromString("1.3")},
	}
}

func seedToppings() []Topping {
	return []Topping{
		{ID: "condensed", Name: "Leche Condensada", Price: decimal.RequireFromString("0.5")},
		{ID: "fruit", Name: "Fruta Extra", Price: decimal.RequireFromString("0.8")},
		{ID: "cream", Name: "Crema Batida", Price: decimal.RequireFromString("0.6")},
		{ID: "syrup", Name: "Jarabe Especial", Price: decimal.RequireFromString("0.4")},
	}
}
