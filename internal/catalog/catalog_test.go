package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultSeedIsValid(t *testing.T) {
	t.Parallel()

	provider := Default()
	if got := len(provider.ListProducts()); got != 6 {
		t.Fatalf("expected 6 products, got %d", got)
	}
	if got := len(provider.ListSizes()); got != 3 {
		t.Fatalf("expected 3 sizes, got %d", got)
	}
	if got := len(provider.ListToppings()); got != 4 {
		t.Fatalf("expected 4 toppings, got %d", got)
	}

	fresa, ok := provider.FindProduct("granizado-fresa")
	if !ok {
		t.Fatal("expected seed product granizado-fresa")
	}
	if !fresa.Price.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("unexpected base price %s", fresa.Price)
	}

	large, ok := provider.FindSize("large")
	if !ok {
		t.Fatal("expected seed size large")
	}
	if !large.Multiplier.Equal(decimal.RequireFromString("1.3")) {
		t.Fatalf("unexpected multiplier %s", large.Multiplier)
	}
}

func TestFindSizeMissingIsNotAnError(t *testing.T) {
	t.Parallel()

	provider := Default()
	if _, ok := provider.FindSize("venti"); ok {
		t.Fatal("unknown size should report not found")
	}
}

func TestFindToppingsDropsUnknownIDs(t *testing.T) {
	t.Parallel()

	provider := Default()
	toppings := provider.FindToppings([]string{"fruit", "nope", "cream", ""})
	if len(toppings) != 2 {
		t.Fatalf("expected 2 toppings, got %d", len(toppings))
	}
	if toppings[0].Name != "Fruta Extra" || toppings[1].Name != "Crema Batida" {
		t.Fatalf("unexpected toppings order: %+v", toppings)
	}
}

func TestNewProviderRejectsBadEntries(t *testing.T) {
	t.Parallel()

	one := decimal.NewFromInt(1)

	if _, err := NewProvider([]Product{{Name: "no id"}}, nil, nil); err == nil {
		t.Fatal("expected error for product without id")
	}
	if _, err := NewProvider(nil, []Size{{ID: "s", Name: "s", Multiplier: decimal.Zero}}, nil); err == nil {
		t.Fatal("expected error for non-positive multiplier")
	}
	if _, err := NewProvider(nil, nil, []Topping{{ID: "t", Name: "t", Price: one.Neg()}}); err == nil {
		t.Fatal("expected error for negative topping price")
	}
	dup := []Product{
		{ID: "p", Name: "a", Price: one},
		{ID: "p", Name: "b", Price: one},
	}
	if _, err := NewProvider(dup, nil, nil); err == nil {
		t.Fatal("expected error for duplicate product ids")
	}
}

func TestListReturnsCopies(t *testing.T) {
	t.Parallel()

	provider := Default()
	products := provider.ListProducts()
	products[0].Name = "mutated"

	if provider.ListProducts()[0].Name == "mutated" {
		t.Fatal("catalog must not observe caller mutation")
	}
}
