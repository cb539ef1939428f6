package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Price is the base unit price before
// size multipliers and toppings. Icon and Color are presentation hints only
// and never participate in pricing.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
	Icon     string
	Color    string
}

// Size scales a product's base price by its multiplier.
type Size struct {
	ID         string
	Name       string
	Multiplier decimal.Decimal
}

// Topping adds a flat amount on top of the sized base price.
type Topping struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Provider exposes read-only catalog lookups. Implementations are immutable
// after construction and safe for concurrent use.
type Provider interface {
	ListProducts() []Product
	ListSizes() []Size
	ListToppings() []Topping
	FindProduct(id string) (Product, bool)
	FindSize(id string) (Size, bool)
	FindToppings(ids []string) []Topping
}

type provider struct {
	products []Product
	sizes    []Size
	toppings []Topping

	productsByID map[string]Product
	sizesByID    map[string]Size
	toppingsByID map[string]Topping
}

// NewProvider builds an immutable catalog from the given entries.
func NewProvider(products []Product, sizes []Size, toppings []Topping) (Provider, error) {
	p := &provider{
		products:     make([]Product, len(products)),
		sizes:        make([]Size, len(sizes)),
		toppings:     make([]Topping, len(toppings)),
		productsByID: make(map[string]Product, len(products)),
		sizesByID:    make(map[string]Size, len(sizes)),
		toppingsByID: make(map[string]Topping, len(toppings)),
	}
	copy(p.products, products)
	copy(p.sizes, sizes)
	copy(p.toppings, toppings)

	for _, prod := range p.products {
		if prod.ID == "" {
			return nil, fmt.Errorf("product %q missing id", prod.Name)
		}
		if _, dup := p.productsByID[prod.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", prod.ID)
		}
		p.productsByID[prod.ID] = prod
	}
	for _, size := range p.sizes {
		if size.ID == "" {
			return nil, fmt.Errorf("size %q missing id", size.Name)
		}
		if !size.Multiplier.IsPositive() {
			return nil, fmt.Errorf("size %q multiplier must be positive", size.ID)
		}
		if _, dup := p.sizesByID[size.ID]; dup {
			return nil, fmt.Errorf("duplicate size id %q", size.ID)
		}
		p.sizesByID[size.ID] = size
	}
	for _, topping := range p.toppings {
		if topping.ID == "" {
			return nil, fmt.Errorf("topping %q missing id", topping.Name)
		}
		if topping.Price.IsNegative() {
			return nil, fmt.Errorf("topping %q price must be non-negative", topping.ID)
		}
		if _, dup := p.toppingsByID[topping.ID]; dup {
			return nil, fmt.Errorf("duplicate topping id %q", topping.ID)
		}
		p.toppingsByID[topping.ID] = topping
	}
	return p, nil
}

// ListProducts returns the products in catalog order.
func (p *provider) ListProducts() []Product {
	out := make([]Product, len(p.products))
	copy(out, p.products)
	return out
}

// ListSizes returns the sizes in catalog order.
func (p *provider) ListSizes() []Size {
	out := make([]Size, len(p.sizes))
	copy(out, p.sizes)
	return out
}

// ListToppings returns the toppings in catalog order.
func (p *provider) ListToppings() []Topping {
	out := make([]Topping, len(p.toppings))
	copy(out, p.toppings)
	return out
}

// FindProduct looks up a product by id.
func (p *provider) FindProduct(id string) (Product, bool) {
	prod, ok := p.productsByID[id]
	return prod, ok
}

// FindSize looks up a size by id. A missing size is not an error; callers
// fall back to the identity multiplier.
func (p *provider) FindSize(id string) (Size, bool) {
	size, ok := p.sizesByID[id]
	return size, ok
}

// FindToppings returns the toppings matching the given ids in input order.
// Unknown ids are silently dropped.
func (p *provider) FindToppings(ids []string) []Topping {
	out := make([]Topping, 0, len(ids))
	for _, id := range ids {
		if topping, ok := p.toppingsByID[id]; ok {
			out = append(out, topping)
		}
	}
	return out
}
