package cart

import (
	"testing"

	"github.com/granizoapp/granizo-backend/internal/catalog"
	"github.com/granizoapp/granizo-backend/pkg/enums"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	fresa := mustProduct(t, catalog.Default(), "granizado-fresa")
	line := engine.AddItem(fresa, "large", []string{"fruit"}, false)
	engine.UpdateQuantity(line.ID, 1)
	if err := engine.SetDiscount(dec("10")); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	payload, err := engine.EncodeSnapshot()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	restored := newTestEngine(t)
	if err := restored.RestoreSnapshot(payload); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.Total().Equal(dec("9.63")) {
		t.Fatalf("expected restored total 9.63, got %s", restored.Total())
	}
	if len(restored.Lines()) != 1 || restored.Lines()[0].Quantity != 2 {
		t.Fatalf("unexpected restored lines: %+v", restored.Lines())
	}
}

func TestRestoreDropsCorruptLines(t *testing.T) {
	t.Parallel()

	payload := `{
		"lines": [
			{"id": "ok", "product_id": "p", "name": "Keeper", "unit_price": "2.5", "quantity": 1},
			{"id": "bad-price", "name": "corrupt", "unit_price": "NaN", "quantity": 1},
			{"id": "no-price", "name": "corrupt", "quantity": 1},
			{"id": "bad-qty", "name": "corrupt", "unit_price": "1", "quantity": "two"},
			{"id": "neg-qty", "name": "corrupt", "unit_price": "1", "quantity": -3},
			{"id": "ok-2", "product_id": "p", "name": "Keeper 2", "unit_price": 3, "quantity": 2,
				"toppings": [
					{"name": "Fruta Extra", "price": "0.8"},
					{"name": "", "price": "0.5"},
					{"name": "bad", "price": "oops"}
				]}
		],
		"discount_value": "-4",
		"discount_mode": "mystery"
	}`

	engine := newTestEngine(t)
	if err := engine.RestoreSnapshot(payload); err != nil {
		t.Fatalf("restore: %v", err)
	}

	lines := engine.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 surviving lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].ID != "ok" || lines[1].ID != "ok-2" {
		t.Fatalf("unexpected survivors: %+v", lines)
	}
	if len(lines[1].Toppings) != 1 {
		t.Fatalf("expected 1 surviving topping, got %+v", lines[1].Toppings)
	}

	// corrupt discount inputs reset to safe defaults
	if !engine.DiscountValue().IsZero() {
		t.Fatalf("negative discount should reset to zero, got %s", engine.DiscountValue())
	}
	if engine.DiscountMode() != enums.DiscountModePercent {
		t.Fatalf("unknown mode should fall back to percent, got %s", engine.DiscountMode())
	}
}

func TestRestoreRejectsNonObjectPayload(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	if err := engine.RestoreSnapshot("not json"); err == nil {
		t.Fatal("expected decode error")
	}
}
