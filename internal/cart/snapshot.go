package cart

import (
	"encoding/json"
	"fmt"

	"github.com/granizoapp/granizo-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Snapshot is the serialized form of a cart for session persistence.
type Snapshot struct {
	Lines         []Line          `json:"lines"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	DiscountMode  string          `json:"discount_mode"`
}

// Snapshot captures the current cart state for persistence.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Lines:         e.Lines(),
		DiscountValue: e.discountValue,
		DiscountMode:  e.discountMode.String(),
	}
}

// EncodeSnapshot serializes the current cart state.
func (e *Engine) EncodeSnapshot() (string, error) {
	payload, err := json.Marshal(e.Snapshot())
	if err != nil {
		return "", fmt.Errorf("encode cart snapshot: %w", err)
	}
	return string(payload), nil
}

// RestoreSnapshot replaces the cart state from a serialized snapshot.
// Malformed lines and toppings inside the payload are dropped rather than
// failing the restore; the cleanup pass runs on whatever survives. Only a
// payload that is not a JSON object at all is an error.
func (e *Engine) RestoreSnapshot(payload string) error {
	var raw struct {
		Lines         []json.RawMessage `json:"lines"`
		DiscountValue decimal.Decimal   `json:"discount_value"`
		DiscountMode  string            `json:"discount_mode"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return fmt.Errorf("decode cart snapshot: %w", err)
	}

	lines := make([]Line, 0, len(raw.Lines))
	for _, rawLine := range raw.Lines {
		line, ok := decodeLine(rawLine)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}

	mode, err := enums.ParseDiscountMode(raw.DiscountMode)
	if err != nil {
		mode = enums.DiscountModePercent
	}
	value := raw.DiscountValue
	if value.IsNegative() {
		value = decimal.Zero
	}

	e.lines = lines
	e.discountValue = value
	e.discountMode = mode
	e.cleanup()
	return nil
}

func decodeLine(raw json.RawMessage) (Line, bool) {
	var loose struct {
		ID        string            `json:"id"`
		ProductID string            `json:"product_id"`
		Name      string            `json:"name"`
		UnitPrice json.RawMessage   `json:"unit_price"`
		Quantity  json.RawMessage   `json:"quantity"`
		Size      string            `json:"size"`
		Toppings  []json.RawMessage `json:"toppings"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return Line{}, false
	}

	var price decimal.Decimal
	if err := json.Unmarshal(loose.UnitPrice, &price); err != nil {
		return Line{}, false
	}
	var quantity int
	if err := json.Unmarshal(loose.Quantity, &quantity); err != nil {
		return Line{}, false
	}

	line := Line{
		ID:        loose.ID,
		ProductID: loose.ProductID,
		Name:      loose.Name,
		UnitPrice: price,
		Quantity:  quantity,
		Size:      loose.Size,
	}
	for _, rawTopping := range loose.Toppings {
		var topping ToppingSnapshot
		if err := json.Unmarshal(rawTopping, &topping); err != nil {
			continue
		}
		line.Toppings = append(line.Toppings, topping)
	}
	return line, true
}
