package enums

import "fmt"

// DiscountMode selects how the cart-level discount value is interpreted.
type DiscountMode string

const (
	DiscountModePercent DiscountMode = "percent"
	DiscountModeFixed   DiscountMode = "fixed"
)

var validDiscountModes = []DiscountMode{
	DiscountModePercent,
	DiscountModeFixed,
}

// String implements fmt.Stringer.
func (d DiscountMode) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountMode.
func (d DiscountMode) IsValid() bool {
	for _, candidate := range validDiscountModes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountMode converts raw input into a DiscountMode.
func ParseDiscountMode(value string) (DiscountMode, error) {
	for _, candidate := range validDiscountModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount mode %q", value)
}
