package enums

// CheckoutStage tracks where a terminal's sale sits in the checkout flow.
type CheckoutStage string

const (
	CheckoutStageEditing         CheckoutStage = "editing"
	CheckoutStageAwaitingPayment CheckoutStage = "awaiting_payment"
	CheckoutStageConfirmed       CheckoutStage = "confirmed"
)

var validCheckoutStages = []CheckoutStage{
	CheckoutStageEditing,
	CheckoutStageAwaitingPayment,
	CheckoutStageConfirmed,
}

// String implements fmt.Stringer.
func (c CheckoutStage) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStage.
func (c CheckoutStage) IsValid() bool {
	for _, candidate := range validCheckoutStages {
		if candidate == c {
			return true
		}
	}
	return false
}
