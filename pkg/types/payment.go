package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Payment captures how a sale was settled, persisted as JSONB on the order.
type Payment struct {
	Method         string          `json:"method"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	Change         decimal.Decimal `json:"change"`
}

// Value marshals the payment into JSON for Postgres.
func (p Payment) Value() (driver.Value, error) {
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the payment.
func (p *Payment) Scan(value interface{}) error {
	if value == nil {
		*p = Payment{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("payment: unsupported scan type %T", value)
	}

	var result Payment
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*p = result
	return nil
}
