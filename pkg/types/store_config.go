package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ReceiptTemplate holds the printable receipt layout for a store.
type ReceiptTemplate struct {
	HeaderText   string `json:"header_text,omitempty"`
	FooterText   string `json:"footer_text,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	PaperWidthMM int    `json:"paper_width_mm,omitempty"`
	ShowTaxLine  bool   `json:"show_tax_line,omitempty"`
}

// Branding holds the per-store presentation settings.
type Branding struct {
	BusinessName string `json:"business_name,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"`
}

// StoreConfig is the typed shape of the store's JSONB config column. The
// column used to be a free-form blob; every known field is enumerated here
// and validated at the API boundary.
type StoreConfig struct {
	Branding Branding        `json:"branding,omitempty"`
	Receipt  ReceiptTemplate `json:"receipt,omitempty"`
}

// Value marshals the config into JSON for Postgres.
func (c StoreConfig) Value() (driver.Value, error) {
	buf, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the config.
func (c *StoreConfig) Scan(value interface{}) error {
	if value == nil {
		*c = StoreConfig{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("store config: unsupported scan type %T", value)
	}

	var result StoreConfig
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*c = result
	return nil
}
