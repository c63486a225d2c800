// internal/models/metadata.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MetadataVersion is stamped on every metadata document written.
// Version 0 documents were written by the storefront before the field set
// was fixed: keywords may be a comma separated string there.
const MetadataVersion = 1

// ProductMetadata holds the product fields that have no column of their own.
type ProductMetadata struct {
	Version         int               `json:"version"`
	StockPerSize    map[string]int    `json:"stockPerSize,omitempty"`
	VideoURL        string            `json:"videoUrl,omitempty"`
	Brand           string            `json:"brand,omitempty"`
	Keywords        []string          `json:"keywords,omitempty"`
	ColorImages     map[string]string `json:"colorImages,omitempty"`
	DeliveryOptions []DeliveryOption  `json:"deliveryOptions,omitempty"`
}

type LocalizedText struct {
	En string `json:"en"`
	Fa string `json:"fa"`
	Ps string `json:"ps"`
}

func (t LocalizedText) In(lang Language) string {
	switch lang {
	case LanguagePersian:
		if t.Fa != "" {
			return t.Fa
		}
	case LanguagePashto:
		if t.Ps != "" {
			return t.Ps
		}
	}
	return t.En
}

type DeliveryOption struct {
	Type              DeliveryType    `json:"type" validate:"delivery_type"`
	Label             LocalizedText   `json:"label"`
	Price             decimal.Decimal `json:"price"`
	DeliveryHours     int             `json:"delivery_hours" validate:"gte=0"`
	ConfidencePercent int             `json:"confidence_percent" validate:"gte=0,lte=100"`
	IsDefault         bool            `json:"is_default"`
	IsActive          bool            `json:"is_active"`
}

func (m ProductMetadata) Value() (driver.Value, error) {
	m.Version = MetadataVersion
	return json.Marshal(m)
}

func (m *ProductMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = ProductMetadata{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", value)
	}

	return json.Unmarshal(data, m)
}

func (m *ProductMetadata) UnmarshalJSON(data []byte) error {
	type plain ProductMetadata
	var doc struct {
		plain
		Keywords json.RawMessage `json:"keywords,omitempty"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid product metadata: %w", err)
	}

	*m = ProductMetadata(doc.plain)
	keywords, err := decodeKeywords(doc.Keywords)
	if err != nil {
		return err
	}
	m.Keywords = keywords
	if m.Version == 0 {
		m.Version = MetadataVersion
	}
	return nil
}

func decodeKeywords(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil, fmt.Errorf("invalid metadata keywords: %w", err)
	}
	for _, k := range strings.Split(joined, ",") {
		if k = strings.TrimSpace(k); k != "" {
			list = append(list, k)
		}
	}
	return list, nil
}
