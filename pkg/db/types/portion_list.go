package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Portion is the column shape of one serving size.
type Portion struct {
	Name        string  `json:"name"`
	WeightGrams float64 `json:"weight_grams"`
	Multiplier  float64 `json:"multiplier"`
}

// PortionList persists serving sizes as a JSON array in a text column.
type PortionList []Portion

func (p *PortionList) Scan(src any) error {
	if src == nil {
		*p = PortionList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return p.parse([]byte(v))
	case []byte:
		return p.parse(v)
	default:
		return fmt.Errorf("PortionList: unsupported Scan type %T", src)
	}
}

func (p PortionList) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]Portion(p))
	if err != nil {
		return nil, fmt.Errorf("PortionList: encode: %w", err)
	}
	return string(raw), nil
}

func (p *PortionList) parse(raw []byte) error {
	if strings.TrimSpace(string(raw)) == "" {
		*p = PortionList{}
		return nil
	}
	var out []Portion
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("PortionList: decode: %w", err)
	}
	if out == nil {
		out = []Portion{}
	}
	*p = out
	return nil
}
