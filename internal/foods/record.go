package foods

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nutritrack/food-catalog/pkg/enums"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
)

const (
	MaxNameLength     = 200
	MaxBrandLength    = 100
	MaxCategoryLength = 100
	MaxBarcodeLength  = 20

	// BaselinePortionName labels the reference serving every value is expressed against.
	BaselinePortionName = "100g"
	baselineGrams       = 100.0

	multiplierTolerance = 1e-9
)

// Nutrition holds per-100 g values. Sodium is in milligrams, the rest in grams or kcal.
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
}

// Portion is a named serving size; Multiplier is always WeightGrams/100.
type Portion struct {
	Name        string  `json:"name"`
	WeightGrams float64 `json:"weight_grams"`
	Multiplier  float64 `json:"multiplier"`
}

// NewPortion derives the multiplier from the serving weight.
func NewPortion(name string, grams float64) Portion {
	return Portion{Name: name, WeightGrams: grams, Multiplier: grams / baselineGrams}
}

// BaselinePortion is the implied 100 g serving.
func BaselinePortion() Portion {
	return NewPortion(BaselinePortionName, baselineGrams)
}

// Record is one catalog entry.
type Record struct {
	ID         string
	Name       string
	Brand      *string
	Category   string
	Nutrition  Nutrition
	Portions   []Portion
	Barcode    *string
	Source     enums.Source
	Nutriscore *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectivePortions returns the stored portions or the 100 g baseline when none are set.
func (r Record) EffectivePortions() []Portion {
	if len(r.Portions) == 0 {
		return []Portion{BaselinePortion()}
	}
	out := make([]Portion, len(r.Portions))
	copy(out, r.Portions)
	return out
}

// Validate checks every field-level invariant and reports all violations at once.
func (r Record) Validate() error {
	fields := map[string]string{}

	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		fields["name"] = "is required"
	case utf8.RuneCountInString(r.Name) > MaxNameLength:
		fields["name"] = fmt.Sprintf("must be at most %d characters", MaxNameLength)
	}

	if r.Brand != nil && utf8.RuneCountInString(*r.Brand) > MaxBrandLength {
		fields["brand"] = fmt.Sprintf("must be at most %d characters", MaxBrandLength)
	}

	category := strings.TrimSpace(r.Category)
	switch {
	case category == "":
		fields["category"] = "is required"
	case utf8.RuneCountInString(r.Category) > MaxCategoryLength:
		fields["category"] = fmt.Sprintf("must be at most %d characters", MaxCategoryLength)
	}

	if r.Barcode != nil && utf8.RuneCountInString(*r.Barcode) > MaxBarcodeLength {
		fields["barcode"] = fmt.Sprintf("must be at most %d characters", MaxBarcodeLength)
	}

	if r.Nutriscore != nil && !validNutriscore(*r.Nutriscore) {
		fields["nutriscore"] = "must be one of A, B, C, D, E"
	}

	if r.Source != "" && !r.Source.IsValid() {
		fields["source"] = fmt.Sprintf("unknown source %q", r.Source)
	}

	for key, value := range r.Nutrition.fields() {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			fields["nutrition."+key] = "must be a finite number"
		} else if value < 0 {
			fields["nutrition."+key] = "must be non-negative"
		}
	}

	for i, p := range r.Portions {
		key := fmt.Sprintf("portions[%d]", i)
		switch {
		case strings.TrimSpace(p.Name) == "":
			fields[key+".name"] = "is required"
		case p.WeightGrams <= 0 || math.IsNaN(p.WeightGrams):
			fields[key+".weight_grams"] = "must be positive"
		case p.Multiplier <= 0 || math.IsNaN(p.Multiplier):
			fields[key+".multiplier"] = "must be positive"
		case math.Abs(p.Multiplier-p.WeightGrams/baselineGrams) > multiplierTolerance:
			fields[key+".multiplier"] = "must equal weight_grams/100"
		}
	}

	if len(fields) > 0 {
		return pkgerrors.Validation("invalid food record", fields)
	}
	return nil
}

func validNutriscore(grade string) bool {
	switch grade {
	case "A", "B", "C", "D", "E":
		return true
	}
	return false
}

func (n Nutrition) fields() map[string]float64 {
	return map[string]float64{
		"calories":      n.Calories,
		"protein":       n.Protein,
		"carbohydrates": n.Carbohydrates,
		"fat":           n.Fat,
		"fiber":         n.Fiber,
		"sugar":         n.Sugar,
		"sodium":        n.Sodium,
	}
}
