// Package transform turns loosely-typed feed products into catalog records.
package transform

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/nutritrack/food-catalog/internal/categories"
	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/internal/portions"
	"github.com/nutritrack/food-catalog/pkg/enums"
)

// ErrRejected marks a raw product that did not make it into the catalog.
var ErrRejected = errors.New("record rejected")

type Reason string

const (
	ReasonName    Reason = "name"
	ReasonEnergy  Reason = "energy"
	ReasonMacros  Reason = "macros"
	ReasonInvalid Reason = "invalid"
	ReasonPanic   Reason = "panic"
)

// RejectError explains why a product was dropped. It matches ErrRejected.
type RejectError struct {
	Reason Reason
	Detail string
}

func (e *RejectError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrRejected, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrRejected, e.Reason, e.Detail)
}

func (e *RejectError) Is(target error) bool {
	return target == ErrRejected
}

// ReasonOf extracts the rejection reason, or "" when err is not a rejection.
func ReasonOf(err error) Reason {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

func reject(reason Reason, format string, args ...any) error {
	return &RejectError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

const (
	minNameLength = 3
	kjPerKcal     = 4.184
	gramsToMg     = 1000
)

// Feed field names.
const (
	fieldName       = "product_name"
	fieldBrands     = "brands"
	fieldCategories = "categories"
	fieldCode       = "code"
	fieldNutriscore = "nutriscore_grade"
	fieldNutriments = "nutriments"

	fieldKcal     = "energy-kcal_100g"
	fieldProteins = "proteins_100g"
	fieldCarbs    = "carbohydrates_100g"
	fieldFat      = "fat_100g"
	fieldFiber    = "fiber_100g"
	fieldSugars   = "sugars_100g"
	fieldSodium   = "sodium_100g"
)

// kJ-denominated energy fields in lookup order.
var kilojouleFields = []string{"energy-kj_100g", "energy_kj_100g", "energy_100g"}

var macroFields = []string{fieldProteins, fieldCarbs, fieldFat}

// Transformer maps products of a single feed. Source is stamped on every record.
type Transformer struct {
	Source enums.Source
	Now    func() time.Time
}

func New(source enums.Source) *Transformer {
	return &Transformer{Source: source, Now: time.Now}
}

// Check is the quality gate applied before any mapping happens.
func (t *Transformer) Check(raw RawRecord) error {
	name := strings.TrimSpace(raw.String(fieldName, ""))
	if utf8.RuneCountInString(name) < minNameLength {
		return reject(ReasonName, "product name %q shorter than %d characters", name, minNameLength)
	}

	n := nutriments(raw)
	if _, ok := energyKcal(n); !ok {
		return reject(ReasonEnergy, "no energy value")
	}

	for _, key := range macroFields {
		if n.Has(key) {
			return nil
		}
	}
	return reject(ReasonMacros, "none of protein, carbohydrate or fat present")
}

// Transform gates and maps one product. Every failure, including a panic
// while mapping, comes back as a rejection and never affects other products.
func (t *Transformer) Transform(raw RawRecord) (rec *foods.Record, err error) {
	if err := t.Check(raw); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = reject(ReasonPanic, "%v", r)
		}
	}()

	n := nutriments(raw)
	calories, _ := energyKcal(n)
	name := strings.TrimSpace(raw.String(fieldName, ""))
	now := t.now()

	rec = &foods.Record{
		Name:     name,
		Brand:    optional(raw.String(fieldBrands, "")),
		Category: categories.Classify(raw.String(fieldCategories, "")),
		Nutrition: foods.Nutrition{
			Calories:      round1(calories),
			Protein:       round1(n.FloatOr(fieldProteins, 0)),
			Carbohydrates: round1(n.FloatOr(fieldCarbs, 0)),
			Fat:           round1(n.FloatOr(fieldFat, 0)),
			Fiber:         round1(n.FloatOr(fieldFiber, 0)),
			Sugar:         round1(n.FloatOr(fieldSugars, 0)),
			Sodium:        round1(n.FloatOr(fieldSodium, 0) * gramsToMg),
		},
		Portions:   portions.Infer(name),
		Barcode:    optional(raw.String(fieldCode, "")),
		Nutriscore: nutriscore(raw.String(fieldNutriscore, "")),
		Source:     t.Source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if verr := rec.Validate(); verr != nil {
		return nil, reject(ReasonInvalid, "%v", verr)
	}
	return rec, nil
}

func (t *Transformer) now() time.Time {
	if t.Now == nil {
		return time.Now().UTC()
	}
	return t.Now().UTC()
}

// nutriments prefers the nested "nutriments" object and falls back to
// top-level keys for flattened exports.
func nutriments(raw RawRecord) RawRecord {
	nested := raw.Nested(fieldNutriments)
	if len(nested) > 0 {
		return nested
	}
	return raw
}

func energyKcal(n RawRecord) (float64, bool) {
	if kcal, ok := n.Float(fieldKcal); ok {
		return kcal, true
	}
	for _, key := range kilojouleFields {
		if kj, ok := n.Float(key); ok {
			return kj / kjPerKcal, true
		}
	}
	return 0, false
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func nutriscore(grade string) *string {
	grade = strings.ToUpper(strings.TrimSpace(grade))
	switch grade {
	case "A", "B", "C", "D", "E":
		return &grade
	default:
		return nil
	}
}
