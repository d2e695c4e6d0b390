package foods

import (
	"strings"
	"testing"

	"github.com/nutritrack/food-catalog/pkg/enums"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		Name:      "Pechuga de pollo",
		Category:  "Carnes y Embutidos",
		Nutrition: Nutrition{Calories: 165, Protein: 31, Fat: 3.6, Sodium: 74},
		Portions:  []Portion{NewPortion("unidad (150g)", 150)},
		Source:    enums.SourceManual,
	}
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	fields, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	return fields
}

func TestNewPortionDerivesMultiplier(t *testing.T) {
	p := NewPortion("vaso (250ml)", 250)
	require.Equal(t, 2.5, p.Multiplier)
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	require.NoError(t, validRecord().Validate())
}

func TestValidateReportsEveryViolation(t *testing.T) {
	rec := validRecord()
	rec.Name = "  "
	rec.Category = ""
	rec.Nutrition.Protein = -1
	long := strings.Repeat("x", MaxBarcodeLength+1)
	rec.Barcode = &long

	fields := validationFields(t, rec.Validate())
	require.Equal(t, "is required", fields["name"])
	require.Equal(t, "is required", fields["category"])
	require.Equal(t, "must be non-negative", fields["nutrition.protein"])
	require.Contains(t, fields, "barcode")
}

func TestValidateNameLengthCountsRunes(t *testing.T) {
	rec := validRecord()
	rec.Name = strings.Repeat("ñ", MaxNameLength)
	require.NoError(t, rec.Validate())

	rec.Name = strings.Repeat("ñ", MaxNameLength+1)
	require.Contains(t, validationFields(t, rec.Validate()), "name")
}

func TestValidatePortionInvariants(t *testing.T) {
	rec := validRecord()
	rec.Portions = []Portion{
		{Name: "bad weight", WeightGrams: 0, Multiplier: 0},
		{Name: "bad multiplier", WeightGrams: 150, Multiplier: 1.2},
	}

	fields := validationFields(t, rec.Validate())
	require.Equal(t, "must be positive", fields["portions[0].weight_grams"])
	require.Equal(t, "must equal weight_grams/100", fields["portions[1].multiplier"])
}

func TestValidateRejectsUnknownSource(t *testing.T) {
	rec := validRecord()
	rec.Source = "usda"
	require.Contains(t, validationFields(t, rec.Validate()), "source")
}

func TestEffectivePortions(t *testing.T) {
	rec := validRecord()
	rec.Portions = nil
	require.Equal(t, []Portion{{Name: "100g", WeightGrams: 100, Multiplier: 1}}, rec.EffectivePortions())

	rec.Portions = []Portion{NewPortion("taza (158g)", 158)}
	got := rec.EffectivePortions()
	got[0].Name = "mutated"
	require.Equal(t, "taza (158g)", rec.Portions[0].Name)
}

func TestValidateNutriscore(t *testing.T) {
	rec := validRecord()
	grade := "A"
	rec.Nutriscore = &grade
	require.NoError(t, rec.Validate())

	bad := "F"
	rec.Nutriscore = &bad
	require.Contains(t, validationFields(t, rec.Validate()), "nutriscore")
}
