package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nutritrack/food-catalog/internal/categories"
	"github.com/nutritrack/food-catalog/internal/transform"
	"github.com/nutritrack/food-catalog/pkg/enums"
)

func TestLoadSamples(t *testing.T) {
	samples, err := LoadSamples()
	require.NoError(t, err)
	require.Len(t, samples, 54)
	require.Equal(t, "Pechuga de pollo", samples[0].String("name", ""))
	require.Equal(t, "Mantequilla", samples[53].String("name", ""))
}

func TestSampleMapperMapsEverySample(t *testing.T) {
	samples, err := LoadSamples()
	require.NoError(t, err)

	mapper := NewSampleMapper()
	mapper.Now = func() time.Time { return fixedNow }
	for _, raw := range samples {
		rec, err := mapper.Transform(raw)
		require.NoError(t, err, raw.String("name", ""))
		require.Equal(t, enums.SourceManual, rec.Source)
		require.NotEmpty(t, rec.Portions)
		require.Equal(t, fixedNow, rec.CreatedAt)
		require.True(t, categories.IsKnown(rec.Category), "%s: %s", rec.Name, rec.Category)
	}
}

func TestSampleMapperFields(t *testing.T) {
	samples, err := LoadSamples()
	require.NoError(t, err)

	rec, err := NewSampleMapper().Transform(samples[10])
	require.NoError(t, err)
	require.Equal(t, "Leche entera", rec.Name)
	require.Equal(t, "Lácteos", rec.Category)
	require.Nil(t, rec.Brand)
	require.Equal(t, 61.0, rec.Nutrition.Calories)
	require.Equal(t, 3.3, rec.Nutrition.Fat)
	require.Equal(t, 43.0, rec.Nutrition.Sodium)
	require.Len(t, rec.Portions, 3)
	require.Equal(t, "vaso (250ml)", rec.Portions[0].Name)
	require.Equal(t, 2.5, rec.Portions[0].Multiplier)
}

func TestSampleMapperNormalizesCategory(t *testing.T) {
	mapper := NewSampleMapper()
	base := func(category string) transform.RawRecord {
		return transform.RawRecord{
			"name":                      "Pechuga de pollo",
			"category":                  category,
			"nutritional_info_per_100g": map[string]any{"calories": 165, "protein": 31, "carbohydrates": 0, "fat": 3.6},
		}
	}

	for raw, want := range map[string]string{
		"Carnes y Embutidos": categories.Meat,
		"Carnes":             categories.Meat,
		" Cereales ":         categories.Grains,
		"Frutos secos":       categories.Nuts,
		"":                   categories.Other,
		"Varios":             categories.Other,
	} {
		rec, err := mapper.Transform(base(raw))
		require.NoError(t, err, raw)
		require.Equal(t, want, rec.Category, raw)
	}
}

func TestSampleMapperRejects(t *testing.T) {
	mapper := NewSampleMapper()

	_, err := mapper.Transform(transform.RawRecord{"category": "Frutas"})
	require.ErrorIs(t, err, transform.ErrRejected)
	require.Equal(t, transform.ReasonName, transform.ReasonOf(err))

	_, err = mapper.Transform(transform.RawRecord{"name": "Pera", "nutritional_info_per_100g": map[string]any{"calories": 57}})
	require.Equal(t, transform.ReasonInvalid, transform.ReasonOf(err))
}

func TestDecodeSamplesRejectsMalformedYAML(t *testing.T) {
	_, err := decodeSamples([]byte("name: [unclosed"))
	require.Error(t, err)
}

func TestStaticFetcher(t *testing.T) {
	fetcher, err := NewStaticFetcher(rawProducts(
		offProduct("Yogur natural", "yogures"),
		offProduct("No", "yogures"),
		offProduct("Queso fresco", "quesos"),
	))
	require.NoError(t, err)

	res, err := fetcher.Fetch(context.Background(), Gate(offTransformer().Check), 0)
	require.NoError(t, err)
	require.Len(t, res.Raw, 2)
	require.Equal(t, 3, res.Fetched)
	require.Equal(t, 1, res.GateRejected)

	res, err = fetcher.Fetch(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, res.Raw, 1)
}

func TestStaticFetcherDefaultsToSamples(t *testing.T) {
	fetcher, err := NewStaticFetcher(nil)
	require.NoError(t, err)

	res, err := fetcher.Fetch(context.Background(), nil, 0)
	require.NoError(t, err)
	require.Len(t, res.Raw, 54)
}
