package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/pkg/enums"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
)

type failingStore struct {
	Store
	err error
}

func (f failingStore) Search(context.Context, string, int) ([]foods.Record, error) {
	return nil, f.err
}

func (f failingStore) DistinctCategories(context.Context) ([]string, error) {
	return nil, f.err
}

type recordingStore struct {
	Store
	searchLimit int
	skip, limit int
	categories  []string
}

func (r *recordingStore) Search(_ context.Context, _ string, limit int) ([]foods.Record, error) {
	r.searchLimit = limit
	return nil, nil
}

func (r *recordingStore) ListAll(_ context.Context, skip, limit int) ([]foods.Record, error) {
	r.skip, r.limit = skip, limit
	return nil, nil
}

func (r *recordingStore) DistinctCategories(context.Context) ([]string, error) {
	return r.categories, nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store: NewRepository(openTestDB(t)),
		Now:   func() time.Time { return baseTime },
	})
	require.NoError(t, err)
	return svc
}

func validInput() CreateFoodInput {
	return CreateFoodInput{
		Name:      " Huevo cocido ",
		Category:  "Huevos",
		Nutrition: foods.Nutrition{Calories: 155, Protein: 13, Carbohydrates: 1.1, Fat: 11, Sugar: 1.1, Sodium: 124},
		Portions:  []foods.Portion{foods.NewPortion("unidad (50g)", 50)},
	}
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestServiceCreateThenGetRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := validInput()
	input.Nutriscore = strPtr("b")
	id, err := svc.Create(ctx, input)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Huevo cocido", got.Name)
	assert.Nil(t, got.Brand)
	assert.Equal(t, "Huevos", got.Category)
	assert.Equal(t, NutritionDTO(input.Nutrition), got.NutritionalInfoPer100g)
	assert.Equal(t, []PortionDTO{{Name: "unidad (50g)", WeightGrams: 50, Multiplier: 0.5}}, got.Portions)
	assert.Equal(t, "manual", got.Source)
	require.NotNil(t, got.Nutriscore)
	assert.Equal(t, "B", *got.Nutriscore)
	assert.True(t, baseTime.Equal(got.CreatedAt))
	assert.True(t, baseTime.Equal(got.UpdatedAt))
}

func TestServiceCreateKeepsExplicitSource(t *testing.T) {
	svc := newTestService(t)
	input := validInput()
	input.Source = "openfoodfacts"

	id, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	got, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "openfoodfacts", got.Source)
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(t)

	input := validInput()
	input.Nutrition.Fat = -1
	_, err := svc.Create(context.Background(), input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input = validInput()
	input.Source = "usda"
	_, err = svc.Create(context.Background(), input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input = validInput()
	input.Portions = []foods.Portion{{Name: "taza", WeightGrams: 200, Multiplier: 1}}
	_, err = svc.Create(context.Background(), input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc := newTestService(t)

	for _, id := range []string{"garbage", "6a1b0b1e-3c5e-4a59-8d0e-2b9d6b1f0c00"} {
		_, err := svc.GetByID(context.Background(), id)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), id)
	}
}

func TestServiceSearchProjectsSummaries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateFoodInput{
		Name:      "Pechuga de pollo",
		Category:  "Carnes y Embutidos",
		Nutrition: foods.Nutrition{Calories: 165, Protein: 31, Fat: 3.6, Sodium: 74},
	})
	require.NoError(t, err)

	got, err := svc.Search(ctx, "  POLLO ", 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pechuga de pollo", got[0].Name)
	assert.Equal(t, 165.0, got[0].CaloriesPer100g)
	assert.Equal(t, 31.0, got[0].ProteinPer100g)
	assert.Equal(t, 0.0, got[0].CarbsPer100g)
	assert.Equal(t, 3.6, got[0].FatPer100g)
	assert.Equal(t, []PortionDTO{{Name: "100g", WeightGrams: 100, Multiplier: 1}}, got[0].Portions)

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "name", "brand", "category", "calories_per_100g", "protein_per_100g", "carbs_per_100g", "fat_per_100g", "portions"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "nutritional_info_per_100g")
	assert.NotContains(t, fields, "sodium_per_100g")
}

func TestServiceGetImpliesBaselinePortion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := validInput()
	input.Portions = nil
	id, err := svc.Create(ctx, input)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []PortionDTO{{Name: "100g", WeightGrams: 100, Multiplier: 1}}, got.Portions)
}

func TestServiceSearchRejectsBlankQuery(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Search(context.Background(), "   ", 20)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceClampsPagination(t *testing.T) {
	store := &recordingStore{}
	svc, err := NewService(ServiceParams{Store: store})
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "x", 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, store.searchLimit)

	_, err = svc.ListAll(context.Background(), -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, store.skip)
	assert.Equal(t, 1, store.limit)

	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func TestServicePropagatesStoreUnavailable(t *testing.T) {
	storeErr := unavailable(errors.New("connection refused"), "search")
	svc, err := NewService(ServiceParams{Store: failingStore{err: storeErr}})
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "pollo", 10)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = svc.ListCategories(context.Background())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestServiceListAllReturnsFullRecords(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"Manzana", "Pera", "Plátano", "Naranja"} {
		input := validInput()
		input.Name = name
		input.Category = "Frutas"
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	page, err := svc.ListAll(ctx, 0, 500)
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, enums.SourceManual.String(), page[0].Source)
	assert.Equal(t, 124.0, page[0].NutritionalInfoPer100g.Sodium)
}
