package controllers

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutritrack/food-catalog/api/responses"
	"github.com/nutritrack/food-catalog/api/validators"
	"github.com/nutritrack/food-catalog/internal/catalog"
	"github.com/nutritrack/food-catalog/internal/foods"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
	"github.com/nutritrack/food-catalog/pkg/logger"
	"github.com/nutritrack/food-catalog/pkg/pagination"
)

const (
	searchQueryMaxLength = 200
	foodCreatedMessage   = "Alimento creado exitosamente"
)

// FoodsSearch matches name, brand or category.
func FoodsSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		q, err := validators.RequireQuery(r, "q", searchQueryMaxLength)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.SearchDefaultLimit, 1, pagination.SearchMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Search(r.Context(), q, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

func FoodsCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}
		cats, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cats)
	}
}

func FoodsGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}
		food, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, food)
	}
}

// FoodsList pages through the catalog in creation order.
func FoodsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}
		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.ListDefaultLimit, 1, pagination.ListMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAll(r.Context(), skip, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// FoodsCreate stores a manual entry.
func FoodsCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "food service unavailable"))
			return
		}

		var payload createFoodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, createFoodResponse{ID: id, Message: foodCreatedMessage})
	}
}

type createFoodResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type nutritionRequest struct {
	Calories      *float64 `json:"calories" validate:"required,gte=0"`
	Protein       *float64 `json:"protein" validate:"required,gte=0"`
	Carbohydrates *float64 `json:"carbohydrates" validate:"required,gte=0"`
	Fat           *float64 `json:"fat" validate:"required,gte=0"`
	Fiber         float64  `json:"fiber" validate:"gte=0"`
	Sugar         float64  `json:"sugar" validate:"gte=0"`
	Sodium        float64  `json:"sodium" validate:"gte=0"`
}

type portionRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	WeightGrams float64  `json:"weight_grams" validate:"gt=0"`
	Multiplier  *float64 `json:"multiplier,omitempty" validate:"omitempty,gt=0"`
}

type createFoodRequest struct {
	Name       string           `json:"name" validate:"required,max=200"`
	Brand      *string          `json:"brand,omitempty" validate:"omitempty,max=100"`
	Category   string           `json:"category" validate:"required,max=100"`
	Nutrition  nutritionRequest `json:"nutritional_info_per_100g"`
	Portions   []portionRequest `json:"portions,omitempty" validate:"omitempty,dive"`
	Barcode    *string          `json:"barcode,omitempty" validate:"omitempty,max=20"`
	Nutriscore *string          `json:"nutriscore,omitempty" validate:"omitempty,oneof=A B C D E a b c d e"`
	Source     string           `json:"source,omitempty"`
}

// toInput derives multipliers that were left out. A multiplier that was sent
// is kept as-is so the record validation can reject a mismatch.
func (p createFoodRequest) toInput() catalog.CreateFoodInput {
	portions := make([]foods.Portion, 0, len(p.Portions))
	for _, pr := range p.Portions {
		portion := foods.NewPortion(pr.Name, pr.WeightGrams)
		if pr.Multiplier != nil {
			portion.Multiplier = *pr.Multiplier
		}
		portions = append(portions, portion)
	}
	return catalog.CreateFoodInput{
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Nutrition: foods.Nutrition{
			Calories:      deref(p.Nutrition.Calories),
			Protein:       deref(p.Nutrition.Protein),
			Carbohydrates: deref(p.Nutrition.Carbohydrates),
			Fat:           deref(p.Nutrition.Fat),
			Fiber:         p.Nutrition.Fiber,
			Sugar:         p.Nutrition.Sugar,
			Sodium:        p.Nutrition.Sodium,
		},
		Portions:   portions,
		Barcode:    p.Barcode,
		Nutriscore: p.Nutriscore,
		Source:     p.Source,
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
