package catalog

import (
	"time"

	"github.com/nutritrack/food-catalog/internal/foods"
)

// PortionDTO is a serving size as exposed over the API.
type PortionDTO struct {
	Name        string  `json:"name"`
	WeightGrams float64 `json:"weight_grams"`
	Multiplier  float64 `json:"multiplier"`
}

// NutritionDTO holds the full per-100 g nutrient panel.
type NutritionDTO struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
}

// FoodDTO represents a full catalog record returned to clients.
type FoodDTO struct {
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Brand                  *string      `json:"brand"`
	Category               string       `json:"category"`
	NutritionalInfoPer100g NutritionDTO `json:"nutritional_info_per_100g"`
	Portions               []PortionDTO `json:"portions"`
	Barcode                *string      `json:"barcode,omitempty"`
	Nutriscore             *string      `json:"nutriscore,omitempty"`
	Source                 string       `json:"source"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// FoodSummary is the flat search projection; fiber, sugar and sodium are omitted.
type FoodSummary struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Brand           *string      `json:"brand"`
	Category        string       `json:"category"`
	CaloriesPer100g float64      `json:"calories_per_100g"`
	ProteinPer100g  float64      `json:"protein_per_100g"`
	CarbsPer100g    float64      `json:"carbs_per_100g"`
	FatPer100g      float64      `json:"fat_per_100g"`
	Portions        []PortionDTO `json:"portions"`
}

// CreateFoodInput is the validated payload for a manual entry.
type CreateFoodInput struct {
	Name       string
	Brand      *string
	Category   string
	Nutrition  foods.Nutrition
	Portions   []foods.Portion
	Barcode    *string
	Nutriscore *string
	Source     string
}

func portionDTOs(ps []foods.Portion) []PortionDTO {
	out := make([]PortionDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, PortionDTO(p))
	}
	return out
}

// NewFoodDTO projects a record for detail and listing responses.
func NewFoodDTO(rec foods.Record) FoodDTO {
	return FoodDTO{
		ID:                     rec.ID,
		Name:                   rec.Name,
		Brand:                  rec.Brand,
		Category:               rec.Category,
		NutritionalInfoPer100g: NutritionDTO(rec.Nutrition),
		Portions:               portionDTOs(rec.EffectivePortions()),
		Barcode:                rec.Barcode,
		Nutriscore:             rec.Nutriscore,
		Source:                 string(rec.Source),
		CreatedAt:              rec.CreatedAt,
		UpdatedAt:              rec.UpdatedAt,
	}
}

// NewFoodSummary projects a record for search responses.
func NewFoodSummary(rec foods.Record) FoodSummary {
	return FoodSummary{
		ID:              rec.ID,
		Name:            rec.Name,
		Brand:           rec.Brand,
		Category:        rec.Category,
		CaloriesPer100g: rec.Nutrition.Calories,
		ProteinPer100g:  rec.Nutrition.Protein,
		CarbsPer100g:    rec.Nutrition.Carbohydrates,
		FatPer100g:      rec.Nutrition.Fat,
		Portions:        portionDTOs(rec.EffectivePortions()),
	}
}
