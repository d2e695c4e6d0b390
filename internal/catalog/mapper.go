package catalog

import (
	"strings"

	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/pkg/db/models"
	dbtypes "github.com/nutritrack/food-catalog/pkg/db/types"
	"github.com/nutritrack/food-catalog/pkg/enums"
)

func toModel(rec *foods.Record) models.Food {
	list := make(dbtypes.PortionList, 0, len(rec.Portions))
	for _, p := range rec.Portions {
		list = append(list, dbtypes.Portion{Name: p.Name, WeightGrams: p.WeightGrams, Multiplier: p.Multiplier})
	}
	return models.Food{
		ID:             rec.ID,
		Name:           rec.Name,
		Brand:          rec.Brand,
		Category:       rec.Category,
		Calories:       rec.Nutrition.Calories,
		Protein:        rec.Nutrition.Protein,
		Carbohydrates:  rec.Nutrition.Carbohydrates,
		Fat:            rec.Nutrition.Fat,
		Fiber:          rec.Nutrition.Fiber,
		Sugar:          rec.Nutrition.Sugar,
		Sodium:         rec.Nutrition.Sodium,
		Portions:       list,
		Barcode:        rec.Barcode,
		Nutriscore:     rec.Nutriscore,
		Source:         string(rec.Source),
		SearchName:     searchKey(rec.Name),
		SearchBrand:    searchKey(deref(rec.Brand)),
		SearchCategory: searchKey(rec.Category),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

// searchKey folds text with Unicode case rules; SQLite LOWER only folds ASCII.
func searchKey(s string) string {
	return strings.ToLower(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fromModel(m models.Food) foods.Record {
	ps := make([]foods.Portion, 0, len(m.Portions))
	for _, p := range m.Portions {
		ps = append(ps, foods.Portion{Name: p.Name, WeightGrams: p.WeightGrams, Multiplier: p.Multiplier})
	}
	return foods.Record{
		ID:       m.ID,
		Name:     m.Name,
		Brand:    m.Brand,
		Category: m.Category,
		Nutrition: foods.Nutrition{
			Calories:      m.Calories,
			Protein:       m.Protein,
			Carbohydrates: m.Carbohydrates,
			Fat:           m.Fat,
			Fiber:         m.Fiber,
			Sugar:         m.Sugar,
			Sodium:        m.Sodium,
		},
		Portions:   ps,
		Barcode:    m.Barcode,
		Nutriscore: m.Nutriscore,
		Source:     enums.Source(m.Source),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func fromModels(rows []models.Food) []foods.Record {
	out := make([]foods.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out
}
