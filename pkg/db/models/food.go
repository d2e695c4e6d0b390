package models

import (
	"time"

	dbtypes "github.com/nutritrack/food-catalog/pkg/db/types"
)

// Food is the relational row for one catalog record.
type Food struct {
	ID             string              `gorm:"column:id;type:varchar(36);primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	Brand          *string             `gorm:"column:brand"`
	Category       string              `gorm:"column:category;not null"`
	Calories       float64             `gorm:"column:calories;not null"`
	Protein        float64             `gorm:"column:protein;not null"`
	Carbohydrates  float64             `gorm:"column:carbohydrates;not null"`
	Fat            float64             `gorm:"column:fat;not null"`
	Fiber          float64             `gorm:"column:fiber;not null;default:0"`
	Sugar          float64             `gorm:"column:sugar;not null;default:0"`
	Sodium         float64             `gorm:"column:sodium;not null;default:0"`
	Portions       dbtypes.PortionList `gorm:"column:portions;type:text;not null"`
	Barcode        *string             `gorm:"column:barcode"`
	Nutriscore     *string             `gorm:"column:nutriscore"`
	Source         string              `gorm:"column:source;not null"`
	SearchName     string              `gorm:"column:search_name;not null;default:''"`
	SearchBrand    string              `gorm:"column:search_brand;not null;default:''"`
	SearchCategory string              `gorm:"column:search_category;not null;default:''"`
	CreatedAt      time.Time           `gorm:"column:created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at"`
}

func (Food) TableName() string {
	return "foods"
}
