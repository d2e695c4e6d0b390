package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/pkg/db"
	"github.com/nutritrack/food-catalog/pkg/enums"
	"github.com/nutritrack/food-catalog/pkg/migrate"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Up(context.Background(), sqlDB, "sqlite"))
	return conn
}

func strPtr(s string) *string {
	return &s
}

var baseTime = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func testRecord(name, category string, source enums.Source, minute int) foods.Record {
	created := baseTime.Add(time.Duration(minute) * time.Minute)
	return foods.Record{
		Name:      name,
		Category:  category,
		Nutrition: foods.Nutrition{Calories: 100, Protein: 10, Carbohydrates: 5, Fat: 2, Fiber: 1, Sugar: 1, Sodium: 50},
		Portions:  []foods.Portion{foods.BaselinePortion(), foods.NewPortion("porción (150g)", 150)},
		Source:    source,
		CreatedAt: created,
		UpdatedAt: created,
	}
}
