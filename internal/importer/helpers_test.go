package importer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/nutritrack/food-catalog/internal/catalog"
	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/internal/transform"
	"github.com/nutritrack/food-catalog/pkg/db"
	"github.com/nutritrack/food-catalog/pkg/enums"
	"github.com/nutritrack/food-catalog/pkg/migrate"
)

var fixedNow = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *catalog.Repository {
	t.Helper()

	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Up(context.Background(), sqlDB, "sqlite"))
	return catalog.NewRepository(conn)
}

func seed(t *testing.T, store catalog.Store, source enums.Source, names ...string) {
	t.Helper()
	recs := make([]foods.Record, 0, len(names))
	for _, name := range names {
		recs = append(recs, foods.Record{
			Name:      name,
			Category:  "Otros",
			Nutrition: foods.Nutrition{Calories: 100, Protein: 1},
			Portions:  []foods.Portion{foods.BaselinePortion()},
			Source:    source,
			CreatedAt: fixedNow,
			UpdatedAt: fixedNow,
		})
	}
	_, err := store.InsertMany(context.Background(), recs)
	require.NoError(t, err)
}

func offProduct(name, categories string) map[string]any {
	return map[string]any{
		"product_name": name,
		"brands":       "Marca",
		"categories":   categories,
		"nutriments": map[string]any{
			"energy-kcal_100g":   120.0,
			"proteins_100g":      4.5,
			"carbohydrates_100g": 10.0,
			"fat_100g":           3.0,
		},
	}
}

func rawProducts(products ...map[string]any) []transform.RawRecord {
	out := make([]transform.RawRecord, 0, len(products))
	for _, p := range products {
		out = append(out, transform.RawRecord(p))
	}
	return out
}

func offTransformer() *transform.Transformer {
	tr := transform.New(enums.SourceOpenFoodFacts)
	tr.Now = func() time.Time { return fixedNow }
	return tr
}

// fakeFeed serves canned pages. Pages missing from both maps come back empty.
type fakeFeed struct {
	mu    sync.Mutex
	pages map[int][]map[string]any
	fail  map[int]error
	delay map[int]time.Duration
	calls []int
}

func (f *fakeFeed) FetchPage(ctx context.Context, page, size int) ([]map[string]any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	products, err, d := f.pages[page], f.fail[page], f.delay[page]
	f.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (f *fakeFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type countingFetcher struct {
	inner Fetcher
	calls int
}

func (c *countingFetcher) Fetch(ctx context.Context, gate Gate, target int) (*FetchResult, error) {
	c.calls++
	return c.inner.Fetch(ctx, gate, target)
}

type stubLock struct {
	acquire  bool
	err      error
	released bool
}

func (l *stubLock) Acquire(context.Context) (bool, error) { return l.acquire, l.err }

func (l *stubLock) Release(context.Context) error {
	l.released = true
	return nil
}
