package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/pkg/enums"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
)

// ErrNotFound is returned by FindByID for absent or malformed ids.
var ErrNotFound = errors.New("food not found")

// Store persists catalog records. Implementations assign ids on insert.
type Store interface {
	InsertOne(ctx context.Context, rec *foods.Record) (string, error)
	InsertMany(ctx context.Context, recs []foods.Record) ([]string, error)
	FindByID(ctx context.Context, id string) (*foods.Record, error)
	// Search matches text case-insensitively as a literal substring of name,
	// brand or category, ordered by name then id.
	Search(ctx context.Context, text string, limit int) ([]foods.Record, error)
	// ListAll pages by offset in creation order.
	ListAll(ctx context.Context, skip, limit int) ([]foods.Record, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DeleteBySource(ctx context.Context, source enums.Source) (int64, error)
	CountBySource(ctx context.Context, source enums.Source) (int64, error)
}

func unavailable(err error, op string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "food store unavailable: "+op)
}

// escapeLike escapes LIKE wildcards so user text is matched literally.
func escapeLike(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(text)
}
