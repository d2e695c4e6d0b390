package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/pkg/db/models"
	"github.com/nutritrack/food-catalog/pkg/enums"
)

const insertBatchSize = 200

const searchClause = `search_name LIKE ? ESCAPE '\' OR search_brand LIKE ? ESCAPE '\' OR search_category LIKE ? ESCAPE '\'`

// Repository is the relational Store backed by GORM (Postgres or SQLite).
type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InsertOne(ctx context.Context, rec *foods.Record) (string, error) {
	row := toModel(rec)
	row.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", unavailable(err, "insert")
	}
	rec.ID = row.ID
	return row.ID, nil
}

func (r *Repository) InsertMany(ctx context.Context, recs []foods.Record) ([]string, error) {
	if len(recs) == 0 {
		return []string{}, nil
	}
	rows := make([]models.Food, 0, len(recs))
	ids := make([]string, 0, len(recs))
	for i := range recs {
		row := toModel(&recs[i])
		row.ID = uuid.NewString()
		rows = append(rows, row)
		ids = append(ids, row.ID)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return nil, unavailable(err, "bulk insert")
	}
	for i := range recs {
		recs[i].ID = ids[i]
	}
	return ids, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*foods.Record, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrNotFound
	}
	var row models.Food
	if err := r.db.WithContext(ctx).First(&row, "id = ?", parsed.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, unavailable(err, "find")
	}
	rec := fromModel(row)
	return &rec, nil
}

func (r *Repository) Search(ctx context.Context, text string, limit int) ([]foods.Record, error) {
	pattern := "%" + escapeLike(searchKey(text)) + "%"
	var rows []models.Food
	err := r.db.WithContext(ctx).
		Where(searchClause, pattern, pattern, pattern).
		Order("name ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, unavailable(err, "search")
	}
	return fromModels(rows), nil
}

func (r *Repository) ListAll(ctx context.Context, skip, limit int) ([]foods.Record, error) {
	var rows []models.Food
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, unavailable(err, "list")
	}
	return fromModels(rows), nil
}

func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := r.db.WithContext(ctx).Model(&models.Food{}).Distinct().Pluck("category", &out).Error; err != nil {
		return nil, unavailable(err, "distinct categories")
	}
	sort.Strings(out)
	return out, nil
}

func (r *Repository) DeleteBySource(ctx context.Context, source enums.Source) (int64, error) {
	res := r.db.WithContext(ctx).Where("source = ?", string(source)).Delete(&models.Food{})
	if res.Error != nil {
		return 0, unavailable(res.Error, "delete by source")
	}
	return res.RowsAffected, nil
}

func (r *Repository) CountBySource(ctx context.Context, source enums.Source) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Food{}).Where("source = ?", string(source)).Count(&count).Error; err != nil {
		return 0, unavailable(err, "count by source")
	}
	return count, nil
}
