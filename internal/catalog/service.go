package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/pkg/enums"
	pkgerrors "github.com/nutritrack/food-catalog/pkg/errors"
	"github.com/nutritrack/food-catalog/pkg/pagination"
)

// Service exposes catalog read and manual-create operations.
type Service interface {
	Search(ctx context.Context, query string, limit int) ([]FoodSummary, error)
	GetByID(ctx context.Context, id string) (*FoodDTO, error)
	Create(ctx context.Context, input CreateFoodInput) (string, error)
	ListAll(ctx context.Context, skip, limit int) ([]FoodDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// ServiceParams wires the catalog service dependencies.
type ServiceParams struct {
	Store Store
	Now   func() time.Time
}

type service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("food store required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{store: params.Store, now: now}, nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]FoodSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.Validation("search query is required", map[string]string{"q": "must not be empty"})
	}
	recs, err := s.store.Search(ctx, query, pagination.Search(limit))
	if err != nil {
		return nil, err
	}
	out := make([]FoodSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NewFoodSummary(rec))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*FoodDTO, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.NotFound("Alimento no encontrado")
		}
		return nil, err
	}
	dto := NewFoodDTO(*rec)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateFoodInput) (string, error) {
	source := enums.SourceManual
	if strings.TrimSpace(input.Source) != "" {
		parsed, err := enums.ParseSource(input.Source)
		if err != nil {
			return "", pkgerrors.Validation("invalid food record", map[string]string{"source": err.Error()})
		}
		source = parsed
	}

	now := s.now().UTC()
	rec := &foods.Record{
		Name:       strings.TrimSpace(input.Name),
		Brand:      trimmedOrNil(input.Brand),
		Category:   strings.TrimSpace(input.Category),
		Nutrition:  input.Nutrition,
		Portions:   input.Portions,
		Barcode:    trimmedOrNil(input.Barcode),
		Nutriscore: upperOrNil(input.Nutriscore),
		Source:     source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if rec.Portions == nil {
		rec.Portions = []foods.Portion{}
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}
	return s.store.InsertOne(ctx, rec)
}

func (s *service) ListAll(ctx context.Context, skip, limit int) ([]FoodDTO, error) {
	page := pagination.List(skip, limit)
	recs, err := s.store.ListAll(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]FoodDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NewFoodDTO(rec))
	}
	return out, nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := s.store.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func upperOrNil(v *string) *string {
	trimmed := trimmedOrNil(v)
	if trimmed == nil {
		return nil
	}
	upper := strings.ToUpper(*trimmed)
	return &upper
}
