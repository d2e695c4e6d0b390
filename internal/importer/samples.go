package importer

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nutritrack/food-catalog/internal/categories"
	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/internal/transform"
	"github.com/nutritrack/food-catalog/pkg/enums"
)

//go:embed samples.yaml
var sampleData []byte

// LoadSamples decodes the embedded reference foods.
func LoadSamples() ([]transform.RawRecord, error) {
	return decodeSamples(sampleData)
}

func decodeSamples(data []byte) ([]transform.RawRecord, error) {
	var docs []map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	out := make([]transform.RawRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, transform.RawRecord(doc))
	}
	return out, nil
}

// StaticFetcher serves a fixed in-memory dataset.
type StaticFetcher struct {
	records []transform.RawRecord
}

// NewStaticFetcher serves records; with nil it serves the embedded samples.
func NewStaticFetcher(records []transform.RawRecord) (*StaticFetcher, error) {
	if records == nil {
		loaded, err := LoadSamples()
		if err != nil {
			return nil, err
		}
		records = loaded
	}
	return &StaticFetcher{records: records}, nil
}

// Fetch returns the dataset, gated and capped at target when target > 0.
func (s *StaticFetcher) Fetch(ctx context.Context, gate Gate, target int) (*FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &FetchResult{Raw: []transform.RawRecord{}, Pages: 1}
	for _, raw := range s.records {
		if target > 0 && len(res.Raw) >= target {
			break
		}
		res.Fetched++
		if gate != nil {
			if err := gate(raw); err != nil {
				res.GateRejected++
				continue
			}
		}
		res.Raw = append(res.Raw, raw)
	}
	return res, nil
}

const (
	sampleNutritionKey = "nutritional_info_per_100g"
	samplePortionsKey  = "portions"
)

// SampleMapper maps records already shaped like catalog documents.
type SampleMapper struct {
	Source enums.Source
	Now    func() time.Time
}

// NewSampleMapper stamps records with the manual source.
func NewSampleMapper() *SampleMapper {
	return &SampleMapper{Source: enums.SourceManual, Now: time.Now}
}

func (m *SampleMapper) Check(raw transform.RawRecord) error {
	if strings.TrimSpace(raw.String("name", "")) == "" {
		return &transform.RejectError{Reason: transform.ReasonName, Detail: "sample without name"}
	}
	if !raw.Nested(sampleNutritionKey).Has("calories") {
		return &transform.RejectError{Reason: transform.ReasonEnergy, Detail: "sample without calories"}
	}
	return nil
}

func (m *SampleMapper) Transform(raw transform.RawRecord) (*foods.Record, error) {
	if err := m.Check(raw); err != nil {
		return nil, err
	}
	n := raw.Nested(sampleNutritionKey)
	now := time.Now().UTC()
	if m.Now != nil {
		now = m.Now().UTC()
	}
	rec := &foods.Record{
		Name:     strings.TrimSpace(raw.String("name", "")),
		Brand:    optionalString(raw.String("brand", "")),
		Category: sampleCategory(raw.String("category", "")),
		Nutrition: foods.Nutrition{
			Calories:      n.FloatOr("calories", 0),
			Protein:       n.FloatOr("protein", 0),
			Carbohydrates: n.FloatOr("carbohydrates", 0),
			Fat:           n.FloatOr("fat", 0),
			Fiber:         n.FloatOr("fiber", 0),
			Sugar:         n.FloatOr("sugar", 0),
			Sodium:        n.FloatOr("sodium", 0),
		},
		Portions:  samplePortions(raw[samplePortionsKey]),
		Source:    m.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rec.Validate(); err != nil {
		return nil, &transform.RejectError{Reason: transform.ReasonInvalid, Detail: err.Error()}
	}
	return rec, nil
}

// sampleCategory keeps vocabulary labels as written and classifies anything else.
func sampleCategory(raw string) string {
	raw = strings.TrimSpace(raw)
	if categories.IsKnown(raw) {
		return raw
	}
	return categories.Classify(raw)
}

func samplePortions(v any) []foods.Portion {
	items, _ := v.([]any)
	out := make([]foods.Portion, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := transform.RawRecord(m)
		out = append(out, foods.NewPortion(strings.TrimSpace(p.String("name", "")), p.FloatOr("weight_grams", 0)))
	}
	return out
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
