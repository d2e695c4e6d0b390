package catalog

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutritrack/food-catalog/internal/foods"
	"github.com/nutritrack/food-catalog/pkg/enums"
)

type nutritionDocument struct {
	Calories      float64 `bson:"calories"`
	Protein       float64 `bson:"protein"`
	Carbohydrates float64 `bson:"carbohydrates"`
	Fat           float64 `bson:"fat"`
	Fiber         float64 `bson:"fiber"`
	Sugar         float64 `bson:"sugar"`
	Sodium        float64 `bson:"sodium"`
}

type portionDocument struct {
	Name        string  `bson:"name"`
	WeightGrams float64 `bson:"weight_grams"`
	Multiplier  float64 `bson:"multiplier"`
}

// foodDocument is the stored layout of one record in the foods collection.
type foodDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Brand      *string            `bson:"brand"`
	Category   string             `bson:"category"`
	Nutrition  nutritionDocument  `bson:"nutritional_info_per_100g"`
	Portions   []portionDocument  `bson:"portions"`
	Barcode    *string            `bson:"barcode,omitempty"`
	Nutriscore *string            `bson:"nutriscore,omitempty"`
	Source     string             `bson:"source"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func toDocument(rec *foods.Record) foodDocument {
	ps := make([]portionDocument, 0, len(rec.Portions))
	for _, p := range rec.Portions {
		ps = append(ps, portionDocument(p))
	}
	return foodDocument{
		Name:       rec.Name,
		Brand:      rec.Brand,
		Category:   rec.Category,
		Nutrition:  nutritionDocument(rec.Nutrition),
		Portions:   ps,
		Barcode:    rec.Barcode,
		Nutriscore: rec.Nutriscore,
		Source:     string(rec.Source),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func (d foodDocument) record() foods.Record {
	ps := make([]foods.Portion, 0, len(d.Portions))
	for _, p := range d.Portions {
		ps = append(ps, foods.Portion(p))
	}
	return foods.Record{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Brand:      d.Brand,
		Category:   d.Category,
		Nutrition:  foods.Nutrition(d.Nutrition),
		Portions:   ps,
		Barcode:    d.Barcode,
		Nutriscore: d.Nutriscore,
		Source:     enums.Source(d.Source),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// searchFilter matches text literally and case-insensitively in name, brand or category.
func searchFilter(text string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"brand": pattern},
		bson.M{"category": pattern},
	}}
}

// MongoRepository is the document Store backed by a MongoDB collection.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ Store = (*MongoRepository)(nil)

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) InsertOne(ctx context.Context, rec *foods.Record) (string, error) {
	doc := toDocument(rec)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", unavailable(err, "insert")
	}
	rec.ID = doc.ID.Hex()
	return rec.ID, nil
}

func (r *MongoRepository) InsertMany(ctx context.Context, recs []foods.Record) ([]string, error) {
	if len(recs) == 0 {
		return []string{}, nil
	}
	docs := make([]any, 0, len(recs))
	ids := make([]string, 0, len(recs))
	for i := range recs {
		doc := toDocument(&recs[i])
		doc.ID = primitive.NewObjectID()
		docs = append(docs, doc)
		ids = append(ids, doc.ID.Hex())
	}
	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, unavailable(err, "bulk insert")
	}
	for i := range recs {
		recs[i].ID = ids[i]
	}
	return ids, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*foods.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc foodDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, unavailable(err, "find")
	}
	rec := doc.record()
	return &rec, nil
}

func (r *MongoRepository) Search(ctx context.Context, text string, limit int) ([]foods.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, searchFilter(text), opts, "search")
}

func (r *MongoRepository) ListAll(ctx context.Context, skip, limit int) ([]foods.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts, "list")
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions, op string) ([]foods.Record, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, unavailable(err, op)
	}
	var docs []foodDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable(err, op)
	}
	out := make([]foods.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (r *MongoRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, unavailable(err, "distinct categories")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *MongoRepository) DeleteBySource(ctx context.Context, source enums.Source) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"source": string(source)})
	if err != nil {
		return 0, unavailable(err, "delete by source")
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) CountBySource(ctx context.Context, source enums.Source) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"source": string(source)})
	if err != nil {
		return 0, unavailable(err, "count by source")
	}
	return count, nil
}
