package mongo

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/residencia-nna/residencia-api/internal/core/domain"
)

// document pairs the Mongo _id with an inlined domain value, so the
// domain types stay free of ObjectID plumbing.
type document[T any] struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Body T                  `bson:",inline"`
}

func oid(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return objID, nil
}

func insertedID(res *mongo.InsertOneResult) string {
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		return id.Hex()
	}
	return ""
}

func setField[T any](set bson.M, key string, v *T) {
	if v != nil {
		set[key] = *v
	}
}

// searchFilter builds a case-insensitive $or regex over the given fields.
func searchFilter(fields []string, term string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return bson.M{"$or": or}
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M, notFound error, setID func(*T, string)) (*T, error) {
	var d document[T]
	if err := col.FindOne(ctx, filter).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFound
		}
		return nil, err
	}
	setID(&d.Body, d.ID.Hex())
	return &d.Body, nil
}

func findDocs[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions, setID func(*T, string)) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []document[T]
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		setID(&d.Body, d.ID.Hex())
		out = append(out, d.Body)
	}
	return out, nil
}

// groupCounts runs a counting $group keyed by field over documents
// matching the filter. Empty group keys collapse into "sin_dato".
func groupCounts(ctx context.Context, col *mongo.Collection, match bson.M, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":      "$" + field,
		"cantidad": bson.M{"$sum": 1},
	}}})

	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID       string `bson:"_id"`
		Cantidad int64  `bson:"cantidad"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		key := row.ID
		if key == "" {
			key = "sin_dato"
		}
		out[key] = row.Cantidad
	}
	return out, nil
}

func pageOpts(skip, limit int64, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}
