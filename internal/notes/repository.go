package notes

import (
	"context"
	"regexp"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/db"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, note models.Note) error
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]models.Note, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, note models.Note) error {
	_, err := r.col.InsertOne(ctx, note)
	return db.Classify(err)
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]models.Note, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, filterToBSON(filter), opts)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Note, 0)
	for cursor.Next(ctx) {
		var note models.Note
		if err := cursor.Decode(&note); err != nil {
			return nil, err
		}
		items = append(items, note)
	}
	if err := cursor.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, filterToBSON(filter))
	return n, db.Classify(err)
}

// filterToBSON matches the query as a literal, case-insensitive substring of
// the title or content.
func filterToBSON(filter ListFilter) bson.M {
	if filter.Query == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"content": pattern},
	}}
}
