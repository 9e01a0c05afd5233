package leads

import (
	"context"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/db"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, lead models.Lead) error
	CreateMany(ctx context.Context, leads []models.Lead) error
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]models.Lead, error)
	ListAll(ctx context.Context) ([]models.Lead, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	GetByID(ctx context.Context, id string) (models.Lead, error)
	Update(ctx context.Context, id string, set bson.M, unset []string, now time.Time) (models.Lead, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, lead models.Lead) error {
	_, err := r.col.InsertOne(ctx, lead)
	return db.Classify(err)
}

// CreateMany writes the batch with a single ordered insert.
func (r *MongoRepository) CreateMany(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	docs := make([]interface{}, len(leads))
	for i := range leads {
		docs[i] = leads[i]
	}
	_, err := r.col.InsertMany(ctx, docs)
	return db.Classify(err)
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]models.Lead, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, r.filterToBSON(filter), opts)
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]models.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, r.filterToBSON(filter))
	return n, db.Classify(err)
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (models.Lead, error) {
	var lead models.Lead
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		return models.Lead{}, db.Classify(err)
	}
	return lead, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M, unset []string, now time.Time) (models.Lead, error) {
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = now
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		fields := bson.M{}
		for _, f := range unset {
			fields[f] = ""
		}
		update["$unset"] = fields
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Lead
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return models.Lead{}, db.Classify(err)
	}
	return updated, nil
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Lead, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Lead, 0)
	for cursor.Next(ctx) {
		var lead models.Lead
		if err := cursor.Decode(&lead); err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	if err := cursor.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return items, nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ScheduledOnly {
		query["followUpDate"] = bson.M{"$exists": true, "$ne": ""}
	}
	return query
}
