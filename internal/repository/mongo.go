package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository on a MongoDB collection.
// _id is stored as an ObjectID and exposed as its hex string. Lookups also
// match documents whose _id was written as the hex string itself.
type MongoRepository[T any, PT models.Document[T]] struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository backed by the named collection
func NewMongoRepository[T any, PT models.Document[T]](db *mongo.Database, collection string) *MongoRepository[T, PT] {
	return &MongoRepository[T, PT]{
		coll: db.Collection(collection),
	}
}

// EnsureIndexes creates the name index used by search and sort
func (r *MongoRepository[T, PT]) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create index on %s.name: %w", r.coll.Name(), err)
	}
	return nil
}

// List returns matching documents in the requested order
func (r *MongoRepository[T, PT]) List(ctx context.Context, q Query) ([]T, error) {
	filter := bson.M{}
	if s := q.Search; s != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
	}

	opts := options.Find()
	if q.SortField != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: mongoField(q.SortField), Value: dir}})
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.coll.Name(), err)
	}

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.coll.Name(), err)
	}
	return out, nil
}

// GetByID returns the document with the given id
func (r *MongoRepository[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	filter, ok := idFilter(id)
	if !ok {
		return nil, ErrNotFound
	}

	var doc T
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, r.translate(err)
	}
	return &doc, nil
}

// Create inserts doc with a fresh ObjectID and both timestamps
func (r *MongoRepository[T, PT]) Create(ctx context.Context, doc *T) error {
	ts := now()
	oid := primitive.NewObjectID()
	PT(doc).AssignID(oid.Hex())
	PT(doc).Stamp(ts, ts)

	fields, err := documentFields(doc)
	if err != nil {
		return err
	}
	fields["_id"] = oid

	if _, err := r.coll.InsertOne(ctx, fields); err != nil {
		return fmt.Errorf("insert into %s: %w", r.coll.Name(), err)
	}
	return nil
}

// Update overwrites every field except _id and createdAt
func (r *MongoRepository[T, PT]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	filter, ok := idFilter(id)
	if !ok {
		return nil, ErrNotFound
	}

	PT(doc).AssignID(id)
	PT(doc).Stamp(time.Time{}, now())

	fields, err := replacementFields(doc)
	if err != nil {
		return nil, err
	}

	var updated T
	err = r.coll.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, r.translate(err)
	}
	return &updated, nil
}

// Delete removes the document and returns its prior state
func (r *MongoRepository[T, PT]) Delete(ctx context.Context, id string) (*T, error) {
	filter, ok := idFilter(id)
	if !ok {
		return nil, ErrNotFound
	}

	var doc T
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, r.translate(err)
	}
	return &doc, nil
}

func (r *MongoRepository[T, PT]) translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", r.coll.Name(), err)
}

// documentFields encodes doc into a generic document
func documentFields(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fields, nil
}

// replacementFields encodes doc as a $set document without the immutable fields.
func replacementFields(doc any) (bson.M, error) {
	fields, err := documentFields(doc)
	if err != nil {
		return nil, err
	}
	delete(fields, "_id")
	delete(fields, "createdAt")
	return fields, nil
}

// idFilter matches _id as an ObjectID or as its hex string. ok is false when
// id is not ObjectID hex, which no stored document can have.
func idFilter(id string) (filter bson.M, ok bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}, true
}

func mongoField(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}
