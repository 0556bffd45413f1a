package macro

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/termmap/pkg/cache"
	terrors "github.com/matzehuels/termmap/pkg/errors"
)

// MongoDB defaults.
const (
	DefaultMongoDatabase   = "termmap"
	DefaultMongoCollection = "macros"
)

// MongoStore keeps one document per macro, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses the macros collection of database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "configure mongodb client")
	}

	err = cache.Connect(ctx, "mongodb", func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, terrors.Wrap(terrors.ErrCodeStorage, err, "connect to mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultMongoCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (Macro, error) {
	var m Macro
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Macro{}, notFound(name)
	}
	if err != nil {
		return Macro{}, terrors.Wrap(terrors.ErrCodeStorage, err, "get macro %s", name)
	}
	return m, nil
}

func (s *MongoStore) Put(ctx context.Context, m Macro) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": m.Name}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return terrors.Wrap(terrors.ErrCodeStorage, err, "put macro %s", m.Name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return terrors.Wrap(terrors.ErrCodeStorage, err, "delete macro %s", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Macro, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeStorage, err, "list macros")
	}
	var out []Macro
	if err := cur.All(ctx, &out); err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeStorage, err, "decode macros")
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
