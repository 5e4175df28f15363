package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/look-builder/models"
)

const (
	colModels     = "models"
	colLooks      = "looks"
	colLookboards = "lookboards"
	colUsers      = "users"
	colCounters   = "counters"
)

// MongoStore is the MongoDB-backed store. Open it once at process start and
// inject it wherever persistence is needed; Close on shutdown.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Store = (*MongoStore)(nil)

// OpenMongo connects to MongoDB, verifies the connection and ensures the
// indexes the store relies on (unique lookboard public_id, unique user email,
// looks created_at for sorted listings).
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}

	s := &MongoStore{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("%w: indexes: %v", ErrUnavailable, err)
	}

	log.Println("Connected to MongoDB!")
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(colLookboards).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "public_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.db.Collection(colUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.db.Collection(colLooks).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	})
	return err
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// nextID allocates the next surrogate id for the given entity kind from the
// counters collection. Ids are never reused, even after deletion.
func (s *MongoStore) nextID(ctx context.Context, kind string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": kind},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("counter for %s: %w", kind, err)
	}
	return counter.Seq, nil
}

func getAll[T any](ctx context.Context, c *mongo.Collection) ([]T, error) {
	cursor, err := c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getByID[T any](ctx context.Context, c *mongo.Collection, id int64) (T, error) {
	var out T
	err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, fmt.Errorf("%s id %d: %w", c.Name(), id, ErrNotFound)
	}
	return out, err
}

func replaceByID[T any](ctx context.Context, c *mongo.Collection, id int64, doc T) error {
	if id == 0 {
		return fmt.Errorf("%s: update without id: %w", c.Name(), ErrNotFound)
	}
	res, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s id %d: %w", c.Name(), id, ErrConstraint)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s id %d: %w", c.Name(), id, ErrNotFound)
	}
	return nil
}

func removeByID(ctx context.Context, c *mongo.Collection, id int64) error {
	// Idempotent: deleting a missing id is not an error.
	_, err := c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) GetAllModels(ctx context.Context) ([]models.Model, error) {
	return getAll[models.Model](ctx, s.db.Collection(colModels))
}

func (s *MongoStore) GetModel(ctx context.Context, id int64) (models.Model, error) {
	return getByID[models.Model](ctx, s.db.Collection(colModels), id)
}

func (s *MongoStore) AddModel(ctx context.Context, m models.Model) (models.Model, error) {
	id, err := s.nextID(ctx, colModels)
	if err != nil {
		return models.Model{}, err
	}
	m.ID = id
	if _, err := s.db.Collection(colModels).InsertOne(ctx, m); err != nil {
		return models.Model{}, err
	}
	return m, nil
}

func (s *MongoStore) RemoveModel(ctx context.Context, id int64) error {
	return removeByID(ctx, s.db.Collection(colModels), id)
}

func (s *MongoStore) GetAllLooks(ctx context.Context) ([]models.Look, error) {
	return getAll[models.Look](ctx, s.db.Collection(colLooks))
}

func (s *MongoStore) GetLook(ctx context.Context, id int64) (models.Look, error) {
	return getByID[models.Look](ctx, s.db.Collection(colLooks), id)
}

func (s *MongoStore) AddLook(ctx context.Context, l models.Look) (models.Look, error) {
	id, err := s.nextID(ctx, colLooks)
	if err != nil {
		return models.Look{}, err
	}
	l.ID = id
	if _, err := s.db.Collection(colLooks).InsertOne(ctx, l); err != nil {
		return models.Look{}, err
	}
	return l, nil
}

func (s *MongoStore) PutLook(ctx context.Context, l models.Look) (models.Look, error) {
	if err := replaceByID(ctx, s.db.Collection(colLooks), l.ID, l); err != nil {
		return models.Look{}, err
	}
	return l, nil
}

// BulkAddLooks inserts the batch all-or-nothing: Mongo has no multi-document
// transaction on a standalone server, so a failed insert is compensated by
// deleting the members already written. Two concurrent batches may still
// interleave; atomicity holds at the batch boundary only.
func (s *MongoStore) BulkAddLooks(ctx context.Context, ls []models.Look) error {
	if len(ls) == 0 {
		return nil
	}
	c := s.db.Collection(colLooks)
	inserted := make([]int64, 0, len(ls))
	for i := range ls {
		id, err := s.nextID(ctx, colLooks)
		if err == nil {
			ls[i].ID = id
			_, err = c.InsertOne(ctx, ls[i])
		}
		if err != nil {
			if len(inserted) > 0 {
				if _, derr := c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": inserted}}); derr != nil {
					log.Printf("BulkAddLooks: rollback failed: %v", derr)
				}
			}
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("bulk add looks: %w", ErrConstraint)
			}
			return fmt.Errorf("bulk add looks: %w", err)
		}
		inserted = append(inserted, ls[i].ID)
	}
	return nil
}

func (s *MongoStore) RemoveLook(ctx context.Context, id int64) error {
	return removeByID(ctx, s.db.Collection(colLooks), id)
}

func (s *MongoStore) GetAllLookboards(ctx context.Context) ([]models.Lookboard, error) {
	return getAll[models.Lookboard](ctx, s.db.Collection(colLookboards))
}

func (s *MongoStore) GetLookboard(ctx context.Context, id int64) (models.Lookboard, error) {
	return getByID[models.Lookboard](ctx, s.db.Collection(colLookboards), id)
}

func (s *MongoStore) GetLookboardByPublicID(ctx context.Context, publicID string) (models.Lookboard, error) {
	var b models.Lookboard
	err := s.db.Collection(colLookboards).FindOne(ctx, bson.M{"public_id": publicID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Lookboard{}, fmt.Errorf("lookboard %q: %w", publicID, ErrNotFound)
	}
	return b, err
}

func (s *MongoStore) AddLookboard(ctx context.Context, b models.Lookboard) (models.Lookboard, error) {
	id, err := s.nextID(ctx, colLookboards)
	if err != nil {
		return models.Lookboard{}, err
	}
	b.ID = id
	if _, err := s.db.Collection(colLookboards).InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Lookboard{}, fmt.Errorf("public id %q: %w", b.PublicID, ErrConstraint)
		}
		return models.Lookboard{}, err
	}
	return b, nil
}

func (s *MongoStore) PutLookboard(ctx context.Context, b models.Lookboard) (models.Lookboard, error) {
	if err := replaceByID(ctx, s.db.Collection(colLookboards), b.ID, b); err != nil {
		return models.Lookboard{}, err
	}
	return b, nil
}

func (s *MongoStore) RemoveLookboard(ctx context.Context, id int64) error {
	return removeByID(ctx, s.db.Collection(colLookboards), id)
}

func (s *MongoStore) AddUser(ctx context.Context, u models.User) (models.User, error) {
	id, err := s.nextID(ctx, colUsers)
	if err != nil {
		return models.User{}, err
	}
	u.ID = id
	if _, err := s.db.Collection(colUsers).InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("email %q: %w", u.Email, ErrConstraint)
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	return getByID[models.User](ctx, s.db.Collection(colUsers), id)
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return u, err
}

func (s *MongoStore) PutUser(ctx context.Context, u models.User) (models.User, error) {
	if err := replaceByID(ctx, s.db.Collection(colUsers), u.ID, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
