package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyflow/internal/models"
)

const threadsCollection = "threads"

var (
	ErrNotFound        = errors.New("thread not found")
	ErrMessageNotFound = errors.New("message not found")
)

// ThreadRepo persists discussion threads with their embedded messages.
// Threads are addressed by the application-assigned id field, never by
// Mongo's _id, which is excluded from every read.
type ThreadRepo struct {
	col *mongo.Collection
}

func NewThreadRepo(s *Store) *ThreadRepo {
	return &ThreadRepo{col: s.DB.Collection(threadsCollection)}
}

func (r *ThreadRepo) List(ctx context.Context) ([]models.Thread, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Thread, 0)
	for cur.Next(ctx) {
		var t models.Thread
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode thread: %w", err)
		}
		if t.Messages == nil {
			t.Messages = make([]models.Message, 0)
		}
		out = append(out, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}
	return out, nil
}

func (r *ThreadRepo) Create(ctx context.Context, t models.Thread) error {
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert thread: %w", err)
	}
	return nil
}

func (r *ThreadRepo) Get(ctx context.Context, id string) (models.Thread, error) {
	var t models.Thread
	err := r.col.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Thread{}, ErrNotFound
	}
	if err != nil {
		return models.Thread{}, fmt.Errorf("find thread: %w", err)
	}
	if t.Messages == nil {
		t.Messages = make([]models.Message, 0)
	}
	return t, nil
}

func (r *ThreadRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ThreadRepo) AppendMessage(ctx context.Context, threadID string, msg models.Message) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"id": threadID}, bson.M{"$push": bson.M{"messages": msg}})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ThreadRepo) FindMessage(ctx context.Context, threadID, messageID string) (models.Message, error) {
	t, err := r.Get(ctx, threadID)
	if err != nil {
		return models.Message{}, err
	}
	for _, m := range t.Messages {
		if m.ID == messageID {
			return m, nil
		}
	}
	return models.Message{}, ErrMessageNotFound
}
