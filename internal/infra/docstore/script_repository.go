package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ScriptRepository struct {
	Collection *mongo.Collection
}

func NewScriptRepository(db *mongo.Database) *ScriptRepository {
	return &ScriptRepository{Collection: db.Collection(COLLECTION_SCRIPTS)}
}

func (r *ScriptRepository) List(ctx context.Context, ownerID string) ([]entity.Script, error) {
	cursor, err := r.Collection.Find(ctx, bson.D{{Key: "owner_id", Value: ownerID}})
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	var docs []scriptDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode scripts: %w", err)
	}

	scripts := make([]entity.Script, 0, len(docs))
	for _, d := range docs {
		scripts = append(scripts, d.toScript())
	}
	entity.SortOldestFirst(scripts)
	return scripts, nil
}

func (r *ScriptRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Script, error) {
	var doc scriptDocument
	err := r.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrScriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find script: %w", err)
	}
	s := doc.toScript()
	return &s, nil
}

func (r *ScriptRepository) Create(ctx context.Context, s *entity.Script) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if _, err := r.Collection.InsertOne(ctx, toScriptDocument(*s)); err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	return nil
}

func (r *ScriptRepository) Update(ctx context.Context, s *entity.Script) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: s.ID}, {Key: "owner_id", Value: s.OwnerID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "title", Value: s.Title},
			{Key: "content", Value: s.Content},
			{Key: "category", Value: string(s.Category)},
			{Key: "updated_at", Value: s.UpdatedAt},
		}}},
	)
	if err != nil {
		return fmt.Errorf("update script: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrScriptNotFound
	}
	return nil
}

func (r *ScriptRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}})
	if err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrScriptNotFound
	}
	return nil
}
