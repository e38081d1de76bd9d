package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	MONGO_TIMEOUT      = 20 * time.Second
	COLLECTION_LEADS   = "leads"
	COLLECTION_SCRIPTS = "scripts"
)

// Connect abre o cliente e confirma com Ping. As transações de lote exigem
// replica set.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(MONGO_TIMEOUT))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes cria os índices por dono usados em toda consulta.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	owner := mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}}
	for _, name := range []string{COLLECTION_LEADS, COLLECTION_SCRIPTS} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, owner); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}
