package store

import (
	"context"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-prospect/internal/config"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/database"
	"github.com/xavierca1/ligue-prospect/internal/infra/docstore"
	"github.com/xavierca1/ligue-prospect/internal/infra/memory"
)

// Stores agrupa os repositórios do backend escolhido em STORE_DRIVER.
type Stores struct {
	Leads   entity.LeadRepositoryInterface
	Scripts entity.ScriptRepositoryInterface
	Ping    func(ctx context.Context) error

	close func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func Open(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case config.DriverMongo:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		log.Println("⚠️ STORE_DRIVER=memory: dados somem ao reiniciar")
		return &Stores{
			Leads:   memory.NewLeadRepository(),
			Scripts: memory.NewScriptRepository(),
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER inválido: %q", cfg.StoreDriver)
}

func openPostgres(ctx context.Context, url string) (*Stores, error) {
	db, err := database.NewDBConnection(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("conectar postgres: %w", err)
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("🐘 Postgres conectado")
	return &Stores{
		Leads:   database.NewLeadRepository(db),
		Scripts: database.NewScriptRepository(db),
		Ping:    db.PingContext,
		close:   db.Close,
	}, nil
}

func openMongo(ctx context.Context, uri, dbName string) (*Stores, error) {
	client, err := docstore.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)
	if err := docstore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Printf("🍃 MongoDB conectado (%s)", dbName)
	return &Stores{
		Leads:   docstore.NewLeadRepository(client, db),
		Scripts: docstore.NewScriptRepository(db),
		Ping:    func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:   func() error { return client.Disconnect(context.Background()) },
	}, nil
}

var (
	_ entity.LeadRepositoryInterface   = (*database.LeadRepository)(nil)
	_ entity.LeadRepositoryInterface   = (*docstore.LeadRepository)(nil)
	_ entity.LeadRepositoryInterface   = (*memory.LeadRepository)(nil)
	_ entity.ScriptRepositoryInterface = (*database.ScriptRepository)(nil)
	_ entity.ScriptRepositoryInterface = (*docstore.ScriptRepository)(nil)
	_ entity.ScriptRepositoryInterface = (*memory.ScriptRepository)(nil)
)
