package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mansoorceksport/restshop/internal/config"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/logging"
	"github.com/mansoorceksport/restshop/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// demoCatalog is inserted only into an empty products collection
var demoCatalog = []domain.Product{
	{Name: "Harry Potter 5", Price: 12.99},
	{Name: "The Pragmatic Programmer", Price: 39.95},
	{Name: "Mechanical Keyboard", Price: 89.00},
	{Name: "USB-C Cable", Price: 7.49},
	{Name: "Coffee Mug", Price: 9.99},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logging.Setup(cfg.Server)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "err", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoProductRepository(client.Database(cfg.MongoDB.Database))

	inserted, err := seed(ctx, repo, demoCatalog)
	if err != nil {
		log.Fatal("seeding failed", "err", err)
	}
	log.Info("seeding complete", "inserted", inserted)
}

func seed(ctx context.Context, repo domain.ProductRepository, catalog []domain.Product) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Info("products already present, skipping", "count", len(existing))
		return 0, nil
	}

	for i := range catalog {
		p := catalog[i]
		if err := repo.Create(ctx, &p); err != nil {
			return i, err
		}
		log.Debug("inserted product", "id", p.ID, "name", p.Name)
	}
	return len(catalog), nil
}
