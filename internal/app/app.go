// Package app opens the backing stores shared by the server and the seed tool.
package app

import (
	"checkin/internal/config"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pingTimeout = 5 * time.Second

type App struct {
	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client
}

// Connect opens and pings MongoDB, and Redis when withRedis is set
func Connect(ctx context.Context, cfg *config.Config, withRedis bool) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	a := &App{
		Mongo: mongoClient,
		DB:    mongoClient.Database(cfg.MongoDB),
	}
	if !withRedis {
		return a, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	log.Println("Connected to Redis")
	a.Redis = rdb

	return a, nil
}

// Close releases both connections
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("close Redis: %v", err)
		}
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		log.Printf("disconnect MongoDB: %v", err)
	}
}
