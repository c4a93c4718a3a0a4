// Package backends builds the kvstore.Store selected by configuration.
package backends

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imrishuroy/valentine-rsvp/internal/aws"
	"github.com/imrishuroy/valentine-rsvp/internal/config"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/badgerkv"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/dynamokv"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/leveldbkv"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/memorykv"
	"github.com/imrishuroy/valentine-rsvp/internal/kvstore/rediskv"
)

// Deps carries already-constructed clients. A nil DynamoDB client is created on demand.
type Deps struct {
	DynamoDB aws.DynamoDBAPI
	Logger   *slog.Logger
}

// Open validates cfg and opens the matching backend.
func Open(ctx context.Context, cfg config.StoreConfig, deps Deps) (kvstore.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory store, responses are lost on restart")
		return memorykv.New(), nil

	case config.BackendDynamoDB:
		client := deps.DynamoDB
		if client == nil {
			clients, err := aws.NewAWSClients(ctx)
			if err != nil {
				return nil, err
			}
			client = clients.DynamoDB
		}
		return dynamokv.New(client, cfg.DynamoDBTable), nil

	case config.BackendRedis:
		return rediskv.Open(ctx, rediskv.Options{URL: cfg.RedisURL})

	case config.BackendLevelDB:
		return leveldbkv.Open(cfg.LevelDBPath)

	case config.BackendBadger:
		return badgerkv.Open(badgerkv.Options{Path: cfg.BadgerPath, Logger: logger})
	}
	return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
}
