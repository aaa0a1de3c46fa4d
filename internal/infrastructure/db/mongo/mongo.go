// Package mongo stores the client session as documents in a MongoDB
// collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout = 10 * time.Second
	appName        = "jobportal"
)

// Options selects the deployment, database and collection.
type Options struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Open connects, pings the primary and returns a backend over the session
// collection. An empty Collection uses "client_sessions".
func Open(ctx context.Context, opts Options) (*SessionBackend, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetAppName(appName).
		SetTimeout(timeout)
	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := opts.Collection
	if coll == "" {
		coll = sessionCollection
	}
	return &SessionBackend{coll: client.Database(opts.Database).Collection(coll)}, nil
}
