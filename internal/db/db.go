package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/coursedb/apiserver/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultPingTimeout = 5 * time.Second

// Open connects to MongoDB and verifies the connection with a ping.
// The returned client is owned by the caller, which is responsible for
// disconnecting it on shutdown.
func Open(ctx context.Context, cfg config.Config) (*mongo.Client, error) {
	u := &url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port),
		Path:   cfg.Database.DBName,
	}
	if cfg.Database.User != "" {
		u.User = url.UserPassword(cfg.Database.User, cfg.Database.Password)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(u.String()))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
