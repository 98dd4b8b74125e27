package mongo

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		// If ping fails, disconnect the client before returning the error
		_ = DisconnectDB(client)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// DatabaseSource hands out the database handle repositories operate on.
type DatabaseSource interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// Connector owns the process-wide MongoDB client. The first call to
// Database connects; later calls reuse the same client. A failed connect
// leaves the connector uninitialized so the next call tries again.
type Connector struct {
	uri    string
	dbName string
	dial   func(ctx context.Context, uri string) (*mongo.Client, error)

	mu          sync.Mutex
	client      *mongo.Client
	initialized bool
}

// NewConnector creates a connector. No connection is made until first use.
func NewConnector(uri, dbName string) *Connector {
	return &Connector{uri: uri, dbName: dbName, dial: ConnectDB}
}

// Database returns the configured database, connecting on first use.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		client, err := c.dial(ctx, c.uri)
		if err != nil {
			return nil, err
		}
		c.client = client
		c.initialized = true
	}
	return c.client.Database(c.dbName), nil
}

// Initialized reports whether a connection has been established.
func (c *Connector) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Disconnect closes the client if one was opened. Safe to call repeatedly;
// a later Database call reconnects.
func (c *Connector) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return nil
	}
	err := DisconnectDB(c.client)
	c.client = nil
	c.initialized = false
	return err
}

// collection resolves a named collection through a DatabaseSource.
func collection(ctx context.Context, src DatabaseSource, name string) (*mongo.Collection, error) {
	db, err := src.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}
