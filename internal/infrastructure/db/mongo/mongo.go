package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	collectionCustomers    = "customers"
	collectionSTBs         = "stbs"
	collectionTransactions = "transactions"
	collectionUsers        = "users"
	collectionSettings     = "settings"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// oid parses a hex document ID. notFound is returned for malformed IDs so
// callers surface the same error as for a missing document.
func oid(id string, notFound error) (primitive.ObjectID, error) {
	parsed, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return parsed, nil
}

// oidOrNil parses an optional reference field; empty input yields the zero
// ObjectID, which bson omitempty drops.
func oidOrNil(id string) primitive.ObjectID {
	if id == "" {
		return primitive.NilObjectID
	}
	parsed, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return parsed
}

// hexOrEmpty renders an optional reference field back to its hex form.
func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

// lookupName is the decode target for a single-field $lookup projection.
type lookupName struct {
	Name string `bson:"name"`
}

func firstName(docs []lookupName) string {
	if len(docs) == 0 {
		return ""
	}
	return docs[0].Name
}

// rangeFilter matches created_at within [from, to], both inclusive.
func rangeFilter(from, to time.Time) primitive.M {
	return primitive.M{"created_at": primitive.M{"$gte": from.UTC(), "$lte": to.UTC()}}
}
