package database

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database is an explicitly constructed MongoDB handle with an open/close
// lifecycle. It is built once in main and passed into the stores that need
// it - no package-level client or collection globals.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens and pings a MongoDB connection.
func Connect(ctx context.Context, uri, dbName string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Println("✅ MongoDB connected successfully")
	return &Database{client: client, db: client.Database(dbName)}, nil
}

// Collection returns a collection from the connected database.
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Mongo exposes the underlying database handle.
func (d *Database) Mongo() *mongo.Database {
	return d.db
}

// Close disconnects the client.
func (d *Database) Close(ctx context.Context) error {
	log.Println("👋 Disconnecting MongoDB")
	return d.client.Disconnect(ctx)
}
