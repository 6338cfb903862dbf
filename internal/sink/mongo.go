package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pumpwatch/internal/types"
)

// MongoArchive stores one document per run, preserving the per-city
// result shape so historical runs can be queried later.
type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoArchive connects to MongoDB and verifies the connection.
func NewMongoArchive(uri, database, collection string, logger *slog.Logger) (*MongoArchive, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo archive: %w", types.ErrSinkNotConfigured)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoArchive{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_archive"),
	}, nil
}

func (s *MongoArchive) Name() string { return "mongodb" }

func (s *MongoArchive) Write(ctx context.Context, results *types.RunResults, meta types.RunMeta) error {
	cities := make(bson.D, 0, len(results.Cities))
	for _, city := range results.Cities {
		if city.Failed() {
			cities = append(cities, bson.E{Key: city.City, Value: bson.D{{Key: "error", Value: city.Err}}})
			continue
		}
		stations := make([]bson.D, 0, len(city.Stations))
		for _, rec := range city.Stations {
			stations = append(stations, stationDoc(rec))
		}
		cities = append(cities, bson.E{Key: city.City, Value: stations})
	}

	doc := bson.D{
		{Key: "run_timestamp", Value: meta.Timestamp},
		{Key: "run_label", Value: meta.Label},
		{Key: "cities", Value: cities},
	}

	wctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.collection.InsertOne(wctx, doc); err != nil {
		return &types.SinkError{Sink: s.Name(), Err: err}
	}

	s.logger.Info("run archived in mongodb", "cities", len(results.Cities))
	return nil
}

// stationDoc mirrors the JSON field layout so the archive and the file
// outputs stay comparable. Grades the station never reported are omitted.
func stationDoc(rec *types.StationRecord) bson.D {
	doc := bson.D{
		{Key: "name", Value: rec.Name},
		{Key: "station_url", Value: rec.StationURL},
		{Key: "address", Value: rec.Address},
	}
	for _, grade := range types.Grades {
		if price := rec.Price(grade); price != nil {
			doc = append(doc, bson.E{Key: string(grade), Value: *price})
		}
		if updated := rec.Updated(grade); updated != nil {
			doc = append(doc, bson.E{Key: string(grade) + "_updated", Value: *updated})
		}
	}
	return doc
}

func (s *MongoArchive) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
