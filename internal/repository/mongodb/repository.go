package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const summariesCollection = "daily_summaries"

// SummaryArchive keeps a copy of every daily summary outside the primary database.
type SummaryArchive struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewSummaryArchive connects to MongoDB and verifies the connection.
func NewSummaryArchive(ctx context.Context, uri string, dbName string) (*SummaryArchive, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &SummaryArchive{
		client:   client,
		dbName:   dbName,
		collName: summariesCollection,
	}, nil
}

// Name identifies the archive in logs.
func (a *SummaryArchive) Name() string { return "mongodb" }

// MirrorSummary stores s, replacing any archived document for the same date.
func (a *SummaryArchive) MirrorSummary(ctx context.Context, s models.DailySummary) error {
	collection := a.client.Database(a.dbName).Collection(a.collName)
	_, err := collection.ReplaceOne(ctx,
		bson.M{"date": s.Date},
		summaryDocument(s),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to archive daily summary %s: %w", s.Date.Format("2006-01-02"), err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (a *SummaryArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

func summaryDocument(s models.DailySummary) bson.M {
	return bson.M{
		"summary_id":            s.ID,
		"date":                  s.Date,
		"total_cattle":          s.TotalCattle,
		"male_count":            s.MaleCount,
		"female_count":          s.FemaleCount,
		"calf_count":            s.CalfCount,
		"total_milk_liters":     s.TotalMilkLiters,
		"avg_milk_per_cow":      s.AvgMilkPerCow,
		"feed_hay_used":         s.FeedHayUsed,
		"feed_concentrate_used": s.FeedConcentrateUsed,
		"feed_silage_used":      s.FeedSilageUsed,
		"updated_at":            s.UpdatedAt,
	}
}
