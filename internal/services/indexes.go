package services

import (
	"context"
	"log"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureModerationIndexes creates the indexes the engine queries against.
// Safe to run on every startup.
func EnsureModerationIndexes(ctx context.Context) {
	ensure(ctx, guidelinesCollection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "version", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "is_active", Value: 1}},
		},
	)

	ensure(ctx, casesCollection,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "content.content_type", Value: 1},
				{Key: "content.content_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "human_review.required", Value: 1},
				{Key: "human_review.reviewed", Value: 1},
				{Key: "automated.risk_score", Value: -1},
			},
		},
	)

	ensure(ctx, reportsCollection,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "priority_rank", Value: -1},
				{Key: "risk_score", Value: -1},
				{Key: "created_at", Value: 1},
			},
		},
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "reported_content.content_type", Value: 1},
				{Key: "reported_content.content_id", Value: 1},
			},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "reporter", Value: 1}, {Key: "created_at", Value: -1}},
		},
	)

	ensure(ctx, violationsCollection,
		mongo.IndexModel{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "related_report", Value: 1}},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "is_expired", Value: 1}, {Key: "expires_at", Value: 1}},
		},
	)
}

func ensure(ctx context.Context, collection string, indexes ...mongo.IndexModel) {
	_, err := database.DB.Collection(collection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("⚠️ Failed to create indexes on %s: %v", collection, err)
		return
	}
	log.Printf("✅ Indexes ensured on %s", collection)
}
