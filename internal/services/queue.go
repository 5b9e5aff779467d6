package services

import (
	"context"
	"errors"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var openReportStatuses = []models.ReportStatus{
	models.ReportStatusPending,
	models.ReportStatusUnderReview,
	models.ReportStatusEscalated,
}

// PendingReports returns the review queue: open reports ordered by priority,
// then automated risk, then age. Both sort keys are denormalized onto the
// report document so a single indexed sort serves the queue.
func PendingReports(ctx context.Context, limit int64) ([]models.ContentReport, error) {
	filter := bson.M{"status": bson.M{"$in": openReportStatuses}}
	opts := options.Find().
		SetSort(bson.D{
			{Key: "priority_rank", Value: -1},
			{Key: "risk_score", Value: -1},
			{Key: "created_at", Value: 1},
		}).
		SetLimit(limit)

	cursor, err := database.DB.Collection(reportsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.ContentReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func ReportByID(ctx context.Context, id primitive.ObjectID) (*models.ContentReport, error) {
	var report models.ContentReport
	err := database.DB.Collection(reportsCollection).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound("report")
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportsByReporter returns a user's own reports, newest first.
func ReportsByReporter(ctx context.Context, reporter primitive.ObjectID, limit int64) ([]models.ContentReport, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := database.DB.Collection(reportsCollection).
		Find(ctx, bson.M{"reporter": reporter}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.ContentReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
