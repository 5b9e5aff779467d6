package routes

import (
	"github.com/AnshRaj112/sentinel-backend/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r *chi.Mux) {
	// Moderator auth routes
	r.Post("/api/auth/signin", handlers.ModeratorSignin)
	r.Post("/api/auth/signout", handlers.ModeratorSignout)

	// Community guidelines
	r.Get("/api/guidelines", handlers.GetGuidelines)
	r.Post("/api/admin/guidelines", handlers.PublishGuidelines)

	// Report intake (platform users)
	r.Post("/api/reports", handlers.SubmitReport)
	r.Get("/api/reports/mine", handlers.GetMyReports)
	r.Get("/api/reports/{id}", handlers.GetReport)
	r.Post("/api/reports/{id}/appeal", handlers.AppealReport)
	r.Post("/api/reports/evidence", handlers.UploadEvidence)

	// Review queue and report resolution (moderators)
	r.Get("/api/moderation/queue", handlers.GetReportQueue)
	r.Post("/api/moderation/reports/{id}/review", handlers.ReviewReport)
	r.Post("/api/moderation/reports/{id}/appeal/review", handlers.ReviewReportAppeal)

	// Moderation cases (moderators)
	r.Get("/api/moderation/cases", handlers.GetCasesRequiringReview)
	r.Get("/api/moderation/cases/high-risk", handlers.GetHighRiskCases)
	r.Get("/api/moderation/cases/{id}", handlers.GetCase)
	r.Post("/api/moderation/cases/{id}/decide", handlers.DecideCase)

	// Violations and strikes
	r.Get("/api/violations/mine", handlers.GetMyViolations)
	r.Post("/api/violations/{id}/appeal", handlers.AppealViolation)
	r.Get("/api/moderation/users/{id}/violations", handlers.GetUserViolations)
	r.Post("/api/moderation/violations/{id}/appeal/review", handlers.ReviewViolationAppeal)

	// Live moderation event feed (moderators)
	r.Get("/ws/moderation", handlers.ModerationFeed)
}
