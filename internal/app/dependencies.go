package app

import (
	"database/sql"

	"github.com/fieldbeat/fieldbeat/internal/config"
	"github.com/fieldbeat/fieldbeat/internal/event_bus"
	"github.com/fieldbeat/fieldbeat/internal/utils"
	"github.com/fieldbeat/fieldbeat/pkg/builder"
	"github.com/fieldbeat/fieldbeat/pkg/calendarimport"
	"github.com/fieldbeat/fieldbeat/pkg/google"
	"github.com/fieldbeat/fieldbeat/pkg/job"
	"github.com/fieldbeat/fieldbeat/pkg/review"
	"github.com/fieldbeat/fieldbeat/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	GoogleAuth    *google.GoogleAuth
	GoogleService google.Service
	GoogleHandler *google.Handler

	BuilderRepo    builder.Repo
	BuilderService *builder.ServiceImpl
	BuilderHandler *builder.Handler

	JobRepo    job.Repo
	JobService *job.ServiceImpl
	JobHandler *job.Handler

	ReviewRepo    review.Repo
	ReviewService *review.ServiceImpl
	ReviewHandler *review.Handler

	ImportLogRepo calendarimport.LogRepo
	ImportService *calendarimport.ServiceImpl
	ImportHandler *calendarimport.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.UserService, cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	deps.BuilderRepo = builder.NewBuilderRepo(db)
	deps.BuilderService = builder.NewBuilderService(deps.BuilderRepo)
	deps.BuilderHandler = builder.NewHandler(deps.BuilderService)

	deps.JobRepo = job.NewJobRepo(db)
	deps.JobService = job.NewJobService(deps.JobRepo, deps.EventBus)
	deps.JobHandler = job.NewHandler(deps.JobService)

	deps.ReviewRepo = review.NewReviewRepo(db)
	deps.ReviewService = review.NewReviewService(deps.ReviewRepo)
	deps.ReviewHandler = review.NewHandler(deps.ReviewService)

	deps.ImportLogRepo = calendarimport.NewLogRepo(db)
	deps.ImportService = calendarimport.NewService(
		deps.JobService,
		deps.ReviewService,
		deps.BuilderService,
		deps.ImportLogRepo,
		google.NewEventsSource(deps.GoogleService),
		deps.EventBus,
		calendarimport.ScoringConfigFrom(cfg.Import),
	)
	deps.ImportHandler = calendarimport.NewHandler(deps.ImportService)

	return deps
}
