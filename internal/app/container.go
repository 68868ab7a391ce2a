package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pawmates/shelter-visit-backend/internal/api"
	"github.com/pawmates/shelter-visit-backend/internal/auth"
	"github.com/pawmates/shelter-visit-backend/internal/booking"
	"github.com/pawmates/shelter-visit-backend/internal/feedback"
	"github.com/pawmates/shelter-visit-backend/internal/pet"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/storage"
	"github.com/pawmates/shelter-visit-backend/internal/rewards"
	"github.com/pawmates/shelter-visit-backend/internal/shelter"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction         bool
	ProdOrigins          string
	DBPool               *pgxpool.Pool
	JWTSecret            string
	JWTTTL               time.Duration
	Storage              storage.Storage
	RewardFeedbackPoints int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Shelter Module
	shelterRepo := shelter.NewPgxRepository(cfg.DBPool)
	shelterService := shelter.NewService(shelterRepo)

	// Pet Module
	petRepo := pet.NewPgxRepository(cfg.DBPool)
	petService := pet.NewService(petRepo, shelterService, cfg.Storage)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, shelterService, petService)

	// Rewards Module
	rewardsRepo := rewards.NewPgxRepository(cfg.DBPool)
	rewardsService := rewards.NewService(rewardsRepo)

	// Feedback Module
	feedbackRepo := feedback.NewPgxRepository(cfg.DBPool)
	feedbackService := feedback.NewService(feedbackRepo, bookingService, rewardsService, cfg.RewardFeedbackPoints)

	// API Router Config
	routerParams := api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		ShelterService:  shelterService,
		PetService:      petService,
		BookingService:  bookingService,
		FeedbackService: feedbackService,
		RewardsService:  rewardsService,
		JWTManager:      jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
