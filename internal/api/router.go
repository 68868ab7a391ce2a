package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pawmates/shelter-visit-backend/internal/auth"
	"github.com/pawmates/shelter-visit-backend/internal/booking"
	bookingHttp "github.com/pawmates/shelter-visit-backend/internal/booking/http"
	"github.com/pawmates/shelter-visit-backend/internal/feedback"
	feedbackHttp "github.com/pawmates/shelter-visit-backend/internal/feedback/http"
	"github.com/pawmates/shelter-visit-backend/internal/pet"
	petHttp "github.com/pawmates/shelter-visit-backend/internal/pet/http"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/metrics"
	"github.com/pawmates/shelter-visit-backend/internal/rewards"
	rewardsHttp "github.com/pawmates/shelter-visit-backend/internal/rewards/http"
	"github.com/pawmates/shelter-visit-backend/internal/shelter"
	shelterHttp "github.com/pawmates/shelter-visit-backend/internal/shelter/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	ShelterService  shelter.Service
	PetService      pet.Service
	BookingService  booking.Service
	FeedbackService feedback.Service
	RewardsService  rewards.Service
	JWTManager      *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for all modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Mobile app dev server
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: validates the identity-provider token.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// staffMiddleware: further requires the staff claim.
	staffMiddleware := auth.StaffRequired()

	// Operational endpoints.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	shelterHandler := shelterHttp.NewHandler(cfg.ShelterService)
	petHandler := petHttp.NewHandler(cfg.PetService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	feedbackHandler := feedbackHttp.NewHandler(cfg.FeedbackService)
	rewardsHandler := rewardsHttp.NewHandler(cfg.RewardsService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		shelterHttp.RegisterRoutes(v1, shelterHandler)
		petHttp.RegisterRoutes(v1, petHandler, authMiddleware, staffMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, staffMiddleware)
		feedbackHttp.RegisterRoutes(v1, feedbackHandler, authMiddleware)
		rewardsHttp.RegisterRoutes(v1, rewardsHandler, authMiddleware)
	}

	return r
}
