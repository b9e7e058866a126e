// Package httpapi exposes the primary ports over HTTP with gin.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/example/desas/internal/auth"
	"github.com/example/desas/internal/ports/primary"
)

// DefaultRequestTimeout bounds every request, including notification delivery.
const DefaultRequestTimeout = 10 * time.Second

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Services bundles the primary ports served over HTTP.
type Services struct {
	Events    primary.EventService
	Duties    primary.DutyService
	Guards    primary.GuardService
	Users     primary.UserService
	Logs      primary.MessageLogService
	Reviews   primary.ReviewService
	Dashboard primary.DashboardService
}

// Options tunes the router.
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(svc Services, tokens TokenParser, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(opts.Logger))
	r.Use(deadline(opts.RequestTimeout))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", requestIDHeader},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &handler{svc: svc, logger: opts.Logger}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/login", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
			"next":  c.Query("next"),
			"hint":  "run 'desas auth token <username>' and send it as 'Authorization: Bearer <token>'",
		})
	})
	r.GET("/unauthorized", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
	})

	api := r.Group("/api", authenticate(tokens))
	{
		api.GET("/me", h.whoAmI)

		events := api.Group("/events")
		{
			events.POST("", h.registerEvent)
			events.GET("", h.listEvents)
			events.GET("/:id", h.getEvent)
			events.POST("/:id/approve", h.approveEvent)
			events.POST("/:id/reject", h.rejectEvent)
			events.POST("/:id/complete", h.completeEvent)
			events.POST("/:id/reviews", h.addReview)
		}

		duties := api.Group("/duties")
		{
			duties.POST("", h.assignDuty)
			duties.GET("", h.listAssignments)
			duties.GET("/:id", h.getAssignment)
			duties.PUT("/:id/guards", h.updateAssignmentGuards)
			duties.POST("/:id/reject", h.rejectAssignment)
			duties.POST("/:id/complete", h.completeAssignment)
		}

		guards := api.Group("/guards")
		{
			guards.GET("", h.listGuards)
			guards.POST("/:id/approve", h.approveGuard)
			guards.POST("/:id/reject", h.rejectGuard)
		}

		api.GET("/reviews", h.listReviews)
		api.GET("/dashboard", h.getDashboard)
		api.GET("/messages", h.listMessageLogs)
	}

	return r
}

type handler struct {
	svc    Services
	logger *slog.Logger
}
