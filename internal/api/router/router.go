package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/handler"
)

const greeting = "Hello from SoloSphere Server...."

// Options configures the parts of the router that are not handlers
type Options struct {
	ServiceName    string
	AllowedOrigins []string
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, opts Options) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware(opts.AllowedOrigins))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, greeting)
	})

	r.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health.HealthCheck(c.Request.Context()); err != nil {
				deps.Logger.Error("Health check failed", slog.String("error", err.Error()))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": opts.ServiceName,
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	})

	sessionHandler := handler.NewSessionHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	bidHandler := handler.NewBidHandler(deps)

	// Session
	r.POST("/jwt", sessionHandler.Issue)
	r.GET("/logout", sessionHandler.Logout)

	// Jobs
	r.POST("/add-job", jobHandler.CreateJob)
	r.GET("/jobs", jobHandler.ListJobs)
	r.GET("/jobs/:email", deps.Guard.RequireOwner("email"), jobHandler.ListOwnerJobs)
	r.GET("/job/:id", jobHandler.GetJob)
	r.PUT("/update-job/:id", jobHandler.UpdateJob)
	r.DELETE("/job/:id", deps.Guard.RequireSession(), jobHandler.DeleteJob)
	r.GET("/all-jobs", jobHandler.SearchJobs)
	r.GET("/jobs-count", jobHandler.CountJobs)

	// Bids
	r.POST("/add-bid", bidHandler.PlaceBid)
	r.GET("/bids/:email", deps.Guard.RequireOwner("email"), bidHandler.ListBids)
	r.GET("/bid-requests/:email", deps.Guard.RequireOwner("email"), bidHandler.ListBidRequests)
	r.PATCH("/bid-status-update/:id", bidHandler.UpdateBidStatus)

	return r
}
