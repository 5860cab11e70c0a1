package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-channel/controllers"
	"hotel-channel/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the collaborator JSON API under /api and the PMS webhook
// endpoints under /pms.
func SetupRouter(
	bc *controllers.BookingController,
	pc *controllers.PMSController,
	log *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		bookings := api.Group("/bookings/external")
		{
			bookings.POST("", bc.CreateExternalBooking)
			bookings.GET("/:correlationId", bc.GetBookingState)
			bookings.DELETE("/:correlationId", bc.CancelBooking)
		}

		api.GET("/availability/remaining", bc.GetRemainingUnits)
		api.GET("/room-types", controllers.GetRoomTypes)
	}

	// The PMS pushes each family to its own path, but routing is by root
	// element, so every path shares one receiver.
	pms := r.Group("/pms")
	{
		pms.POST("/inventory", pc.Receive)
		pms.POST("/availability", pc.Receive)
		pms.POST("/rateplans", pc.Receive)
		pms.POST("/reservations", pc.Receive)
	}

	return r
}
