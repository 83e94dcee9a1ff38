package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"staydesk-backend/controllers"
	"staydesk-backend/middleware"
	"staydesk-backend/utils"
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

func SetupRouter(
	ac *controllers.AvailabilityController,
	rc *controllers.ReservationController,
) *gin.Engine {
	r := gin.Default()

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
		// Public availability endpoints, rate limited per client IP.
		rps := float64(utils.EnvIntOrDefault("RATE_LIMIT_RPS", 10))
		burst := utils.EnvIntOrDefault("RATE_LIMIT_BURST", 20)

		availability := api.Group("/availability", middleware.RateLimit(rps, burst))
		{
			availability.GET("", ac.GetAvailability)
			availability.POST("/bulk", ac.BulkAvailability)
			availability.GET("/calendar", ac.GetCalendar)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", controllers.GetProperties)
			properties.POST("", controllers.CreateProperty)
			properties.GET("/:id", controllers.GetProperty)
			properties.PUT("/:id", controllers.UpdateProperty)
			properties.GET("/:id/availability", ac.GetPropertyAvailability)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", controllers.GetRoomTypes)
			roomTypes.POST("", controllers.CreateRoomType)
			roomTypes.PATCH("/:id", controllers.UpdateRoomType)
			roomTypes.DELETE("/:id", controllers.DeleteRoomType)
		}

		units := api.Group("/units")
		{
			units.GET("", controllers.GetUnits)
			units.POST("", controllers.CreateUnit)
			units.PATCH("/:id", controllers.UpdateUnit)
			units.DELETE("/:id", controllers.DeleteUnit)
		}

		reservations := api.Group("/reservations")
		{
			// lookup routes must be registered before /:id
			reservations.GET("/lookup", rc.LookupReservation)
			reservations.POST("/lookup/cancel", rc.CancelByLookup)

			reservations.GET("", rc.GetReservations)
			reservations.POST("", rc.CreateReservation)
			reservations.GET("/:id", rc.GetReservation)
			reservations.POST("/:id/cancel", rc.CancelReservation)
			reservations.POST("/:id/checkin", rc.CheckInReservation)
			reservations.POST("/:id/checkout", rc.CheckoutReservation)
		}
	}

	return r
}
