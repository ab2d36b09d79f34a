package routes

import (
	"time"

	"havenly/config"
	"havenly/handlers"
	"havenly/middleware"
	"havenly/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := api.Group("/auth")
	{
		// Credential endpoints get the stricter limiter.
		public := auth.Group("")
		public.Use(middleware.RateLimitMiddleware(hb.AuthLimiter))
		public.POST("/register", hb.Auth.RegisterHandler)
		public.POST("/login", hb.Auth.LoginHandler)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Users, hb.Tokens))
		protected.GET("/me", hb.Auth.MeHandler)
		protected.POST("/logout", hb.Auth.LogoutHandler)
		protected.PUT("/profile", hb.Auth.UpdateProfileHandler)
		protected.PUT("/password", hb.Auth.ChangePasswordHandler)
	}
}

// RegisterUserRoutes registers favorites.
func RegisterUserRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	users := api.Group("/users")
	users.Use(middleware.JWTAuthMiddleware(hb.Users, hb.Tokens))
	{
		users.GET("/favorites", hb.Auth.ListFavoritesHandler)
		users.POST("/favorites/:propertyId", hb.Auth.AddFavoriteHandler)
		users.DELETE("/favorites/:propertyId", hb.Auth.RemoveFavoriteHandler)
	}
}

// RegisterPropertyRoutes registers listing, calendar and image endpoints.
func RegisterPropertyRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	properties := api.Group("/properties")
	{
		properties.GET("", hb.Property.SearchPropertiesHandler)

		// Owners and admins may see unapproved listings.
		public := properties.Group("/:id")
		public.Use(middleware.OptionalAuthMiddleware(hb.Users, hb.Tokens))
		public.GET("", hb.Property.GetPropertyHandler)
		public.GET("/availability", hb.Property.AvailabilityHandler)
		public.GET("/quote", hb.Property.QuoteHandler)
		public.GET("/reviews", hb.Property.ListReviewsHandler)
		public.GET("/blocked-dates", hb.Property.ListBlockedDatesHandler)

		hosts := properties.Group("")
		hosts.Use(
			middleware.JWTAuthMiddleware(hb.Users, hb.Tokens),
			middleware.RequireRoles(models.RoleHost, models.RoleAdmin),
		)
		hosts.GET("/host/mine", hb.Property.ListMyPropertiesHandler)
		hosts.POST("", hb.Property.CreatePropertyHandler)
		// Ownership is checked by the service.
		hosts.PUT("/:id", hb.Property.UpdatePropertyHandler)
		hosts.DELETE("/:id", hb.Property.DeletePropertyHandler)
		hosts.POST("/:id/images", hb.Property.UploadImagesHandler)
		hosts.DELETE("/:id/images/*publicId", hb.Property.DeleteImageHandler)
		hosts.POST("/:id/blocked-dates", hb.Property.BlockDatesHandler)
		hosts.DELETE("/:id/blocked-dates", hb.Property.UnblockDatesHandler)
	}
}

// RegisterBookingRoutes registers booking lifecycle and payment endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	bookings.Use(middleware.JWTAuthMiddleware(hb.Users, hb.Tokens))
	{
		bookings.POST("", hb.Booking.CreateBookingHandler)
		bookings.GET("/mine", hb.Booking.MyBookingsHandler)
		bookings.GET("/host", middleware.RequireRoles(models.RoleHost, models.RoleAdmin), hb.Booking.HostBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetBookingHandler)
		bookings.PATCH("/:id/confirm", hb.Booking.ConfirmBookingHandler)
		bookings.PATCH("/:id/cancel", hb.Booking.CancelBookingHandler)
		bookings.PATCH("/:id/complete", hb.Booking.CompleteBookingHandler)
		bookings.POST("/:id/payment-intent", hb.Booking.PaymentIntentHandler)
		bookings.POST("/:id/payment-confirm", hb.Booking.ConfirmPaymentHandler)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	reviews := api.Group("/reviews")
	reviews.Use(middleware.JWTAuthMiddleware(hb.Users, hb.Tokens))
	{
		reviews.POST("", hb.Review.CreateReviewHandler)
		reviews.PUT("/:id/response", hb.Review.RespondHandler)
		reviews.POST("/:id/report", hb.Review.ReportHandler)
		reviews.DELETE("/:id", hb.Review.DeleteReviewHandler)
	}
}

// RegisterGeocodeRoutes registers the Nominatim proxy.
func RegisterGeocodeRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	geo := api.Group("/geocode")
	{
		geo.GET("/search", hb.Geocode.SearchHandler)
		geo.GET("/reverse", hb.Geocode.ReverseHandler)
	}
}

// RegisterLegalRoute serves the policy documents.
func RegisterLegalRoute(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/legal", middleware.OptionalAuthMiddleware(hb.Users, hb.Tokens), hb.Admin.LegalHandler)
}

// RegisterAdminRoutes registers admin endpoints.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	admin := api.Group("/admin")
	admin.Use(
		middleware.JWTAuthMiddleware(hb.Users, hb.Tokens),
		middleware.RequireRoles(models.RoleAdmin),
	)
	{
		admin.GET("/stats", hb.Admin.StatsHandler)

		admin.GET("/users", hb.Admin.ListUsersHandler)
		admin.PATCH("/users/:id/role", hb.Admin.UpdateRoleHandler)
		admin.PATCH("/users/:id/status", hb.Admin.UpdateStatusHandler)
		admin.DELETE("/users/:id", hb.Admin.DeleteUserHandler)

		admin.GET("/properties/pending", hb.Admin.PendingPropertiesHandler)
		admin.PATCH("/properties/:id/approve", hb.Admin.ApprovePropertyHandler)
		admin.PATCH("/properties/:id/reject", hb.Admin.RejectPropertyHandler)

		admin.GET("/bookings", hb.Admin.ListBookingsHandler)

		admin.GET("/reviews/reported", hb.Admin.ReportedReviewsHandler)
		admin.PATCH("/reviews/:id/hide", hb.Admin.HideReviewHandler)
		admin.PATCH("/reviews/:id/dismiss", hb.Admin.DismissReportsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes registers all API routes.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := config.AllowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: !(len(origins) == 1 && origins[0] == "*"),
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(hb.APILimiter))
	RegisterAuthRoutes(api, hb)
	RegisterUserRoutes(api, hb)
	RegisterPropertyRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterReviewRoutes(api, hb)
	RegisterGeocodeRoutes(api, hb)
	RegisterLegalRoute(api, hb)
	RegisterAdminRoutes(api, hb)
}
