package routes

import (
	"net/http"
	"time"

	"salonbiz-backend/config"
	"salonbiz-backend/controllers"
	"salonbiz-backend/models"
	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the router needs to build its controllers.
type Deps struct {
	Services    *services.Services
	Logger      *zap.Logger
	Metrics     *config.Metrics
	CORSOrigins []string
	Location    *time.Location
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.TracingMiddleware())
	r.Use(config.PerformanceLogger(d.Logger, d.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	svc := d.Services
	requireAuth := utils.AuthMiddleware(svc.Auth)

	authController := controllers.NewAuthController(svc.Auth, d.Logger)
	auth := r.Group("/auth")
	{
		auth.POST("/register/", authController.Register)
		auth.POST("/login/", authController.Login)
		auth.POST("/token/refresh/", authController.Refresh)

		auth.POST("/logout/", requireAuth, authController.Logout)
		auth.GET("/profile/", requireAuth, authController.GetProfile)
		auth.PUT("/profile/update/", requireAuth, authController.UpdateProfile)
		auth.PATCH("/profile/update/", requireAuth, authController.UpdateProfile)
	}

	api := r.Group("/api")
	api.Use(requireAuth)
	{
		orderController := controllers.NewOrderController(svc.Orders, svc.Reports, d.Location, d.Logger)
		orders := api.Group("/orders")
		{
			orders.GET("/", orderController.List)
			orders.POST("/", orderController.Create)
			orders.POST("/create_with_items/", orderController.Create)
			orders.GET("/statistics/", orderController.Statistics)
			orders.GET("/today/", orderController.Today)
			orders.GET("/this_month/", orderController.ThisMonth)
			orders.GET("/income/", orderController.Income)
			orders.GET("/expense/", orderController.Expense)
			orders.GET("/by_customer/", orderController.ByCustomer)
			orders.GET("/:id/", orderController.Get)
			orders.PUT("/:id/", orderController.Update)
			orders.PATCH("/:id/", orderController.Update)
			orders.DELETE("/:id/", orderController.Delete)
			orders.POST("/:id/recompute_total/", orderController.RecomputeTotal)
		}

		lineController := controllers.NewOrderItemLineController(svc.Orders, d.Logger)
		lines := api.Group("/order-item-lines")
		{
			lines.GET("/", lineController.List)
			lines.POST("/", lineController.Create)
			lines.GET("/:id/", lineController.Get)
			lines.PUT("/:id/", lineController.Update)
			lines.PATCH("/:id/", lineController.Update)
			lines.DELETE("/:id/", lineController.Delete)
		}

		itemController := controllers.NewOrderItemController(svc.Catalog, d.Logger)
		items := api.Group("/order-items")
		{
			items.GET("/", itemController.List)
			items.POST("/", itemController.Create)
			items.GET("/low_stock/", itemController.LowStock)
			items.GET("/:id/", itemController.Get)
			items.PUT("/:id/", itemController.Update)
			items.PATCH("/:id/", itemController.Update)
			items.DELETE("/:id/", itemController.Delete)
		}

		registerLabels(api.Group("/order-types"),
			controllers.NewLabelController[models.OrderType](svc.OrderTypes, controllers.SerializeOrderType, d.Logger))
		registerLabels(api.Group("/payment-types"),
			controllers.NewLabelController[models.PaymentType](svc.PaymentTypes, controllers.SerializePaymentType, d.Logger))

		customerController := controllers.NewCustomerController(svc.Customers, d.Logger)
		customers := api.Group("/customers")
		{
			customers.GET("/", customerController.List)
			customers.POST("/", customerController.Create)
			customers.GET("/active/", customerController.Active)
			customers.GET("/search_advanced/", customerController.SearchAdvanced)
			customers.GET("/:id/", customerController.Get)
			customers.PUT("/:id/", customerController.Update)
			customers.PATCH("/:id/", customerController.Update)
			customers.DELETE("/:id/", customerController.Delete)
			customers.POST("/:id/activate/", customerController.Activate)
			customers.POST("/:id/deactivate/", customerController.Deactivate)
		}

		typeController := controllers.NewAppointmentTypeController(svc.AppointmentTypes, d.Logger)
		types := api.Group("/appointment-types")
		{
			types.GET("/", typeController.List)
			types.POST("/", typeController.Create)
			types.GET("/:id/", typeController.Get)
			types.PUT("/:id/", typeController.Update)
			types.PATCH("/:id/", typeController.Update)
			types.DELETE("/:id/", typeController.Delete)
		}

		appointmentController := controllers.NewAppointmentController(svc.Appointments, d.Logger)
		appointments := api.Group("/appointments")
		{
			appointments.GET("/", appointmentController.List)
			appointments.POST("/", appointmentController.Create)
			appointments.GET("/today/", appointmentController.Today)
			appointments.GET("/upcoming/", appointmentController.Upcoming)
			appointments.GET("/by_customer/", appointmentController.ByCustomer)
			appointments.GET("/:id/", appointmentController.Get)
			appointments.PUT("/:id/", appointmentController.Update)
			appointments.PATCH("/:id/", appointmentController.Update)
			appointments.DELETE("/:id/", appointmentController.Delete)
			appointments.POST("/:id/confirm/", appointmentController.Confirm)
			appointments.POST("/:id/cancel/", appointmentController.Cancel)
		}

		reminderController := controllers.NewReminderController(svc.Templates, d.Logger)
		api.GET("/reminder-logs/", reminderController.ListLogs)
		templates := api.Group("/reminder-templates")
		{
			templates.GET("/", reminderController.ListTemplates)
			templates.POST("/", reminderController.CreateTemplate)
			templates.GET("/:id/", reminderController.GetTemplate)
			templates.PUT("/:id/", reminderController.UpdateTemplate)
			templates.PATCH("/:id/", reminderController.UpdateTemplate)
			templates.DELETE("/:id/", reminderController.DeleteTemplate)
		}

		dashboardController := controllers.NewDashboardController(svc.Dashboard, d.Logger)
		api.GET("/dashboard/", dashboardController.Overview)
	}

	return r
}

type crud interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

func registerLabels(g *gin.RouterGroup, h crud) {
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Update)
	g.DELETE("/:id/", h.Delete)
}
