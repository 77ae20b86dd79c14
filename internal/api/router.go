package api

import (
	v1 "github.com/Bedotech/smartbook/internal/api/v1"
	"github.com/Bedotech/smartbook/internal/config"
	"github.com/Bedotech/smartbook/internal/rest/middleware"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health *v1.HealthHandler
	Tax    *v1.TaxHandler
	Report *v1.ReportHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ScopeMiddleware(cfg))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Tax rule routes
	rules := router.Group("/tax/rules")
	{
		rules.POST("", handlers.Tax.CreateTaxRule)
		rules.GET("", handlers.Tax.ListTaxRules)
		rules.GET("/active", handlers.Tax.GetActiveTaxRule)
		rules.POST("/validate", handlers.Tax.ValidateTaxRule)
		rules.GET("/:id", handlers.Tax.GetTaxRule)
		rules.PUT("/:id", handlers.Tax.UpdateTaxRule)
		rules.DELETE("/:id", handlers.Tax.DeleteTaxRule)
	}

	// Calculation routes
	calculations := router.Group("/tax/calculations")
	{
		calculations.GET("", handlers.Tax.CalculateTaxForDateRange)
		calculations.GET("/bookings/:id", handlers.Tax.CalculateTaxForBooking)
	}

	// Report routes
	reports := router.Group("/tax/reports")
	{
		reports.GET("/monthly", handlers.Report.MonthlyReport)
		reports.GET("/quarterly", handlers.Report.QuarterlyReport)
		reports.GET("/bookings", handlers.Report.BookingDetailReport)
	}
}
