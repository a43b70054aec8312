// Package gateway assembles the HTTP surface: middleware, routes and operational endpoints.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ventaspro/config"
	"ventaspro/internal/cache"
	"ventaspro/internal/gateway/handlers"
	"ventaspro/internal/gateway/middleware"
	commissions "ventaspro/internal/services/commissions/handler"
	pos "ventaspro/internal/services/pos/handler"
	salespeople "ventaspro/internal/services/salespeople/handler"
)

type Dependencies struct {
	Config config.Config
	DB     *gorm.DB
	Cache  *cache.Cache
	Logger *zap.Logger
}

func NewRouter(deps Dependencies) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rateLimit, err := middleware.RateLimit(deps.Config.RateLimit)
	if err != nil {
		return nil, err
	}

	salespersonService := salespeople.NewSalespersonHandler(deps.DB, deps.Cache, logger.Named("salespeople"))
	commissionService := commissions.NewCommissionHandler(deps.DB, deps.Cache, logger.Named("commissions"))
	saleService := pos.NewPOSHandler(deps.DB, commissionService, logger.Named("pos"))

	timeouts := handlers.TimeoutsFrom(deps.Config.HTTP)
	salespersonHandler := handlers.NewSalespersonHTTPHandler(salespersonService, saleService, commissionService, logger, timeouts)
	commissionsHandler := handlers.NewCommissionsHTTPHandler(commissionService, logger, timeouts)
	posHandler := handlers.NewPOSHTTPHandler(saleService, logger, timeouts)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger.Named("http")))
	r.Use(middleware.CORS(deps.Config.HTTP.AllowedOrigins))
	r.Use(middleware.Metrics())

	api := r.Group("/api")
	api.Use(rateLimit)
	{
		vendedores := api.Group("/vendedores")
		{
			vendedores.GET("", salespersonHandler.ListSalespeople)
			vendedores.POST("", salespersonHandler.CreateSalesperson)
			vendedores.GET("/activos", salespersonHandler.ListActiveSalespeople)
			vendedores.GET("/:id", salespersonHandler.GetSalesperson)
			vendedores.PUT("/:id", salespersonHandler.UpdateSalesperson)
			vendedores.DELETE("/:id", salespersonHandler.DeleteSalesperson)
			vendedores.GET("/:id/ventas", salespersonHandler.ListSalespersonSales)
			vendedores.GET("/:id/comisiones", salespersonHandler.ListSalespersonSummaries)
		}

		reglas := api.Group("/reglas")
		{
			reglas.GET("", commissionsHandler.ListRules)
			reglas.POST("", commissionsHandler.CreateRule)
			reglas.GET("/:id", commissionsHandler.GetRule)
			reglas.PUT("/:id", commissionsHandler.UpdateRule)
			reglas.DELETE("/:id", commissionsHandler.DeleteRule)
			reglas.POST("/:id/activar", commissionsHandler.ActivateRule)
			reglas.POST("/:id/desactivar", commissionsHandler.DeactivateRule)
		}

		ventas := api.Group("/ventas")
		{
			ventas.GET("", posHandler.ListSales)
			ventas.POST("", posHandler.CreateSale)
			ventas.GET("/estadisticas", posHandler.SalesStatistics)
			ventas.GET("/:id", posHandler.GetSale)
			ventas.PUT("/:id", posHandler.UpdateSale)
			ventas.DELETE("/:id", posHandler.DeleteSale)
		}

		comisiones := api.Group("/comisiones")
		{
			comisiones.POST("/calcular", commissionsHandler.CalculateCommissions)
			comisiones.GET("/resumen", commissionsHandler.ListSummaries)
			comisiones.GET("/resumen/:id", commissionsHandler.GetSummary)
		}
	}

	r.GET("/health", healthCheckHandler(deps.DB, deps.Cache))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.APIResponse{Success: false, Message: "Route not found"})
	})

	return r, nil
}

// healthCheckHandler reports unhealthy when the database is unreachable and degraded
// when only the cache is.
func healthCheckHandler(db *gorm.DB, summaryCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		services := gin.H{"database": "healthy"}

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			services["database"] = "unavailable"
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}

		switch {
		case !summaryCache.Enabled():
			services["redis"] = "disabled"
		case summaryCache.Ping(ctx) != nil:
			services["redis"] = "unavailable"
			if httpStatus == http.StatusOK {
				status = "degraded"
				httpStatus = http.StatusPartialContent
			}
		default:
			services["redis"] = "healthy"
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"services":  services,
			"timestamp": time.Now(),
		})
	}
}
