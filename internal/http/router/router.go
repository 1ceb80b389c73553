package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ignatzorin/freelance-ledger/internal/config"
	"github.com/ignatzorin/freelance-ledger/internal/http/handlers"
	"github.com/ignatzorin/freelance-ledger/internal/http/middleware"
)

// Handlers - обработчики, которые монтирует роутер.
type Handlers struct {
	Profile  *handlers.ProfileHandler
	Contract *handlers.ContractHandler
	Job      *handlers.JobHandler
	Balance  *handlers.BalanceHandler
	Report   *handlers.ReportHandler
	Health   *handlers.HealthHandler
	WS       *handlers.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers, profiles middleware.ProfileLookup, limitStore limiter.Store) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.OtelEnabled {
		r.Use(otelgin.Middleware(cfg.OtelServiceName))
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	auth := middleware.ProfileAuth(profiles)
	limit := middleware.RateLimitMiddleware(limitStore, cfg.RateLimitLimit, cfg.RateLimitPeriod)

	// Публичные маршруты
	r.POST("/profiles", h.Profile.Create)
	r.GET("/profiles", h.Profile.List)
	r.POST("/jobs", h.Job.Create)
	r.GET("/ws", middleware.ProfileAuthFromQuery(profiles), h.WS.Handle)

	protected := r.Group("/")
	protected.Use(auth)
	{
		protected.GET("/profiles/me", h.Profile.Me)

		protected.POST("/contracts", h.Contract.Create)
		protected.GET("/contracts", h.Contract.List)
		protected.GET("/contracts/:id", middleware.IDParam("id"), h.Contract.Get)

		protected.GET("/jobs/unpaid", h.Job.ListUnpaid)
		protected.POST("/jobs/:job_id/pay", limit, middleware.IDParam("job_id"), h.Job.Pay)

		protected.POST("/balances/deposit/:user_id", limit, middleware.IDParam("user_id"), h.Balance.Deposit)
	}

	admin := r.Group("/admin")
	admin.Use(limit)
	{
		admin.GET("/best-profession", h.Report.BestProfession)
		admin.GET("/best-clients", h.Report.BestClients)
		admin.GET("/best-clients/export", h.Report.ExportBestClients)
	}

	return r
}
