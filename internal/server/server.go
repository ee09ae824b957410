package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/stackhpc/coral-credits/internal/account"
	accountdomain "github.com/stackhpc/coral-credits/internal/account/domain"
	"github.com/stackhpc/coral-credits/internal/allocation"
	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
	"github.com/stackhpc/coral-credits/internal/config"
	"github.com/stackhpc/coral-credits/internal/consumer"
	consumerdomain "github.com/stackhpc/coral-credits/internal/consumer/domain"
	"github.com/stackhpc/coral-credits/internal/exporter"
	"github.com/stackhpc/coral-credits/internal/observability"
	obsmiddleware "github.com/stackhpc/coral-credits/internal/observability/logger"
	"github.com/stackhpc/coral-credits/internal/provider"
	providerdomain "github.com/stackhpc/coral-credits/internal/provider/domain"
	"github.com/stackhpc/coral-credits/internal/quota"
	"github.com/stackhpc/coral-credits/internal/resourceclass"
	resourceclassdomain "github.com/stackhpc/coral-credits/internal/resourceclass/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	resourceclass.Module,
	provider.Module,
	account.Module,
	allocation.Module,
	quota.Module,
	consumer.Module,
	exporter.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	classSvc      resourceclassdomain.Service
	providerSvc   providerdomain.Service
	accountSvc    accountdomain.Service
	allocationSvc allocationdomain.Service
	consumerSvc   consumerdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	ClassSvc      resourceclassdomain.Service
	ProviderSvc   providerdomain.Service
	AccountSvc    accountdomain.Service
	AllocationSvc allocationdomain.Service
	ConsumerSvc   consumerdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		classSvc:      p.ClassSvc,
		providerSvc:   p.ProviderSvc,
		accountSvc:    p.AccountSvc,
		allocationSvc: p.AllocationSvc,
		consumerSvc:   p.ConsumerSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Admission --------
	v1.POST("/resource-requests", s.CreateResourceRequest)
	v1.PUT("/resource-requests", s.UpdateResourceRequest)
	v1.DELETE("/resource-requests", s.DeleteResourceRequest)
	v1.POST("/resource-requests/check-create", s.CheckCreateResourceRequest)
	v1.POST("/resource-requests/check-update", s.CheckUpdateResourceRequest)

	// -------- Resource classes --------
	v1.GET("/resource-classes", s.ListResourceClasses)
	v1.POST("/resource-classes", s.CreateResourceClass)

	// -------- Providers --------
	v1.GET("/providers", s.ListProviders)
	v1.POST("/providers", s.CreateProvider)
	v1.GET("/provider-accounts", s.ListProviderAccounts)
	v1.POST("/provider-accounts", s.CreateProviderAccount)

	// -------- Accounts --------
	v1.GET("/accounts", s.ListAccounts)
	v1.POST("/accounts", s.CreateAccount)
	v1.GET("/accounts/:id/summary", s.GetAccountSummary)

	// -------- Allocations --------
	v1.GET("/accounts/:id/allocations", s.ListAllocations)
	v1.POST("/allocations", s.CreateAllocation)
	v1.POST("/allocations/:id/resources", s.AllocateCredit)
}
