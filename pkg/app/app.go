// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yvesmh/harmonia/pkg/cache"
	"github.com/yvesmh/harmonia/pkg/configs"
	"github.com/yvesmh/harmonia/pkg/internal/jobs"
	"github.com/yvesmh/harmonia/pkg/internal/router"
	"github.com/yvesmh/harmonia/pkg/internal/storage"
	"github.com/yvesmh/harmonia/pkg/log"
	"github.com/yvesmh/harmonia/pkg/metrics"
	"github.com/yvesmh/harmonia/pkg/middleware"
	"github.com/yvesmh/harmonia/pkg/scheduler"
	"github.com/yvesmh/harmonia/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Engine  *gin.Engine
	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	log.Init()
	l := log.Logger()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.New(ctx, config)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.AuthMiddleware(config.Auth),
		middleware.RoleMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.Breaker),
		middleware.StorageMiddleware(manager),
	)

	// 定时对账任务
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager, config); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	engine.Use(middleware.SchedulerMiddleware(sched))

	// 画廊路由的响应缓存复用 KV 后端
	var kc *cache.Cache
	if kvc := manager.GetKVClient(); kvc != nil {
		kc = cache.NewCache(kvc)
	}

	router.RegisterAPIRoutes(engine, kc)
	router.RegisterSwaggerRoute(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

// Run 启动 HTTP 服务并阻塞至收到退出信号，随后优雅关闭：
// 先停调度器避免新的对账写入，再关 HTTP，最后释放存储连接.
func (a *App) Run() error {
	l := log.Logger()

	a.sched.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	l.Info().Str("addr", srv.Addr).Msg("harmonia listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		l.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), shutdownTimeout)
	defer cancel()

	if err := a.sched.Shutdown(); err != nil {
		l.Warn().Err(err).Msg("scheduler shutdown failed")
	}

	if err := srv.Shutdown(ctx); err != nil {
		l.Warn().Err(err).Msg("http server shutdown failed")
	}

	if err := a.manager.Close(); err != nil {
		l.Warn().Err(err).Msg("storage close failed")
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		l.Warn().Err(err).Msg("tracer shutdown failed")
	}

	return nil
}
