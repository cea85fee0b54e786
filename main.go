package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"report-assistant/api/handler"
	"report-assistant/api/router"
	"report-assistant/config"
	"report-assistant/job"
	"report-assistant/logger"
	"report-assistant/logic/chat"
	"report-assistant/logic/document"
	"report-assistant/service"
	"report-assistant/storage"
	"report-assistant/storage/memory"
	"report-assistant/storage/postgres"
	"report-assistant/vars"
)

func main() {
	ctx := context.Background()

	// 1. 配置与日志
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("load config failed: %v", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		logger.Log.Fatalf("init logger failed: %v", err)
	}

	// 2. 模型网关，缺少 key 直接退出
	gateway, err := chat.New(ctx, cfg.LLM)
	if err != nil {
		logger.Log.Fatalf("init model gateway failed: %v", err)
	}
	logger.Log.WithFields(logrus.Fields{"provider": cfg.LLM.Provider, "model": gateway.Model()}).Info("model gateway ready")

	// 3. PDF 解析与默认 guidelines
	pdfParser, err := document.NewParser(ctx, cfg.PDF.Engine)
	if err != nil {
		logger.Log.Fatalf("init pdf parser failed: %v", err)
	}
	defaultGuidelines, err := document.LoadGuidelines(ctx, cfg.Guidelines.DefaultPath, pdfParser)
	if err != nil {
		logger.Log.Fatalf("load default guidelines failed: %v", err)
	}

	// 4. 历史存储与定时清理
	store := openStore(cfg.DB)
	scheduler, err := job.StartRetentionJob(store, cfg.History.PurgeSchedule, cfg.History.RetentionDays)
	if err != nil {
		logger.Log.Fatalf("start retention job failed: %v", err)
	}

	// 5. Service 与 Handler
	analysisSvc := service.NewAnalysisService(gateway, document.NewExtractor(pdfParser), store, service.Options{
		Review:            cfg.Analysis.Review,
		CallTimeout:       time.Duration(cfg.Analysis.CallTimeoutSeconds) * time.Second,
		DefaultGuidelines: defaultGuidelines,
	})
	reportHandler := handler.NewReportHandler(analysisSvc, service.NewHistoryService(store), cfg.Server.MaxUploadMB)

	// 6. 启动 Web Server
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.New(reportHandler, cfg.Server.CORSOrigins, cfg.Server.MaxUploadMB),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("%s %s listening on %s", vars.ServiceName, vars.ServiceVersion, cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("graceful shutdown failed")
	}
}

// openStore 配置了 dsn 用 PostgreSQL，否则用内存
func openStore(cfg config.DBConfig) storage.Store {
	if cfg.DSN == "" {
		logger.Log.Info("history store: memory")
		return memory.NewStore()
	}
	db, err := postgres.InitDB(cfg.DSN)
	if err != nil {
		logger.Log.Fatalf("init postgres failed: %v", err)
	}
	logger.Log.Info("history store: postgres")
	return postgres.NewAnalysisRepo(db)
}
