// Package main 政府项目存证平台启动入口
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	auditapp "github.com/wyfcoding/attestation/internal/audit/application"
	auditmysql "github.com/wyfcoding/attestation/internal/audit/infrastructure/persistence/mysql"
	auditevents "github.com/wyfcoding/attestation/internal/audit/interfaces/events"
	audithttp "github.com/wyfcoding/attestation/internal/audit/interfaces/http"
	identityapp "github.com/wyfcoding/attestation/internal/identity/application"
	identitydomain "github.com/wyfcoding/attestation/internal/identity/domain"
	identitymysql "github.com/wyfcoding/attestation/internal/identity/infrastructure/persistence/mysql"
	identityhttp "github.com/wyfcoding/attestation/internal/identity/interfaces/http"
	lifecycleapp "github.com/wyfcoding/attestation/internal/lifecycle/application"
	lifecyclehttp "github.com/wyfcoding/attestation/internal/lifecycle/interfaces/http"
	projectapp "github.com/wyfcoding/attestation/internal/project/application"
	projectdomain "github.com/wyfcoding/attestation/internal/project/domain"
	projectmysql "github.com/wyfcoding/attestation/internal/project/infrastructure/persistence/mysql"
	projecthttp "github.com/wyfcoding/attestation/internal/project/interfaces/http"
	proposalapp "github.com/wyfcoding/attestation/internal/proposal/application"
	proposaldomain "github.com/wyfcoding/attestation/internal/proposal/domain"
	proposalmysql "github.com/wyfcoding/attestation/internal/proposal/infrastructure/persistence/mysql"
	proposalhttp "github.com/wyfcoding/attestation/internal/proposal/interfaces/http"
	scoringapp "github.com/wyfcoding/attestation/internal/scoring/application"
	scoringmysql "github.com/wyfcoding/attestation/internal/scoring/infrastructure/persistence/mysql"
	scoringredis "github.com/wyfcoding/attestation/internal/scoring/infrastructure/persistence/redis"
	scoringhttp "github.com/wyfcoding/attestation/internal/scoring/interfaces/http"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthv1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var configPath = flag.String("config", "configs/server/config.toml", "config file path")

const defaultTokenTTL = 24 * time.Hour

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&identitymysql.UserModel{},
			&projectmysql.ProjectModel{},
			&proposalmysql.ProposalModel{},
			&proposalmysql.PhaseModel{},
			&scoringmysql.AgencyMetricsModel{},
			&auditmysql.AttestationRecordModel{},
			&outbox.Message{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)
	publisher := outbox.NewPublisher(outboxMgr)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	// 7. 仓储
	userRepo := identitymysql.NewUserRepository(db.RawDB())
	projectRepo := projectmysql.NewProjectRepository(db.RawDB())
	proposalRepo := proposalmysql.NewProposalRepository(db.RawDB())
	phaseRepo := proposalmysql.NewPhaseRepository(db.RawDB())
	metricsRepo := scoringmysql.NewMetricsRepository(db.RawDB())
	metricsCache := scoringredis.NewMetricsCache(redisCache.GetClient())
	recordRepo := auditmysql.NewRecordRepository(db.RawDB())

	// 8. 应用服务
	tokenSvc := identityapp.NewTokenService(jwtSecret(), defaultTokenTTL)
	identitySvc := identityapp.NewIdentityService(userRepo, tokenSvc, publisher)
	projectSvc := projectapp.NewProjectService(projectRepo, publisher)
	proposalSvc := proposalapp.NewProposalService(proposalRepo, phaseRepo, projectRepo, publisher)
	scoringEngine := scoringapp.NewCreditScoringEngine(metricsRepo, metricsCache, proposalRepo, publisher)
	metricsQuery := scoringapp.NewMetricsQueryService(metricsRepo, metricsCache)
	orchestrator := lifecycleapp.NewLifecycleOrchestrator(proposalRepo, phaseRepo, scoringEngine, publisher)
	auditSvc := auditapp.NewAuditService(recordRepo)

	// 9. 存证消费者：每个生命周期主题一个消费组实例
	auditHandler := auditevents.NewAuditEventHandler(auditSvc)
	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	for _, topic := range []string{
		proposaldomain.ProposalSubmittedEventType,
		proposaldomain.ProposalAcceptedEventType,
		proposaldomain.PhasesRegisteredEventType,
		proposaldomain.PhaseStartedEventType,
		proposaldomain.PhaseAcceptedEventType,
		projectdomain.ProjectCreatedEventType,
	} {
		kafkaCfg := cfg.MessageQueue.Kafka
		kafkaCfg.GroupID = "attestation-audit"
		kafkaCfg.Topic = topic
		consumer := kafka.NewConsumer(&kafkaCfg, logger, metricsImpl)
		auditHandler.Subscribe(consumerCtx, consumer)
	}

	// 10. 接口层
	grpcSrv := grpc.NewServer()
	healthv1.RegisterHealthServer(grpcSrv, health.NewServer())
	reflection.Register(grpcSrv)

	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	auth := identityhttp.Authenticate(tokenSvc)
	government := identityhttp.RequireRole(identitydomain.RoleGovernment)
	agency := identityhttp.RequireRole(identitydomain.RoleAgency)

	api := r.Group("/api/v1")
	identityhttp.NewIdentityHandler(identitySvc).RegisterRoutes(api, auth)
	projecthttp.NewProjectHandler(projectSvc).RegisterRoutes(api, auth, government)
	proposalhttp.NewProposalHandler(proposalSvc).RegisterRoutes(api, auth, agency)
	lifecyclehttp.NewLifecycleHandler(orchestrator).RegisterRoutes(api, auth, government)
	scoringhttp.NewMetricsHandler(scoringEngine, metricsQuery).RegisterRoutes(api, auth, government)
	audithttp.NewAuditHandler(auditSvc).RegisterRoutes(api, auth)

	// 11. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		slog.Info("gRPC server starting", "addr", addr)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		stopConsumers()
		grpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}

func jwtSecret() string {
	if s := os.Getenv("ATTESTATION_JWT_SECRET"); s != "" {
		return s
	}
	return "attestation-dev-secret"
}
