package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"intern-match-go/internal/api/handler"
	"intern-match-go/internal/api/router"
	"intern-match-go/internal/config"
	"intern-match-go/internal/constants"
	"intern-match-go/internal/embedding"
	appCoreLogger "intern-match-go/internal/logger"
	"intern-match-go/internal/matching"
	"intern-match-go/internal/processor"
	"intern-match-go/internal/storage"
	apptracing "intern-match-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

var (
	version     = "1.0.0"           //nolint:gochecknoglobals
	serviceName = "intern-match-go" //nolint:gochecknoglobals
)

// @title Intern Match API
// @version 1.0
// @description 简历与岗位匹配推荐服务
// @BasePath /api/v1
func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	initLogger(configPath)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := apptracing.InitTracer(ctx, serviceName, &cfg.Tracing)
	if err != nil {
		glog.Warnf("初始化链路追踪失败，继续以无追踪模式运行: %v", err)
	} else {
		defer shutdownTracer()
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	gateway, err := initGateway(cfg, storageManager)
	if err != nil {
		glog.Fatalf("初始化Embedding网关失败: %v", err)
	}
	glog.Info("Embedding网关初始化成功")

	evaluator := matching.NewEvaluator(gateway, cfg.Matching.SimilarityThreshold)

	matcherLogger := log.New(appCoreLogger.Logger, "[MatchProcessor] ", log.LstdFlags|log.Lshortfile)
	matcher, err := processor.NewMatchProcessor(evaluator, storageManager,
		processor.WithSkipDuplicates(storageManager.Redis != nil),
		processor.WithProviderLabel(cfg.Matching.PrimaryProvider),
		processor.WithMatchProcessorLogger(matcherLogger),
	)
	if err != nil {
		glog.Fatalf("初始化匹配处理器失败: %v", err)
	}
	glog.Info("匹配处理器初始化成功")

	matchHandler := handler.NewMatchHandler(cfg, evaluator, matcher)

	serverOpts := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	}
	var tracerCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		tracer, tCfg := hertztracing.NewServerTracer()
		serverOpts = append(serverOpts, tracer)
		tracerCfg = tCfg
	}

	h := server.New(serverOpts...)
	if tracerCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	}
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, cfg, matchHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，版本: %s, 监听地址: %s", version, cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initGateway 根据配置组装Embedding提供商与网关
func initGateway(cfg *config.Config, storageManager *storage.Storage) (*embedding.Gateway, error) {
	var providers []embedding.TextEmbedder

	if cfg.Cohere.APIKey != "" {
		cohere, err := embedding.NewCohereEmbedder(cfg.Cohere.APIKey, cfg.Cohere)
		if err != nil {
			return nil, err
		}
		providers = append(providers, cohere)
		glog.Infof("Cohere Embedder初始化成功, 模型: %s", cohere.ModelName())
	}
	if cfg.OpenAI.APIKey != "" {
		openai, err := embedding.NewOpenAIEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		providers = append(providers, openai)
		glog.Infof("OpenAI Embedder初始化成功, 模型: %s", openai.ModelName())
	}

	opts := []embedding.GatewayOption{
		embedding.WithGatewayLogger(log.New(appCoreLogger.Logger, "[EmbeddingGateway] ", log.LstdFlags|log.Lshortfile)),
	}
	if cfg.Matching.ForceDimension > 0 {
		opts = append(opts, embedding.WithForceDimension(cfg.Matching.ForceDimension))
	}
	if cfg.Cohere.TimeoutSeconds > 0 {
		opts = append(opts, embedding.WithCallTimeout(time.Duration(cfg.Cohere.TimeoutSeconds)*time.Second))
	}
	if storageManager != nil && storageManager.Redis != nil {
		opts = append(opts, embedding.WithVectorCache(storageManager.Redis))
	}

	registered := make(map[string]bool, len(providers))
	for _, p := range providers {
		registered[strings.ToLower(p.ProviderName())] = true
	}

	primary := strings.ToLower(cfg.Matching.PrimaryProvider)
	if primary == "" {
		primary = constants.ProviderCohere
	}
	if !registered[primary] && len(providers) > 0 {
		actual := strings.ToLower(providers[0].ProviderName())
		glog.Warnf("首选提供商 %s 未配置API Key，改用 %s", primary, actual)
		primary = actual
	}

	fallback := strings.ToLower(cfg.Matching.FallbackProvider)
	if fallback == "" {
		fallback = constants.ProviderOpenAI
	}
	if fallback == primary || !registered[fallback] {
		fallback = ""
	}

	return embedding.NewGateway(primary, fallback, providers, opts...)
}

func initLogger(configPath string) {
	// 默认开发环境使用美化输出，生产环境使用JSON格式
	isProduction := os.Getenv("ENV") == "production"

	logConfig := appCoreLogger.Config{
		Level:        "debug",
		Format:       "pretty",
		TimeFormat:   time.RFC3339,
		ReportCaller: true,
	}

	// 如果配置文件成功加载，使用配置文件中的日志设置
	if cfg, err := config.LoadConfig(configPath); err == nil && cfg != nil && cfg.Logger.Level != "" {
		logConfig.Level = cfg.Logger.Level
		logConfig.Format = cfg.Logger.Format
		logConfig.TimeFormat = cfg.Logger.TimeFormat
		logConfig.ReportCaller = cfg.Logger.ReportCaller
	} else if isProduction {
		logConfig.Level = "info"
		logConfig.Format = "json"
		logConfig.ReportCaller = false
	}

	appCoreLogger.Init(logConfig)
	appCoreLogger.Logger = appCoreLogger.Logger.With().
		Str("app", serviceName).
		Str("version", version).
		Logger()

	// 让Hertz的日志走同一个zerolog实例
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
}
