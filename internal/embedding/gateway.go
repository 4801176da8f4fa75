package embedding

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"intern-match-go/internal/constants"
	"intern-match-go/internal/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// 为网关操作定义专用tracer
var gatewayTracer = otel.Tracer("intern-match-go/embedding/gateway")

// Result 一次批量Embedding调用的结果
// Provider 为空表示所有提供商都失败，Vectors 为空；调用方必须把空结果
// 当作"无法向量化，退回纯关键词评分"，而不是错误
type Result struct {
	// 向量，与输入文本一一对应；整批由同一提供商产出
	Vectors [][]float64

	// 产出这批向量的提供商名称
	Provider string

	// 本次调用中被截断/补零修正的向量数量
	Coerced int
}

// Empty 判断结果是否为"无向量可用"
func (r Result) Empty() bool {
	return len(r.Vectors) == 0
}

// Gateway Embedding提供商网关
// 按首选/回退顺序挑选提供商，强制批内维度一致，提供商异常时
// 最多回退一跳，绝不向上层抛出错误
type Gateway struct {
	providers map[string]TextEmbedder
	order     []string // 注册顺序，维度匹配查找时保证确定性

	primary  string
	fallback string

	// 强制维度，0表示跟随提供商声明维度
	forceDimension int

	// 单次提供商调用超时
	callTimeout time.Duration

	// 可选的向量缓存
	cache VectorCache

	// 被维度修正过的向量累计数，测试与监控用
	coercions atomic.Int64

	logger *log.Logger
}

// GatewayOption 网关的配置选项
type GatewayOption func(*Gateway)

// WithForceDimension 强制所有向量为指定维度
func WithForceDimension(dim int) GatewayOption {
	return func(g *Gateway) {
		g.forceDimension = dim
	}
}

// WithCallTimeout 设置单次提供商调用超时
func WithCallTimeout(timeout time.Duration) GatewayOption {
	return func(g *Gateway) {
		if timeout > 0 {
			g.callTimeout = timeout
		}
	}
}

// WithVectorCache 设置向量缓存
func WithVectorCache(cache VectorCache) GatewayOption {
	return func(g *Gateway) {
		g.cache = cache
	}
}

// WithGatewayLogger 设置网关logger
func WithGatewayLogger(logger *log.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGateway 创建Embedding网关
// primary/fallback 按名称指定；providers 为已初始化的提供商集合
func NewGateway(primary, fallback string, providers []TextEmbedder, options ...GatewayOption) (*Gateway, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("至少需要一个Embedding提供商")
	}

	g := &Gateway{
		providers:   make(map[string]TextEmbedder, len(providers)),
		primary:     strings.ToLower(primary),
		fallback:    strings.ToLower(fallback),
		callTimeout: constants.DefaultProviderTimeout,
		logger:      log.New(io.Discard, "", 0),
	}

	for _, p := range providers {
		name := strings.ToLower(p.ProviderName())
		if _, exists := g.providers[name]; exists {
			return nil, fmt.Errorf("提供商重复注册: %s", name)
		}
		g.providers[name] = p
		g.order = append(g.order, name)
	}

	if _, ok := g.providers[g.primary]; !ok {
		return nil, fmt.Errorf("首选提供商未注册: %s", g.primary)
	}
	// 回退提供商允许为空（不回退），但指定了就必须已注册
	if g.fallback != "" {
		if _, ok := g.providers[g.fallback]; !ok {
			return nil, fmt.Errorf("回退提供商未注册: %s", g.fallback)
		}
	}

	for _, opt := range options {
		opt(g)
	}

	if g.logger == nil || g.logger.Writer() == io.Discard {
		// 默认输出到stderr，便于排查提供商故障
		g.logger = log.New(os.Stderr, "[EmbeddingGateway] ", log.LstdFlags)
	}

	return g, nil
}

// CoercionCount 返回累计被截断/补零修正的向量数
func (g *Gateway) CoercionCount() int64 {
	return g.coercions.Load()
}

// GetEmbeddings 为一批文本获取向量
// 整批空白输入返回空结果；提供商异常时回退一跳；全部失败返回空结果，
// 永不返回错误
func (g *Gateway) GetEmbeddings(ctx context.Context, texts []string) Result {
	ctx, span := gatewayTracer.Start(ctx, "EmbeddingGateway.GetEmbeddings",
		trace.WithAttributes(
			attribute.Int("embedding.texts_count", len(texts)),
			attribute.String("embedding.primary_provider", g.primary),
		))
	defer span.End()

	if len(texts) > 0 {
		// 简历全文含PII，只放脱敏预览
		span.SetAttributes(attribute.String("embedding.first_text_preview", tracing.SafeResumeContent(texts[0])))
	}

	// 整批无有效内容 ⇒ "无向量可用"信号，不是错误
	if allBlank(texts) {
		g.logger.Printf("GetEmbeddings: 输入文本全部为空白，返回空结果")
		span.SetAttributes(attribute.Bool("embedding.blank_batch", true))
		return Result{}
	}

	providerName := g.primary

	// forceDimension 与首选提供商声明维度不符时，切换到原生产出该维度的提供商
	if g.forceDimension > 0 {
		if p := g.providers[providerName]; p.GetDimensions() != g.forceDimension {
			if match := g.providerWithDimension(g.forceDimension); match != "" {
				g.logger.Printf("切换到 %s 以强制 %d 维向量", match, g.forceDimension)
				providerName = match
			}
			// 找不到就继续用请求的提供商，调用后再校验修正
		}
	}

	vectors, coerced, err := g.embedWith(ctx, providerName, texts)
	if err != nil {
		span.AddEvent("primary provider failed")
		g.logger.Printf("提供商 %s 失败: %v", providerName, err)

		// 最多回退一跳；回退调用中不再级联
		if g.fallback != "" && g.fallback != providerName {
			g.logger.Printf("回退到提供商 %s", g.fallback)
			providerName = g.fallback
			vectors, coerced, err = g.embedWith(ctx, providerName, texts)
		}
	}

	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeExternal)
		g.logger.Printf("所有Embedding提供商均失败: %v", err)
		return Result{}
	}

	span.SetAttributes(
		attribute.String("embedding.provider", providerName),
		attribute.Int("embedding.coerced", coerced),
	)

	return Result{
		Vectors:  vectors,
		Provider: providerName,
		Coerced:  coerced,
	}
}

// embedWith 用指定提供商为整批文本生成向量，并做维度校验与修正
func (g *Gateway) embedWith(ctx context.Context, providerName string, texts []string) ([][]float64, int, error) {
	p, ok := g.providers[providerName]
	if !ok {
		return nil, 0, fmt.Errorf("提供商未注册: %s", providerName)
	}

	expected := p.GetDimensions()
	if g.forceDimension > 0 {
		expected = g.forceDimension
	}

	vectors := make([][]float64, len(texts))
	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))

	// 先查缓存；缓存按 provider+model 维度隔离，不会混入其他提供商的向量
	if g.cache != nil {
		for i, text := range texts {
			cached, cacheErr := g.cache.GetTextEmbedding(ctx, providerName, p.ModelName(), text)
			if cacheErr != nil {
				g.logger.Printf("向量缓存查询失败(忽略): %v", cacheErr)
			}
			if len(cached) > 0 {
				vectors[i] = cached
				continue
			}
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, text)
		}
	} else {
		for i, text := range texts {
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, text)
		}
	}

	if len(missTexts) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		fresh, err := p.EmbedStrings(callCtx, missTexts)
		if err != nil {
			return nil, 0, fmt.Errorf("调用提供商 %s 失败: %w", providerName, err)
		}
		// 返回数量与请求不符说明提供商丢弃了部分文本，整批视为失败，
		// 避免向量与文本错位
		if len(fresh) != len(missTexts) {
			return nil, 0, fmt.Errorf("提供商 %s 返回 %d 个向量, 预期 %d 个", providerName, len(fresh), len(missTexts))
		}

		for j, idx := range missIdx {
			vectors[idx] = fresh[j]
		}
	}

	// 提供商未产出任何向量 ⇒ 失败，触发回退
	nonEmpty := 0
	for _, v := range vectors {
		if len(v) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, 0, fmt.Errorf("提供商 %s 未返回任何向量", providerName)
	}

	// 逐向量维度校验：过长截断，过短补零。静默修正但保持可观测
	coerced := 0
	for i, v := range vectors {
		if len(v) == expected {
			continue
		}
		g.logger.Printf("向量 %d 维度异常: 实际 %d, 预期 %d, 将修正", i, len(v), expected)
		if len(v) > expected {
			vectors[i] = v[:expected] // Truncate
		} else {
			padded := make([]float64, expected)
			copy(padded, v)
			vectors[i] = padded // Pad with zeros
		}
		coerced++
		g.coercions.Add(1)
	}

	// 回写缓存（仅新生成的向量）
	if g.cache != nil {
		for j, idx := range missIdx {
			if err := g.cache.SetTextEmbedding(ctx, providerName, p.ModelName(), missTexts[j], vectors[idx]); err != nil {
				g.logger.Printf("向量缓存写入失败(忽略): %v", err)
			}
		}
	}

	return vectors, coerced, nil
}

// providerWithDimension 查找原生产出指定维度的提供商，找不到返回空串
func (g *Gateway) providerWithDimension(dim int) string {
	for _, name := range g.order {
		if g.providers[name].GetDimensions() == dim {
			return name
		}
	}
	return ""
}

// allBlank 判断整批文本是否都没有非空白内容
func allBlank(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}
