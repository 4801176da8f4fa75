package embedding

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
)

// TextEmbedder 文本向量化接口 (符合 cloudwego/eino 规范)
// 每个提供商声明自己的固定维度，网关据此做维度校验与提供商选择
type TextEmbedder interface {
	// EmbedStrings 将文本转换为向量表示
	EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error)

	// GetDimensions 返回该提供商声明的向量维度
	GetDimensions() int

	// ProviderName 返回提供商名称，例如 "cohere"
	ProviderName() string

	// ModelName 返回所用的具体模型名称
	ModelName() string
}

// VectorCache 向量缓存接口，网关在一次批量调用内外复用提供商响应
// 实现方（例如Redis适配器）按 provider+model+text 维度缓存
type VectorCache interface {
	// GetTextEmbedding 查询缓存的向量; 未命中时返回 (nil, nil)
	GetTextEmbedding(ctx context.Context, provider, model, text string) ([]float64, error)

	// SetTextEmbedding 写入缓存
	SetTextEmbedding(ctx context.Context, provider, model, text string, vector []float64) error
}
