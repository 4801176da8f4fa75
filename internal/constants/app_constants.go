package constants

import "time"

const (
	// 提供商名称
	ProviderCohere = "cohere"
	ProviderOpenAI = "openai"

	// 推荐阈值的部署默认值
	DefaultSimilarityThreshold = 0.8

	// 单次提供商调用的默认超时
	DefaultProviderTimeout = 30 * time.Second

	// 向量缓存默认过期时间
	DefaultEmbeddingCacheTTL = 24 * time.Hour

	// 评估报告对象键前缀 (MinIO)
	ReportObjectPrefix = "reports/"

	// 评分Reasoning分档边界，与评估器保持一致
	SimilarityHighTier = 0.85
	SimilarityGoodTier = 0.70
	SkillExcellentTier = 80.0
	SkillGoodTier      = 60.0
	SkillModerateTier  = 40.0
)
