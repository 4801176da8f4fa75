package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// MatchModulePrefix 匹配模块
	MatchModulePrefix = "match"
	// EmbeddingModulePrefix 向量模块
	EmbeddingModulePrefix = "embedding"
	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"

	// EntityVector 向量实体
	EntityVector = "vector"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityReport 报告实体
	EntityReport = "report"

	// KeyTextEmbedding 文本向量缓存 (STRING, JSON编码)
	// 格式: app:embedding:vector:{provider}:{model}:{textMD5}
	KeyTextEmbedding = AppPrefix + ":" + EmbeddingModulePrefix + ":" + EntityVector + ":%s:%s:%s"

	// KeyEvaluatedJobSet 已评估岗位去重集合 (STRING成员带TTL)
	// 格式: app:job:dedup_set:{jobMD5}
	KeyEvaluatedJobSet = AppPrefix + ":" + JobModulePrefix + ":" + EntityDedupSet + ":%s"

	// KeyBatchReport 批次评估报告对象键缓存 (STRING)
	// 格式: app:match:report:{batchID}
	KeyBatchReport = AppPrefix + ":" + MatchModulePrefix + ":" + EntityReport + ":%s"
)
