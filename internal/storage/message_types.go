package storage

import "time"

// JobEvaluatedEvent 单个岗位评估完成事件
// 发布到 match_events 交换机，路由键见配置 evaluated_routing_key。
// 下游（申请执行器、通知服务）只依赖这些字段，不要随意改名
type JobEvaluatedEvent struct {
	BatchID      string `json:"batch_id"`
	EvaluationID string `json:"evaluation_id"`

	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Platform string `json:"platform,omitempty"`
	Link     string `json:"link,omitempty"`

	SemanticSimilarity float64 `json:"semantic_similarity"`
	TotalMatchPct      float64 `json:"total_match_percentage"`
	OverallScore       float64 `json:"overall_score"`

	Recommended bool   `json:"should_apply"`
	Reasoning   string `json:"reasoning"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// BatchCompletedEvent 批次评估完成事件
type BatchCompletedEvent struct {
	BatchID          string    `json:"batch_id"`
	Provider         string    `json:"provider,omitempty"`
	JobCount         int       `json:"job_count"`
	RecommendedCount int       `json:"recommended_count"`
	ReportObjectKey  string    `json:"report_object_key,omitempty"`
	CompletedAt      time.Time `json:"completed_at"`
}
