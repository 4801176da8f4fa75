package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchBatch 一次批量评估的元信息
// batch_id 由API层用UUID生成，一个批次对应一份简历和一组岗位
type MatchBatch struct {
	BatchID          string  `gorm:"column:batch_id;type:varchar(36);primaryKey" json:"batch_id"`
	ResumeTextMD5    string  `gorm:"column:resume_text_md5;type:varchar(32);index" json:"resume_text_md5"`
	Provider         string  `gorm:"column:provider;type:varchar(32)" json:"provider"`
	Threshold        float64 `gorm:"column:threshold" json:"threshold"`
	JobCount         int     `gorm:"column:job_count" json:"job_count"`
	RecommendedCount int     `gorm:"column:recommended_count" json:"recommended_count"`
	// 评估报告在对象存储中的键，可为空
	ReportObjectKey string    `gorm:"column:report_object_key;type:varchar(255)" json:"report_object_key,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (MatchBatch) TableName() string {
	return "match_batches"
}

// EvaluationRecord 单个 (简历, 岗位) 对的评估落库记录
type EvaluationRecord struct {
	EvaluationID string `gorm:"column:evaluation_id;type:varchar(36);primaryKey" json:"evaluation_id"`
	BatchID      string `gorm:"column:batch_id;type:varchar(36);index:idx_eval_batch" json:"batch_id"`

	JobTitle string `gorm:"column:job_title;type:varchar(255)" json:"job_title"`
	Company  string `gorm:"column:company;type:varchar(255)" json:"company"`
	Platform string `gorm:"column:platform;type:varchar(64)" json:"platform,omitempty"`
	Link     string `gorm:"column:link;type:varchar(512)" json:"link,omitempty"`

	// 岗位描述提取出的技能 (JSON数组)
	ExtractedSkills datatypes.JSON `gorm:"column:extracted_skills;type:json" json:"extracted_skills,omitempty"`

	SemanticSimilarity float64 `gorm:"column:semantic_similarity" json:"semantic_similarity"`
	// 技能匹配明细 (JSON对象，含各档位列表与百分比)
	SkillMatch   datatypes.JSON `gorm:"column:skill_match;type:json" json:"skill_match,omitempty"`
	OverallScore float64        `gorm:"column:overall_score;index:idx_eval_score" json:"overall_score"`

	Recommended bool   `gorm:"column:recommended;index:idx_eval_recommended" json:"recommended"`
	Reasoning   string `gorm:"column:reasoning;type:text" json:"reasoning"`

	EvaluatedAt time.Time `gorm:"column:evaluated_at" json:"evaluated_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (EvaluationRecord) TableName() string {
	return "evaluation_records"
}
