package types

import "time"

// ContactInfo 简历中提取的联系方式，所有字段均可为空
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Location string `json:"location,omitempty"`
}

// ResumeProfile 一次运行中解析得到的候选人简历画像
// 由上游简历解析协作方提供，匹配引擎只读不改
type ResumeProfile struct {
	// 简历全文（已抽取为纯文本）
	RawText string `json:"raw_text"`

	// 显式技能词条，已去重；展示时保留原始大小写，比较时不区分大小写
	Skills []string `json:"skills"`

	// 软技能
	SoftSkills []string `json:"soft_skills,omitempty"`

	// 工作/实习经历摘要
	Experience []string `json:"experience,omitempty"`

	// 证书
	Certifications []string `json:"certifications,omitempty"`

	// 意向领域
	Domains []string `json:"domains,omitempty"`

	// 联系方式
	ContactInfo ContactInfo `json:"contact_info,omitempty"`

	// 简历全文的向量表示，维度由生成它的提供商决定
	// 不同提供商产出的向量绝不允许拼接或平均
	Embedding []float64 `json:"embedding,omitempty"`
}

// JobPosting 一条抓取到的岗位记录
// title/company/description 由抓取协作方填充，description 可以为空
type JobPosting struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Platform     string `json:"platform,omitempty"`
	Link         string `json:"link,omitempty"`
	Description  string `json:"description"`
	LocationHint string `json:"location_hint,omitempty"`
}

// SkillMatchResult 两个技能集合的匹配结果
//
// 三个百分比各自独立按 count/totalJobSkills*100 计算，不构成100%的划分；
// TotalPct 是三者之和，当不同技能落入不同档位时可以超过100。
// 这是源系统刻意保留的加权偏置，直接参与推荐阈值比较，不要"修正"成
// 归一化概率。
type SkillMatchResult struct {
	ExactMatches    []string `json:"exact_matches"`
	PartialMatches  []string `json:"partial_matches"`
	CategoryMatches []string `json:"category_matches"`
	MissingSkills   []string `json:"missing_skills"`

	ExactPct    float64 `json:"exact_match_percentage"`
	PartialPct  float64 `json:"partial_match_percentage"`
	CategoryPct float64 `json:"category_match_percentage"`
	TotalPct    float64 `json:"total_match_percentage"`
}

// JobEvaluation 单个 (简历, 岗位) 对的评估记录
// 创建后不可变，仅在一次运行内存活；持久化由外部协作方负责
type JobEvaluation struct {
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Platform string `json:"platform,omitempty"`
	Link     string `json:"link,omitempty"`

	// 岗位描述中提取出的技能
	ExtractedSkills []string `json:"extracted_skills"`

	// 语义相似度，[0,1]
	SemanticSimilarity float64 `json:"semantic_similarity"`

	// 技能匹配明细
	SkillMatch SkillMatchResult `json:"skill_match"`

	// 综合得分 = (语义相似度 + TotalPct/100) / 2
	// 因 TotalPct 可超过100，综合得分可能大于1.0
	OverallScore float64 `json:"overall_score"`

	// 是否达到推荐阈值（含等于）
	Recommended bool `json:"should_apply"`

	// 三档拼接的人类可读决策依据
	Reasoning string `json:"reasoning"`

	// 评估时间
	EvaluatedAt time.Time `json:"evaluated_at"`

	// 评估ID
	EvaluationID string `json:"evaluation_id,omitempty"`
}
