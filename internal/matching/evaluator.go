package matching

import (
	"context"
	"strings"
	"time"

	"intern-match-go/internal/constants"
	"intern-match-go/internal/embedding"
	"intern-match-go/internal/logger"
	"intern-match-go/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VectorSource 评估器对Embedding网关的依赖面
type VectorSource interface {
	GetEmbeddings(ctx context.Context, texts []string) embedding.Result
}

// Evaluator 对 (简历, 岗位) 对打分并给出推荐结论
type Evaluator struct {
	vectors   VectorSource
	threshold float64
	log       zerolog.Logger
}

// NewEvaluator 创建评估器
// threshold 为推荐阈值（含等于），非正数时使用部署默认值
func NewEvaluator(vectors VectorSource, threshold float64) *Evaluator {
	if threshold <= 0 {
		threshold = constants.DefaultSimilarityThreshold
	}
	return &Evaluator{
		vectors:   vectors,
		threshold: threshold,
		log:       logger.WithComponent("evaluator"),
	}
}

// Threshold 返回当前推荐阈值
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// EvaluateJobFit 评估单个岗位与简历的匹配度
//
// 语义相似度与技能匹配各占一半：
//
//	overall = (semantic + TotalPct/100) / 2
//
// 技能分沿用 TotalPct 的未截断值，overall 因此可能超过 1.0。
// 岗位描述为空 ⇒ 语义分记 0；Embedding不可用 ⇒ 语义分记 0.5
// （中性值，只靠技能分决定结论）。本方法不返回错误，任何降级
// 都体现在分数里
func (e *Evaluator) EvaluateJobFit(ctx context.Context, profile *types.ResumeProfile, job *types.JobPosting) types.JobEvaluation {
	jobSkills := ExtractSkills(job.Description)

	semantic := e.semanticSimilarity(ctx, profile, job)

	skillMatch := MatchSkills(profile.Skills, jobSkills)
	skillScore := skillMatch.TotalPct / 100

	overall := (semantic + skillScore) / 2
	recommended := overall >= e.threshold

	e.log.Debug().
		Str("job_title", job.Title).
		Str("company", job.Company).
		Float64("semantic_similarity", semantic).
		Float64("skill_score", skillScore).
		Float64("overall_score", overall).
		Bool("recommended", recommended).
		Msg("岗位评估完成")

	return types.JobEvaluation{
		JobTitle:           job.Title,
		Company:            job.Company,
		Platform:           job.Platform,
		Link:               job.Link,
		ExtractedSkills:    jobSkills,
		SemanticSimilarity: semantic,
		SkillMatch:         skillMatch,
		OverallScore:       overall,
		Recommended:        recommended,
		Reasoning:          buildReasoning(semantic, skillMatch.TotalPct, recommended),
		EvaluatedAt:        time.Now(),
		EvaluationID:       uuid.NewString(),
	}
}

// semanticSimilarity 计算简历全文与岗位描述的语义相似度
//
// 空描述与Embedding失败是两种不同的信号：前者是确定的"没有内容
// 可比"，记 0；后者是基础设施降级，记 0.5 中性值，避免提供商抖动
// 把原本合格的岗位整批打压下去
func (e *Evaluator) semanticSimilarity(ctx context.Context, profile *types.ResumeProfile, job *types.JobPosting) float64 {
	if strings.TrimSpace(job.Description) == "" {
		return 0
	}

	result := e.vectors.GetEmbeddings(ctx, []string{profile.RawText, job.Description})
	if result.Empty() || len(result.Vectors) < 2 {
		e.log.Warn().
			Str("job_title", job.Title).
			Msg("Embedding不可用, 语义相似度降级为中性值0.5")
		return 0.5
	}

	return CosineSimilarity01(result.Vectors[0], result.Vectors[1])
}

// buildReasoning 生成三段式决策依据，段间以 " | " 连接
func buildReasoning(semantic, totalMatchPct float64, recommended bool) string {
	reasons := make([]string, 0, 3)

	switch {
	case semantic >= constants.SimilarityHighTier:
		reasons = append(reasons, "High semantic similarity with job description")
	case semantic >= constants.SimilarityGoodTier:
		reasons = append(reasons, "Good semantic similarity with job description")
	default:
		reasons = append(reasons, "Low semantic similarity with job description")
	}

	switch {
	case totalMatchPct >= constants.SkillExcellentTier:
		reasons = append(reasons, "Excellent skill match")
	case totalMatchPct >= constants.SkillGoodTier:
		reasons = append(reasons, "Good skill match")
	case totalMatchPct >= constants.SkillModerateTier:
		reasons = append(reasons, "Moderate skill match")
	default:
		reasons = append(reasons, "Poor skill match")
	}

	if recommended {
		reasons = append(reasons, "RECOMMENDED: Overall score meets threshold for application")
	} else {
		reasons = append(reasons, "NOT RECOMMENDED: Overall score below threshold")
	}

	return strings.Join(reasons, " | ")
}
