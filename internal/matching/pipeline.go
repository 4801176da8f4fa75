package matching

import (
	"context"
	"sort"

	"intern-match-go/internal/types"
)

// BatchEvaluate 评估一批岗位并按综合得分降序返回
//
// 排序是稳定的：得分相同的岗位保持输入顺序。单个岗位评估panic时
// 跳过该岗位继续，坏数据不会拖垮整批。输入为空返回空切片
func (e *Evaluator) BatchEvaluate(ctx context.Context, profile *types.ResumeProfile, jobs []*types.JobPosting) []types.JobEvaluation {
	evaluations := make([]types.JobEvaluation, 0, len(jobs))

	for i, job := range jobs {
		if job == nil {
			continue
		}
		if ctx.Err() != nil {
			e.log.Warn().Int("evaluated", len(evaluations)).Int("total", len(jobs)).
				Msg("上下文取消, 提前结束批量评估")
			break
		}

		evaluation, ok := e.evaluateSafely(ctx, profile, job)
		if !ok {
			e.log.Error().Int("job_index", i).Str("job_title", job.Title).
				Msg("岗位评估异常, 跳过")
			continue
		}
		evaluations = append(evaluations, evaluation)
	}

	sort.SliceStable(evaluations, func(i, j int) bool {
		return evaluations[i].OverallScore > evaluations[j].OverallScore
	})

	return evaluations
}

// GetRecommended 评估一批岗位并只返回达到阈值的，降序排列
// minScore 非正数时使用评估器自身阈值
func (e *Evaluator) GetRecommended(ctx context.Context, profile *types.ResumeProfile, jobs []*types.JobPosting, minScore float64) []types.JobEvaluation {
	if minScore <= 0 {
		minScore = e.threshold
	}

	evaluations := e.BatchEvaluate(ctx, profile, jobs)

	recommended := make([]types.JobEvaluation, 0, len(evaluations))
	for _, evaluation := range evaluations {
		if evaluation.OverallScore >= minScore {
			recommended = append(recommended, evaluation)
		}
	}
	return recommended
}

// evaluateSafely 包一层recover，单个岗位的坏数据不能中断整批
func (e *Evaluator) evaluateSafely(ctx context.Context, profile *types.ResumeProfile, job *types.JobPosting) (evaluation types.JobEvaluation, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("job_title", job.Title).
				Msg("岗位评估panic")
			ok = false
		}
	}()
	return e.EvaluateJobFit(ctx, profile, job), true
}
