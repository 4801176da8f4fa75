package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"intern-match-go/internal/matching"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/storage/models"
	"intern-match-go/internal/types"

	"github.com/gofrs/uuid/v5"
)

// MatchProcessor 负责一次完整的批量匹配流程：
// 评估 -> 落库 -> 发事件 -> 归档报告。评估是核心路径，
// 其余环节失败只记日志，不影响返回结果
type MatchProcessor struct {
	evaluator *matching.Evaluator
	storage   *storage.Storage

	// 跳过近期已评估过的岗位 (需要Redis)
	skipDuplicates bool

	// 落库时标注本部署使用的Embedding提供商
	providerLabel string

	logger *log.Logger
}

// MatchOption 定义了 MatchProcessor 的配置选项函数类型。
type MatchOption func(*MatchProcessor)

// WithSkipDuplicates 开启跨批次岗位去重。
func WithSkipDuplicates(skip bool) MatchOption {
	return func(p *MatchProcessor) {
		p.skipDuplicates = skip
	}
}

// WithProviderLabel 设置落库批次上记录的Embedding提供商名称。
func WithProviderLabel(name string) MatchOption {
	return func(p *MatchProcessor) {
		p.providerLabel = name
	}
}

// WithMatchProcessorLogger 设置 MatchProcessor 使用的日志记录器。
func WithMatchProcessorLogger(logger *log.Logger) MatchOption {
	return func(p *MatchProcessor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// BatchResult 一次批量匹配的完整结果
type BatchResult struct {
	BatchID          string                `json:"batch_id"`
	Evaluations      []types.JobEvaluation `json:"evaluations"`
	JobCount         int                   `json:"job_count"`
	SkippedCount     int                   `json:"skipped_count"`
	RecommendedCount int                   `json:"recommended_count"`
	ReportObjectKey  string                `json:"report_object_key,omitempty"`
}

// NewMatchProcessor 创建一个新的 MatchProcessor 实例。
func NewMatchProcessor(evaluator *matching.Evaluator, storageManager *storage.Storage, options ...MatchOption) (*MatchProcessor, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("Evaluator 不能为空")
	}

	p := &MatchProcessor{
		evaluator: evaluator,
		storage:   storageManager,
		logger:    log.New(os.Stdout, "[MatchProcessor] ", log.LstdFlags|log.Lshortfile),
	}

	for _, option := range options {
		option(p)
	}

	if p.storage == nil {
		// 无存储也能跑：纯内存评估，结果只通过返回值交付
		p.logger.Printf("MatchProcessor 以无存储模式运行，评估结果不落库")
		p.skipDuplicates = false
	}

	return p, nil
}

// ProcessBatch 评估一批岗位并执行全部附属环节
func (p *MatchProcessor) ProcessBatch(ctx context.Context, profile *types.ResumeProfile, jobs []*types.JobPosting) (*BatchResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("简历画像不能为空")
	}

	batchUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成批次ID失败: %w", err)
	}
	batchID := batchUUID.String()

	// 跨批次去重：近期评估过的岗位直接跳过
	toEvaluate := jobs
	skipped := 0
	if p.skipDuplicates && p.redis() != nil {
		toEvaluate = make([]*types.JobPosting, 0, len(jobs))
		for _, job := range jobs {
			if job == nil {
				continue
			}
			seen, dedupErr := p.redis().IsJobEvaluated(ctx, jobIdentity(job))
			if dedupErr != nil {
				p.logger.Printf("岗位去重查询失败 (忽略): %v", dedupErr)
			}
			if seen {
				skipped++
				continue
			}
			toEvaluate = append(toEvaluate, job)
		}
	}

	evaluations := p.evaluator.BatchEvaluate(ctx, profile, toEvaluate)

	recommended := 0
	for i := range evaluations {
		if evaluations[i].Recommended {
			recommended++
		}
	}

	result := &BatchResult{
		BatchID:          batchID,
		Evaluations:      evaluations,
		JobCount:         len(evaluations),
		SkippedCount:     skipped,
		RecommendedCount: recommended,
	}

	p.logger.Printf("批次 %s 评估完成: %d 个岗位, %d 个推荐, %d 个跳过",
		batchID, len(evaluations), recommended, skipped)

	if p.storage == nil {
		return result, nil
	}

	// 以下均为尽力而为的附属环节。先归档报告，让对象键能跟着批次落库
	p.markEvaluated(ctx, toEvaluate)
	p.archiveReport(ctx, result)
	p.persistBatch(ctx, profile, result)
	p.publishEvents(ctx, result)

	return result, nil
}

// GetBatchEvaluations 查询历史批次的评估记录
func (p *MatchProcessor) GetBatchEvaluations(ctx context.Context, batchID string, recommendedOnly bool) (*models.MatchBatch, []models.EvaluationRecord, error) {
	if p.storage == nil || p.storage.MySQL == nil {
		return nil, nil, fmt.Errorf("评估记录存储未配置")
	}

	batch, err := p.storage.MySQL.GetBatch(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}

	records, err := p.storage.MySQL.ListEvaluationsByBatch(ctx, batchID, recommendedOnly)
	if err != nil {
		return nil, nil, err
	}
	return batch, records, nil
}

// markEvaluated 在Redis记录本批次岗位，供后续批次去重
func (p *MatchProcessor) markEvaluated(ctx context.Context, jobs []*types.JobPosting) {
	if !p.skipDuplicates || p.redis() == nil {
		return
	}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if err := p.redis().MarkJobEvaluated(ctx, jobIdentity(job)); err != nil {
			p.logger.Printf("记录岗位去重标记失败 (忽略): %v", err)
		}
	}
}

// persistBatch 把批次和评估记录写入MySQL
func (p *MatchProcessor) persistBatch(ctx context.Context, profile *types.ResumeProfile, result *BatchResult) {
	if p.storage.MySQL == nil {
		return
	}

	batch := &models.MatchBatch{
		BatchID:          result.BatchID,
		ResumeTextMD5:    storage.MD5Hex(profile.RawText),
		Provider:         p.providerLabel,
		Threshold:        p.evaluator.Threshold(),
		JobCount:         result.JobCount,
		RecommendedCount: result.RecommendedCount,
		ReportObjectKey:  result.ReportObjectKey,
	}

	if err := p.storage.MySQL.SaveBatch(ctx, batch, result.Evaluations); err != nil {
		p.logger.Printf("批次 %s 落库失败 (忽略): %v", result.BatchID, err)
	}
}

// publishEvents 为每条评估发布事件，批次结束后发布汇总事件
func (p *MatchProcessor) publishEvents(ctx context.Context, result *BatchResult) {
	if p.storage.RabbitMQ == nil {
		return
	}

	for i := range result.Evaluations {
		evaluation := &result.Evaluations[i]
		event := &storage.JobEvaluatedEvent{
			BatchID:            result.BatchID,
			EvaluationID:       evaluation.EvaluationID,
			JobTitle:           evaluation.JobTitle,
			Company:            evaluation.Company,
			Platform:           evaluation.Platform,
			Link:               evaluation.Link,
			SemanticSimilarity: evaluation.SemanticSimilarity,
			TotalMatchPct:      evaluation.SkillMatch.TotalPct,
			OverallScore:       evaluation.OverallScore,
			Recommended:        evaluation.Recommended,
			Reasoning:          evaluation.Reasoning,
			EvaluatedAt:        evaluation.EvaluatedAt,
		}
		if err := p.storage.RabbitMQ.PublishEvaluationEvent(ctx, event); err != nil {
			p.logger.Printf("发布评估事件失败 (批次 %s, 岗位 %s): %v", result.BatchID, evaluation.JobTitle, err)
		}
	}

	completed := &storage.BatchCompletedEvent{
		BatchID:          result.BatchID,
		Provider:         p.providerLabel,
		JobCount:         result.JobCount,
		RecommendedCount: result.RecommendedCount,
		ReportObjectKey:  result.ReportObjectKey,
		CompletedAt:      time.Now(),
	}
	if err := p.storage.RabbitMQ.PublishBatchCompletedEvent(ctx, completed); err != nil {
		p.logger.Printf("发布批次完成事件失败 (批次 %s): %v", result.BatchID, err)
	}
}

// archiveReport 把整批评估结果作为JSON报告归档到对象存储
func (p *MatchProcessor) archiveReport(ctx context.Context, result *BatchResult) {
	if p.storage.MinIO == nil {
		return
	}

	report, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		p.logger.Printf("序列化评估报告失败 (批次 %s): %v", result.BatchID, err)
		return
	}

	objectKey, err := p.storage.MinIO.UploadReport(ctx, result.BatchID, report)
	if err != nil {
		p.logger.Printf("归档评估报告失败 (批次 %s): %v", result.BatchID, err)
		return
	}
	result.ReportObjectKey = objectKey

	if p.redis() != nil {
		if err := p.storage.Redis.CacheBatchReportKey(ctx, result.BatchID, objectKey, 7*24*time.Hour); err != nil {
			p.logger.Printf("缓存报告对象键失败 (忽略): %v", err)
		}
	}
}

// GetReport 下载批次的归档报告
func (p *MatchProcessor) GetReport(ctx context.Context, batchID string) ([]byte, error) {
	objectKey, err := p.resolveReportKey(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return p.storage.MinIO.GetReport(ctx, objectKey)
}

// GetReportURL 生成批次报告的预签名下载链接
func (p *MatchProcessor) GetReportURL(ctx context.Context, batchID string, expiry time.Duration) (string, error) {
	objectKey, err := p.resolveReportKey(ctx, batchID)
	if err != nil {
		return "", err
	}
	return p.storage.MinIO.GetPresignedURL(ctx, objectKey, expiry)
}

// resolveReportKey 先查Redis缓存的对象键，未命中回退到MySQL批次记录
func (p *MatchProcessor) resolveReportKey(ctx context.Context, batchID string) (string, error) {
	if p.storage == nil || p.storage.MinIO == nil {
		return "", fmt.Errorf("报告归档未配置")
	}

	objectKey := ""
	if p.redis() != nil {
		if key, err := p.storage.Redis.GetBatchReportKey(ctx, batchID); err == nil {
			objectKey = key
		}
	}
	if objectKey == "" && p.storage.MySQL != nil {
		if batch, err := p.storage.MySQL.GetBatch(ctx, batchID); err == nil && batch.ReportObjectKey != "" {
			objectKey = batch.ReportObjectKey
		}
	}
	if objectKey == "" {
		return "", fmt.Errorf("批次 %s 没有归档报告", batchID)
	}
	return objectKey, nil
}

func (p *MatchProcessor) redis() *storage.Redis {
	if p.storage == nil {
		return nil
	}
	return p.storage.Redis
}

// WithDiscardedLogs 关闭处理器日志输出，测试用
func WithDiscardedLogs() MatchOption {
	return WithMatchProcessorLogger(log.New(io.Discard, "", 0))
}

// jobIdentity 岗位去重身份：优先用链接，缺失时退回标题+公司
func jobIdentity(job *types.JobPosting) string {
	if job.Link != "" {
		return job.Link
	}
	return job.Title + "|" + job.Company
}
