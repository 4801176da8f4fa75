package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"intern-match-go/internal/config"
	"intern-match-go/internal/matching"
	"intern-match-go/internal/processor"
	"intern-match-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"gorm.io/gorm"
)

// MatchHandler 负责处理简历与岗位匹配相关的请求。
type MatchHandler struct {
	cfg       *config.Config
	evaluator *matching.Evaluator
	matcher   *processor.MatchProcessor
	logger    *log.Logger
}

// NewMatchHandler 创建一个新的 MatchHandler 实例。
func NewMatchHandler(cfg *config.Config, evaluator *matching.Evaluator, matcher *processor.MatchProcessor) *MatchHandler {
	return &MatchHandler{
		cfg:       cfg,
		evaluator: evaluator,
		matcher:   matcher,
		logger:    log.New(os.Stdout, "[MatchHandler] ", log.LstdFlags|log.Lshortfile),
	}
}

type matchRequest struct {
	Resume *types.ResumeProfile `json:"resume"`
	Jobs   []*types.JobPosting  `json:"jobs"`
}

func (h *MatchHandler) bindMatchRequest(c *app.RequestContext) (*matchRequest, bool) {
	body, err := c.Body()
	if err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "读取请求体失败"})
		return nil, false
	}

	var req matchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "请求体必须是合法的 JSON"})
		return nil, false
	}
	if req.Resume == nil || strings.TrimSpace(req.Resume.RawText) == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "resume.raw_text 不能为空"})
		return nil, false
	}
	return &req, true
}

// HandleEvaluateBatch 处理批量岗位评估请求。
// POST /api/v1/match/evaluate
func (h *MatchHandler) HandleEvaluateBatch(ctx context.Context, c *app.RequestContext) {
	req, ok := h.bindMatchRequest(c)
	if !ok {
		return
	}

	h.logger.Printf("开始批量评估, 岗位数: %d", len(req.Jobs))

	result, err := h.matcher.ProcessBatch(ctx, req.Resume, req.Jobs)
	if err != nil {
		h.logger.Printf("批量评估失败: %v", err)
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": "批量评估失败"})
		return
	}

	c.JSON(consts.StatusOK, map[string]interface{}{
		"batch_id":          result.BatchID,
		"job_count":         result.JobCount,
		"skipped_count":     result.SkippedCount,
		"recommended_count": result.RecommendedCount,
		"report_object_key": result.ReportObjectKey,
		"evaluations":       result.Evaluations,
	})
}

// HandleRecommend 处理推荐岗位筛选请求。
// 与批量评估不同，该接口不落库、不发事件，只做一次性的过滤计算。
// POST /api/v1/match/recommend
func (h *MatchHandler) HandleRecommend(ctx context.Context, c *app.RequestContext) {
	req, ok := h.bindMatchRequest(c)
	if !ok {
		return
	}

	minScore := 0.0
	if raw := c.Query("min_score"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			c.JSON(consts.StatusBadRequest, map[string]string{"error": "min_score 必须是 [0,1] 内的数字"})
			return
		}
		minScore = parsed
	}

	recommended := h.evaluator.GetRecommended(ctx, req.Resume, req.Jobs, minScore)
	c.JSON(consts.StatusOK, map[string]interface{}{
		"total_jobs":        len(req.Jobs),
		"recommended_count": len(recommended),
		"recommended":       recommended,
	})
}

// HandleGetBatchEvaluations 查询历史批次的评估明细。
// GET /api/v1/match/evaluations/:batch_id
func (h *MatchHandler) HandleGetBatchEvaluations(ctx context.Context, c *app.RequestContext) {
	batchID := c.Param("batch_id")
	if batchID == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "batch_id 不能为空"})
		return
	}
	recommendedOnly := c.Query("recommended_only") == "true"

	batch, records, err := h.matcher.GetBatchEvaluations(ctx, batchID, recommendedOnly)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(consts.StatusNotFound, map[string]string{"error": "未找到该批次"})
			return
		}
		h.logger.Printf("查询批次 %s 的评估记录失败: %v", batchID, err)
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": "查询评估记录失败"})
		return
	}

	c.JSON(consts.StatusOK, map[string]interface{}{
		"batch":       batch,
		"evaluations": records,
		"count":       len(records),
	})
}

// HandleGetBatchReport 下载批次的归档报告。
// GET /api/v1/match/batches/:batch_id/report
func (h *MatchHandler) HandleGetBatchReport(ctx context.Context, c *app.RequestContext) {
	batchID := c.Param("batch_id")
	if batchID == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "batch_id 不能为空"})
		return
	}

	// presign=true 时不回传报告内容，只回传预签名下载链接
	if c.Query("presign") == "true" {
		url, err := h.matcher.GetReportURL(ctx, batchID, 15*time.Minute)
		if err != nil {
			h.logger.Printf("生成批次 %s 的报告链接失败: %v", batchID, err)
			c.JSON(consts.StatusNotFound, map[string]string{"error": "未找到该批次的报告"})
			return
		}
		c.JSON(consts.StatusOK, map[string]string{"url": url})
		return
	}

	report, err := h.matcher.GetReport(ctx, batchID)
	if err != nil {
		h.logger.Printf("获取批次 %s 的报告失败: %v", batchID, err)
		c.JSON(consts.StatusNotFound, map[string]string{"error": "未找到该批次的报告"})
		return
	}

	c.Data(consts.StatusOK, "application/json", report)
}

// HandleExtractSkills 从自由文本中抽取技能词。
// POST /api/v1/skills/extract
func (h *MatchHandler) HandleExtractSkills(ctx context.Context, c *app.RequestContext) {
	body, err := c.Body()
	if err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "读取请求体失败"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "text 不能为空"})
		return
	}

	skills := matching.ExtractSkills(req.Text)
	c.JSON(consts.StatusOK, map[string]interface{}{
		"skills": skills,
		"count":  len(skills),
	})
}

// HandleSkillGaps 分析简历技能与目标岗位之间的差距并给出提升建议。
// POST /api/v1/skills/gaps
func (h *MatchHandler) HandleSkillGaps(ctx context.Context, c *app.RequestContext) {
	req, ok := h.bindMatchRequest(c)
	if !ok {
		return
	}

	plan := matching.SuggestSkillImprovements(req.Resume, req.Jobs)

	gaps := make([]matching.SkillGapAnalysis, 0, len(req.Jobs))
	for _, job := range req.Jobs {
		if job == nil {
			continue
		}
		jobSkills := matching.ExtractSkills(job.Description)
		gaps = append(gaps, matching.AnalyzeSkillGaps(req.Resume.Skills, jobSkills))
	}

	c.JSON(consts.StatusOK, map[string]interface{}{
		"plan": plan,
		"gaps": gaps,
	})
}
