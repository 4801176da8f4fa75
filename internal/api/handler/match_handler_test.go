package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"intern-match-go/internal/api/handler"
	"intern-match-go/internal/api/router"
	"intern-match-go/internal/config"
	"intern-match-go/internal/embedding"
	"intern-match-go/internal/matching"
	"intern-match-go/internal/processor"
	"intern-match-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVectors struct{}

func (stubVectors) GetEmbeddings(_ context.Context, texts []string) embedding.Result {
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = []float64{0.5, 0.5, 0.5}
	}
	return embedding.Result{Vectors: vectors, Provider: "stub"}
}

func newTestEngine(t *testing.T, apiKey string) *server.Hertz {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.APIKey = apiKey

	evaluator := matching.NewEvaluator(stubVectors{}, 0.8)
	matcher, err := processor.NewMatchProcessor(evaluator, nil, processor.WithDiscardedLogs())
	require.NoError(t, err)

	h := server.Default(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(h, cfg, handler.NewMatchHandler(cfg, evaluator, matcher))
	return h
}

func matchBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	payload := map[string]interface{}{
		"resume": types.ResumeProfile{
			RawText: "intern with python and docker experience",
			Skills:  []string{"python", "docker"},
		},
		"jobs": []types.JobPosting{
			{Title: "Backend Intern", Company: "Acme", Description: "Skills: python, docker"},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func TestHandleEvaluateBatch(t *testing.T) {
	h := newTestEngine(t, "")

	body := matchBody(t)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/match/evaluate",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"})

	require.Equal(t, 200, resp.Code)

	var result struct {
		BatchID          string                `json:"batch_id"`
		JobCount         int                   `json:"job_count"`
		RecommendedCount int                   `json:"recommended_count"`
		Evaluations      []types.JobEvaluation `json:"evaluations"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 1, result.JobCount)
	assert.Equal(t, 1, result.RecommendedCount)
	require.Len(t, result.Evaluations, 1)
	assert.True(t, result.Evaluations[0].Recommended)
}

func TestHandleEvaluateBatchRejectsEmptyResume(t *testing.T) {
	h := newTestEngine(t, "")

	body := bytes.NewBufferString(`{"jobs":[]}`)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/match/evaluate",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"})

	assert.Equal(t, 400, resp.Code)
}

func TestHandleRecommendInvalidMinScore(t *testing.T) {
	h := newTestEngine(t, "")

	body := matchBody(t)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/match/recommend?min_score=1.5",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"})

	assert.Equal(t, 400, resp.Code)
}

func TestHandleRecommend(t *testing.T) {
	h := newTestEngine(t, "")

	body := matchBody(t)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/match/recommend",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"})

	require.Equal(t, 200, resp.Code)

	var result struct {
		TotalJobs        int `json:"total_jobs"`
		RecommendedCount int `json:"recommended_count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, 1, result.TotalJobs)
	assert.Equal(t, 1, result.RecommendedCount)
}

func TestHandleExtractSkills(t *testing.T) {
	h := newTestEngine(t, "")

	body := bytes.NewBufferString(`{"text":"Requirements: python, docker, kubernetes"}`)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/skills/extract",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"})

	require.Equal(t, 200, resp.Code)

	var result struct {
		Skills []string `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Contains(t, result.Skills, "python")
	assert.Contains(t, result.Skills, "docker")
	assert.Contains(t, result.Skills, "kubernetes")
}

func TestAPIKeyAuth(t *testing.T) {
	h := newTestEngine(t, "secret-key")

	body := matchBody(t)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/match/evaluate",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	assert.Equal(t, 401, resp.Code)

	body = matchBody(t)
	resp = ut.PerformRequest(h.Engine, "POST", "/api/v1/match/evaluate",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"},
		ut.Header{Key: "X-API-Key", Value: "secret-key"})
	assert.Equal(t, 200, resp.Code)

	// 健康检查不受鉴权影响
	resp = ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, 200, resp.Code)
}

func TestGetBatchEvaluationsWithoutStorage(t *testing.T) {
	h := newTestEngine(t, "")

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/match/evaluations/some-batch", nil)
	assert.Equal(t, 500, resp.Code)
}
