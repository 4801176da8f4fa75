package matching

import (
	"context"
	"testing"

	"intern-match-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchEvaluateSortsDescending(t *testing.T) {
	evaluator := NewEvaluator(&fakeVectorSource{vectorFor: identicalVectors}, 0.8)
	profile := &types.ResumeProfile{RawText: "resume", Skills: []string{"python", "docker"}}

	jobs := []*types.JobPosting{
		{Title: "No Match", Description: "Skills: haskell, erlang"},
		{Title: "Full Match", Description: "Skills: python, docker"},
		{Title: "Half Match", Description: "Skills: python, haskell"},
	}

	evaluations := evaluator.BatchEvaluate(context.Background(), profile, jobs)

	require.Len(t, evaluations, 3)
	assert.Equal(t, "Full Match", evaluations[0].JobTitle)
	assert.Equal(t, "Half Match", evaluations[1].JobTitle)
	assert.Equal(t, "No Match", evaluations[2].JobTitle)
	assert.GreaterOrEqual(t, evaluations[0].OverallScore, evaluations[1].OverallScore)
	assert.GreaterOrEqual(t, evaluations[1].OverallScore, evaluations[2].OverallScore)
}

func TestBatchEvaluateStableForEqualScores(t *testing.T) {
	evaluator := NewEvaluator(&fakeVectorSource{vectorFor: identicalVectors}, 0.8)
	profile := &types.ResumeProfile{RawText: "resume", Skills: []string{"python"}}

	// 两个岗位描述等价，得分必然相同，顺序必须保持输入顺序
	jobs := []*types.JobPosting{
		{Title: "First", Description: "Skills: python"},
		{Title: "Second", Description: "Skills: python"},
	}

	evaluations := evaluator.BatchEvaluate(context.Background(), profile, jobs)

	require.Len(t, evaluations, 2)
	assert.Equal(t, "First", evaluations[0].JobTitle)
	assert.Equal(t, "Second", evaluations[1].JobTitle)
}

func TestBatchEvaluateEmptyInput(t *testing.T) {
	evaluator := NewEvaluator(&fakeVectorSource{vectorFor: identicalVectors}, 0.8)
	profile := &types.ResumeProfile{RawText: "resume"}

	assert.Empty(t, evaluator.BatchEvaluate(context.Background(), profile, nil))
	assert.Empty(t, evaluator.BatchEvaluate(context.Background(), profile, []*types.JobPosting{}))
}

func TestBatchEvaluateSkipsNilJobs(t *testing.T) {
	evaluator := NewEvaluator(&fakeVectorSource{vectorFor: identicalVectors}, 0.8)
	profile := &types.ResumeProfile{RawText: "resume", Skills: []string{"python"}}

	jobs := []*types.JobPosting{
		nil,
		{Title: "Real", Description: "Skills: python"},
		nil,
	}

	evaluations := evaluator.BatchEvaluate(context.Background(), profile, jobs)
	require.Len(t, evaluations, 1)
	assert.Equal(t, "Real", evaluations[0].JobTitle)
}

func TestGetRecommendedFiltersByThreshold(t *testing.T) {
	evaluator := NewEvaluator(&fakeVectorSource{vectorFor: identicalVectors}, 0.8)
	profile := &types.ResumeProfile{RawText: "resume", Skills: []string{"python", "docker"}}

	jobs := []*types.JobPosting{
		{Title: "Full Match", Description: "Skills: python, docker"}, // overall = 1.0
		{Title: "No Match", Description: "Skills: haskell, erlang"},  // overall = 0.5
	}

	recommended := evaluator.GetRecommended(context.Background(), profile, jobs, 0)

	require.Len(t, recommended, 1)
	assert.Equal(t, "Full Match", recommended[0].JobTitle)
	assert.True(t, recommended[0].Recommended)
}

func TestGetRecommendedCustomMinScore(t *testing.T) {
	evaluator := NewEvaluator(&fakeVectorSource{vectorFor: identicalVectors}, 0.8)
	profile := &types.ResumeProfile{RawText: "resume", Skills: []string{"python", "docker"}}

	jobs := []*types.JobPosting{
		{Title: "Full Match", Description: "Skills: python, docker"},
		{Title: "No Match", Description: "Skills: haskell, erlang"},
	}

	// 放宽到0.4后两个岗位都入选，仍按得分降序
	recommended := evaluator.GetRecommended(context.Background(), profile, jobs, 0.4)
	require.Len(t, recommended, 2)
	assert.Equal(t, "Full Match", recommended[0].JobTitle)
}

func TestBatchEvaluateContextCancelled(t *testing.T) {
	evaluator := NewEvaluator(&fakeVectorSource{vectorFor: identicalVectors}, 0.8)
	profile := &types.ResumeProfile{RawText: "resume", Skills: []string{"python"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evaluations := evaluator.BatchEvaluate(ctx, profile, []*types.JobPosting{
		{Title: "A", Description: "Skills: python"},
	})
	assert.Empty(t, evaluations)
}
