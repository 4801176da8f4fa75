package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity01IdenticalVectors(t *testing.T) {
	v := []float64{0.3, 0.5, 0.1}
	assert.InDelta(t, 1.0, CosineSimilarity01(v, v), 1e-9)
}

func TestCosineSimilarity01OppositeVectors(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-1, -2, -3}
	assert.InDelta(t, 0.0, CosineSimilarity01(a, b), 1e-9)
}

func TestCosineSimilarity01OrthogonalVectors(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	assert.InDelta(t, 0.5, CosineSimilarity01(a, b), 1e-9)
}

func TestCosineSimilarity01DegenerateInputs(t *testing.T) {
	v := []float64{1, 2, 3}

	assert.Equal(t, 0.0, CosineSimilarity01(nil, v))
	assert.Equal(t, 0.0, CosineSimilarity01(v, nil))
	// 维度不一致
	assert.Equal(t, 0.0, CosineSimilarity01(v, []float64{1, 2}))
	// 零向量
	assert.Equal(t, 0.0, CosineSimilarity01(v, []float64{0, 0, 0}))
}

func TestCosineSimilarity01ClampsFloatDrift(t *testing.T) {
	// 数值上完全平行的大向量，浮点累加可能让cos略超1
	a := make([]float64, 2048)
	b := make([]float64, 2048)
	for i := range a {
		a[i] = 0.123456789
		b[i] = 0.123456789 * 3
	}
	got := CosineSimilarity01(a, b)
	assert.LessOrEqual(t, got, 1.0)
	assert.InDelta(t, 1.0, got, 1e-9)
}
