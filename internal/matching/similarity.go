package matching

import "math"

// CosineSimilarity01 计算两个向量的余弦相似度并重标定到 [0,1]
//
// 先把余弦值clamp到 [-1,1]（浮点误差可能越界），再按 (cos+1)/2 映射：
// 反向向量 ⇒ 0，正交 ⇒ 0.5，同向 ⇒ 1。
// 维度不一致、任一向量为空或模长为零时返回 0，不报错：
// 上游已保证同批向量来自同一提供商，到这里还不一致就只能视为无相似性
func CosineSimilarity01(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return (cos + 1) / 2
}
