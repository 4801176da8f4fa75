package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))

	long := strings.Repeat("a", 50)
	got := TruncateString(long, 21)
	assert.Len(t, []rune(got), 21)
	assert.Contains(t, got, "...")

	// maxLength太小时直接硬截断，不加省略号
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
}

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "张*", MaskPII("张三"))
	assert.Equal(t, "王*明", MaskPII("王小明"))
	assert.Equal(t, "13*******78", MaskPII("13812345678"))
}

func TestSafeAttributeValue(t *testing.T) {
	// 敏感字段名走掩码
	masked := SafeAttributeValue("user_email", "someone@example.com", 200)
	assert.NotEqual(t, "someone@example.com", masked)
	assert.Contains(t, masked, "*")

	// api_key 同样视为敏感字段
	masked = SafeAttributeValue("cohere_api_key", "sk-abcdef123456", 200)
	assert.Contains(t, masked, "*")

	// 普通字段只做截断
	plain := SafeAttributeValue("job_title", "Backend Intern", 200)
	assert.Equal(t, "Backend Intern", plain)
}

func TestDomainTruncationHelpers(t *testing.T) {
	longSQL := strings.Repeat("SELECT * FROM evaluation_records; ", 30)
	assert.LessOrEqual(t, len([]rune(SafeSQL(longSQL))), MaxSQLLength)

	longKey := strings.Repeat("k", 300)
	assert.LessOrEqual(t, len([]rune(SafeRedisKey(longKey))), MaxRedisLength)

	longResume := strings.Repeat("经验丰富的实习生 ", 100)
	assert.LessOrEqual(t, len([]rune(SafeResumeContent(longResume))), MaxResumeLength)

	longJD := strings.Repeat("responsibilities include ", 50)
	assert.LessOrEqual(t, len([]rune(SafeJobDescription(longJD))), MaxJobDescriptionLength)
}
