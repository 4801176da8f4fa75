package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromFile 验证YAML配置能被正确加载并填充默认值
func TestLoadConfigFromFile(t *testing.T) {
	yamlContent := `
cohere:
  api_key: "ck-test"
  dimensions: 1024
openai:
  api_key: "sk-test"
matching:
  similarity_threshold: 0.85
  primary_provider: "cohere"
  fallback_provider: "openai"
server:
  address: ":9090"
`
	tmpDir, err := os.MkdirTemp("", "config-test")
	require.NoError(t, err, "无法创建临时目录")
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err, "无法写入临时配置文件")

	cfg, err := LoadConfigFromFileOnly(configPath)
	require.NoError(t, err, "加载合法配置不应返回错误")
	require.NotNil(t, cfg, "配置对象不应为 nil")

	assert.Equal(t, "ck-test", cfg.Cohere.APIKey)
	assert.Equal(t, 0.85, cfg.Matching.SimilarityThreshold)
	assert.Equal(t, ":9090", cfg.Server.Address)

	// 未显式配置的字段应落到默认值
	assert.Equal(t, "embed-english-v3.0", cfg.Cohere.Model, "Cohere模型应使用默认值")
	assert.Equal(t, 1536, cfg.OpenAI.Dimensions, "OpenAI维度应使用默认值")
	assert.Equal(t, 30, cfg.Cohere.TimeoutSeconds, "提供商超时应默认30秒")
}

// TestLoadConfigMissingFileInTest 测试环境中找不到配置文件时应返回默认配置
func TestLoadConfigMissingFileInTest(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(os.TempDir(), "definitely-not-here", "config.yaml"))
	require.NoError(t, err, "测试环境中缺失配置文件不应报错")
	require.NotNil(t, cfg)

	assert.Equal(t, 0.8, cfg.Matching.SimilarityThreshold, "默认推荐阈值应为0.8")
	assert.Equal(t, "cohere", cfg.Matching.PrimaryProvider)
	assert.Equal(t, "openai", cfg.Matching.FallbackProvider)
	assert.Equal(t, 1024, cfg.Cohere.Dimensions)
}

// TestLoadConfigFromFileOnlyRequiresPath 不提供路径时应返回错误
func TestLoadConfigFromFileOnlyRequiresPath(t *testing.T) {
	_, err := LoadConfigFromFileOnly("")
	assert.Error(t, err, "空路径应返回错误")
}

// TestProviderByName 按名称查找提供商配置
func TestProviderByName(t *testing.T) {
	cfg := createDefaultConfig()

	cohere := cfg.ProviderByName("cohere")
	require.NotNil(t, cohere)
	assert.Equal(t, 1024, cohere.Dimensions)

	openai := cfg.ProviderByName("OpenAI") // 名称不区分大小写
	require.NotNil(t, openai)
	assert.Equal(t, 1536, openai.Dimensions)

	assert.Nil(t, cfg.ProviderByName("huggingface"), "未知提供商应返回nil")
}

// TestGetDuration 验证时长解析的默认值回退
func TestGetDuration(t *testing.T) {
	def := 5 * time.Second
	assert.Equal(t, def, GetDuration("", def))
	assert.Equal(t, def, GetDuration("not-a-duration", def))
	assert.Equal(t, 10*time.Second, GetDuration("10s", def))
}
