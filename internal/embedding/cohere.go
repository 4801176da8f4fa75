package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"intern-match-go/internal/config"
	"intern-match-go/internal/constants"

	"github.com/cloudwego/eino/components/embedding"
)

// CohereEmbedder 实现 TextEmbedder 接口，调用Cohere Embed v3 API
type CohereEmbedder struct {
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewCohereEmbedder 创建新的Cohere Embedder
func NewCohereEmbedder(apiKey string, providerCfg config.ProviderConfig) (*CohereEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}

	model := providerCfg.Model
	if model == "" {
		model = "embed-english-v3.0" // Fallback default
	}
	dimensions := providerCfg.Dimensions
	if dimensions == 0 {
		dimensions = 1024 // Cohere embed v3 声明维度
	}
	baseURL := providerCfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.cohere.ai/v1/embed"
	}
	timeout := constants.DefaultProviderTimeout
	if providerCfg.TimeoutSeconds > 0 {
		timeout = time.Duration(providerCfg.TimeoutSeconds) * time.Second
	}

	embedder := &CohereEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     log.New(os.Stderr, "[CohereEmbedder] ", log.LstdFlags|log.Lshortfile),
	}

	return embedder, nil
}

// GetDimensions 返回嵌入器配置的维度
func (c *CohereEmbedder) GetDimensions() int {
	return c.dimensions
}

// ProviderName 返回提供商名称
func (c *CohereEmbedder) ProviderName() string {
	return constants.ProviderCohere
}

// ModelName 返回模型名称
func (c *CohereEmbedder) ModelName() string {
	return c.model
}

// CohereEmbedRequest Cohere Embed请求结构
type CohereEmbedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

// CohereEmbedResponse Cohere Embed响应结构
type CohereEmbedResponse struct {
	ID         string      `json:"id,omitempty"`
	Embeddings [][]float64 `json:"embeddings"`
	Message    string      `json:"message,omitempty"` // API错误时返回
}

// EmbedStrings 将文本转换为向量, 实现 cloudwego/eino embedding.Embedder 接口
func (c *CohereEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	// 1. Handle options
	options := &embedding.Options{}
	embedding.GetCommonOptions(options, opts...)

	effectiveModel := c.model
	if options.Model != nil && *options.Model != "" {
		effectiveModel = *options.Model
	}

	if len(texts) == 0 {
		c.logger.Println("EmbedStrings: No texts to embed, returning empty.")
		return [][]float64{}, nil
	}

	reqBody := CohereEmbedRequest{
		Texts:     texts,
		Model:     effectiveModel,
		InputType: "search_document",
	}

	c.logger.Printf("Embedding %d texts with model %s. First text (first 100 chars): %.100s", len(texts), effectiveModel, texts[0])

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("序列化请求失败: %w", err)
		c.logger.Printf("Error marshalling request: %v", err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		err = fmt.Errorf("创建HTTP请求失败: %w", err)
		c.logger.Printf("Error creating HTTP request: %v", err)
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("发送HTTP请求失败: %w", err)
		c.logger.Printf("Error sending HTTP request: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("读取响应体失败: %w", err)
		c.logger.Printf("Error reading response body: %v", err)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiError CohereEmbedResponse
		detailedError := fmt.Errorf("API调用失败, 状态码: %d, 响应: %s", resp.StatusCode, string(body))
		if json.Unmarshal(body, &apiError) == nil && apiError.Message != "" {
			detailedError = fmt.Errorf("API调用失败, 状态码: %d, 错误: %s", resp.StatusCode, apiError.Message)
		}
		c.logger.Printf("API call failed: %v", detailedError)
		return nil, detailedError
	}

	var parsedResp CohereEmbedResponse
	if err := json.Unmarshal(body, &parsedResp); err != nil {
		err = fmt.Errorf("解析响应JSON失败: %w. Body: %s", err, string(body))
		c.logger.Printf("Error unmarshalling response JSON: %v", err)
		return nil, err
	}

	c.logger.Printf("Successfully embedded %d texts. First embedding dim (if any): %d",
		len(texts), firstEmbeddingDim(parsedResp.Embeddings))

	return parsedResp.Embeddings, nil
}

// Helper function to safely get the dimension of the first embedding for logging
func firstEmbeddingDim(embeddings [][]float64) int {
	if len(embeddings) > 0 && len(embeddings[0]) > 0 {
		return len(embeddings[0])
	}
	return 0
}
