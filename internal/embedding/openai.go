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

// OpenAIEmbedder 实现 TextEmbedder 接口，调用OpenAI Embeddings API
type OpenAIEmbedder struct {
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewOpenAIEmbedder 创建新的OpenAI Embedder
func NewOpenAIEmbedder(apiKey string, providerCfg config.ProviderConfig) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}

	model := providerCfg.Model
	if model == "" {
		model = "text-embedding-ada-002" // Fallback default
	}
	dimensions := providerCfg.Dimensions
	if dimensions == 0 {
		dimensions = 1536 // ada-002 声明维度
	}
	baseURL := providerCfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1/embeddings"
	}
	timeout := constants.DefaultProviderTimeout
	if providerCfg.TimeoutSeconds > 0 {
		timeout = time.Duration(providerCfg.TimeoutSeconds) * time.Second
	}

	embedder := &OpenAIEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     log.New(os.Stderr, "[OpenAIEmbedder] ", log.LstdFlags|log.Lshortfile),
	}

	return embedder, nil
}

// GetDimensions 返回嵌入器配置的维度
func (o *OpenAIEmbedder) GetDimensions() int {
	return o.dimensions
}

// ProviderName 返回提供商名称
func (o *OpenAIEmbedder) ProviderName() string {
	return constants.ProviderOpenAI
}

// ModelName 返回模型名称
func (o *OpenAIEmbedder) ModelName() string {
	return o.model
}

// OpenAIEmbeddingRequest OpenAI Embedding请求结构
type OpenAIEmbeddingRequest struct {
	Input interface{} `json:"input"` // string or []string
	Model string      `json:"model"`
}

// OpenAIEmbeddingResponse OpenAI Embedding响应结构
type OpenAIEmbeddingResponse struct {
	Object string                  `json:"object"` // e.g., "list"
	Data   []OpenAIEmbeddingEntry  `json:"data"`
	Model  string                  `json:"model"`
	Usage  OpenAIEmbeddingUsage    `json:"usage"`
	Error  *OpenAIEmbeddingAPIErr  `json:"error,omitempty"`
}

// OpenAIEmbeddingEntry part of the response
type OpenAIEmbeddingEntry struct {
	Object    string    `json:"object"` // e.g., "embedding"
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// OpenAIEmbeddingUsage part of the response
type OpenAIEmbeddingUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// OpenAIEmbeddingAPIErr for API-level errors
type OpenAIEmbeddingAPIErr struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// EmbedStrings 将文本转换为向量, 实现 cloudwego/eino embedding.Embedder 接口
func (o *OpenAIEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	options := &embedding.Options{}
	embedding.GetCommonOptions(options, opts...)

	effectiveModel := o.model
	if options.Model != nil && *options.Model != "" {
		effectiveModel = *options.Model
	}

	if len(texts) == 0 {
		o.logger.Println("EmbedStrings: No texts to embed, returning empty.")
		return [][]float64{}, nil
	}

	var inputBody interface{}
	if len(texts) == 1 {
		inputBody = texts[0]
	} else {
		inputBody = texts
	}

	reqBody := OpenAIEmbeddingRequest{
		Input: inputBody,
		Model: effectiveModel,
	}

	o.logger.Printf("Embedding %d texts with model %s. First text (first 100 chars): %.100s", len(texts), effectiveModel, texts[0])

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("序列化请求失败: %w", err)
		o.logger.Printf("Error marshalling request: %v", err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		err = fmt.Errorf("创建HTTP请求失败: %w", err)
		o.logger.Printf("Error creating HTTP request: %v", err)
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("发送HTTP请求失败: %w", err)
		o.logger.Printf("Error sending HTTP request: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("读取响应体失败: %w", err)
		o.logger.Printf("Error reading response body: %v", err)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp OpenAIEmbeddingResponse
		detailedError := fmt.Errorf("API调用失败, 状态码: %d, 响应: %s", resp.StatusCode, string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil && errResp.Error.Message != "" {
			detailedError = fmt.Errorf("API调用失败, 状态码: %d, 类型: %s, 错误: %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		o.logger.Printf("API call failed: %v", detailedError)
		return nil, detailedError
	}

	var parsedResp OpenAIEmbeddingResponse
	if err := json.Unmarshal(body, &parsedResp); err != nil {
		err = fmt.Errorf("解析响应JSON失败: %w. Body: %s", err, string(body))
		o.logger.Printf("Error unmarshalling response JSON: %v", err)
		return nil, err
	}

	// 检查响应中是否包含API级别的错误
	if parsedResp.Error != nil && parsedResp.Error.Message != "" {
		err = fmt.Errorf("API返回错误: 类型=%s, 消息='%s'", parsedResp.Error.Type, parsedResp.Error.Message)
		o.logger.Printf("Parsed response contains API error: %v", err)
		return nil, err
	}

	// 从响应中提取嵌入向量，按Index排列保持与输入一致
	outputEmbeddings := make([][]float64, len(parsedResp.Data))
	for i, dataEntry := range parsedResp.Data {
		idx := dataEntry.Index
		if idx < 0 || idx >= len(outputEmbeddings) {
			idx = i
		}
		outputEmbeddings[idx] = dataEntry.Embedding
	}

	o.logger.Printf("Successfully embedded %d texts. First embedding dim (if any): %d. Prompt tokens: %d, Total tokens: %d",
		len(texts), firstEmbeddingDim(outputEmbeddings), parsedResp.Usage.PromptTokens, parsedResp.Usage.TotalTokens)

	return outputEmbeddings, nil
}
