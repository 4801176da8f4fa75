package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"intern-match-go/internal/config"
	"intern-match-go/internal/constants"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// ReportArchive 评估报告归档接口
type ReportArchive interface {
	// UploadReport 上传批次评估报告，返回对象键
	UploadReport(ctx context.Context, batchID string, report []byte) (string, error)

	// GetReport 下载批次评估报告
	GetReport(ctx context.Context, objectKey string) ([]byte, error)

	// GetPresignedURL 获取报告的预签名下载URL
	GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// DeleteReport 删除报告
	DeleteReport(ctx context.Context, objectKey string) error
}

// 确保MinIO实现了ReportArchive接口
var _ ReportArchive = (*MinIO)(nil)

// MinIO 提供评估报告的对象存储归档
type MinIO struct {
	client        *minio.Client
	cfg           *config.MinIOConfig
	reportsBucket string
	logger        *log.Logger
}

// NewMinIO 创建MinIO客户端
func NewMinIO(cfg *config.MinIOConfig, logger *log.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	logger.Printf("[MinIO] Initializing MinIO client with endpoint: %s, reportsBucket: %s", cfg.Endpoint, cfg.ReportsBucket)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Printf("[MinIO] Initialization failed: %v", err)
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	reportsBucket := cfg.ReportsBucket
	if reportsBucket == "" {
		reportsBucket = "match-reports" // 默认值
	}

	m := &MinIO{
		client:        client,
		cfg:           cfg,
		reportsBucket: reportsBucket,
		logger:        logger,
	}

	if err := m.ensureBucket(context.Background(), reportsBucket); err != nil {
		return nil, err
	}

	return m, nil
}

// ensureBucket 确保存储桶存在，并按配置设置报告过期的生命周期规则
func (m *MinIO) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 失败: %w", bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.cfg.Location}); err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucket, err)
		}
		m.logger.Printf("[MinIO] Created bucket: %s", bucket)
	}

	if m.cfg.ReportExpireDays > 0 {
		lcCfg := lifecycle.NewConfiguration()
		lcCfg.Rules = []lifecycle.Rule{
			{
				ID:     "expire-match-reports",
				Status: "Enabled",
				RuleFilter: lifecycle.Filter{
					Prefix: constants.ReportObjectPrefix,
				},
				Expiration: lifecycle.Expiration{
					Days: lifecycle.ExpirationDays(m.cfg.ReportExpireDays),
				},
			},
		}
		if err := m.client.SetBucketLifecycle(ctx, bucket, lcCfg); err != nil {
			// 生命周期规则失败不致命，报告只是不会自动清理
			m.logger.Printf("[MinIO] Warning: failed to set lifecycle on %s: %v", bucket, err)
		}
	}

	return nil
}

// UploadReport 上传批次评估报告 (JSON)，返回对象键
func (m *MinIO) UploadReport(ctx context.Context, batchID string, report []byte) (string, error) {
	if batchID == "" {
		return "", fmt.Errorf("batchID不能为空")
	}

	objectKey := constants.ReportObjectPrefix + batchID + ".json"
	reader := bytes.NewReader(report)

	_, err := m.client.PutObject(ctx, m.reportsBucket, objectKey, reader, int64(len(report)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("上传评估报告失败: %w", err)
	}

	m.logger.Printf("[MinIO] Uploaded report %s (%d bytes)", objectKey, len(report))
	return objectKey, nil
}

// GetReport 下载批次评估报告
func (m *MinIO) GetReport(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.reportsBucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取评估报告失败: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取评估报告失败: %w", err)
	}
	return data, nil
}

// GetPresignedURL 获取报告的预签名下载URL
func (m *MinIO) GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.reportsBucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成预签名URL失败: %w", err)
	}
	return u.String(), nil
}

// DeleteReport 删除报告
func (m *MinIO) DeleteReport(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.reportsBucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除评估报告失败: %w", err)
	}
	return nil
}
