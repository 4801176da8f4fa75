package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"intern-match-go/internal/config"
	"intern-match-go/internal/storage/models"
	"intern-match-go/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("intern-match-go/storage/mysql")

// GormTracingPlugin 是一个GORM插件，用于向OpenTelemetry中添加数据库操作的追踪点
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	disableErrSkip bool
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}

	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after()); err != nil {
		return err
	}

	return nil
}

// before 返回在GORM操作之前执行的回调函数
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		spanName := fmt.Sprintf("%s %s", operation, tableName)
		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}

		newCtx, span := p.tracer.Start(ctx, spanName, opts...)

		// 将span保存在DB上下文中，以便在after回调中使用
		db.Statement.Context = context.WithValue(newCtx, "otel-span", span)
	}
}

// after 返回在GORM操作之后执行的回调函数
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value("otel-span").(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		// ErrRecordNotFound 是业务逻辑正常情况的一部分，不作为错误处理
		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				span.SetAttributes(attribute.String("error.type", "database_error"))
				span.RecordError(db.Error)
				span.SetStatus(codes.Error, db.Error.Error())
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// NewGormTracingPlugin 创建一个新的GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		disableErrSkip: true,
	}
}

// EvaluationStore 评估记录存储接口
type EvaluationStore interface {
	// SaveBatch 保存一个批次及其全部评估记录
	SaveBatch(ctx context.Context, batch *models.MatchBatch, evaluations []types.JobEvaluation) error

	// GetBatch 获取批次元信息
	GetBatch(ctx context.Context, batchID string) (*models.MatchBatch, error)

	// ListEvaluationsByBatch 按综合得分降序返回一个批次的评估记录
	ListEvaluationsByBatch(ctx context.Context, batchID string, recommendedOnly bool) ([]models.EvaluationRecord, error)

	// Close 关闭数据库连接
	Close() error
}

// 确保MySQL实现了EvaluationStore接口
var _ EvaluationStore = (*MySQL)(nil)

// MySQL 提供评估记录的关系数据库存储
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	// 构建DSN，添加超时设置
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	case 4:
		logLevel = logger.Info
	default:
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// 连接池参数
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	m := &MySQL{
		db:  db,
		cfg: cfg,
	}

	// 注册OpenTelemetry追踪插件
	tracingPlugin := NewGormTracingPlugin(cfg.Database)
	if err := db.Use(tracingPlugin); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	if err := m.autoMigrateSchema(); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	log.Println("成功连接到MySQL并自动迁移数据库结构")
	return m, nil
}

// autoMigrateSchema 使用GORM自动迁移数据库表结构
func (m *MySQL) autoMigrateSchema() error {
	// 迁移期间关闭SQL日志打印
	silentLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	return silentDB.AutoMigrate(
		&models.MatchBatch{},
		&models.EvaluationRecord{},
	)
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// SaveBatch 在一个事务里保存批次元信息和全部评估记录
func (m *MySQL) SaveBatch(ctx context.Context, batch *models.MatchBatch, evaluations []types.JobEvaluation) error {
	if batch == nil || batch.BatchID == "" {
		return fmt.Errorf("批次信息不完整")
	}

	records := make([]models.EvaluationRecord, 0, len(evaluations))
	for i := range evaluations {
		record, err := evaluationToRecord(batch.BatchID, &evaluations[i])
		if err != nil {
			return fmt.Errorf("转换评估记录失败 (job=%s): %w", evaluations[i].JobTitle, err)
		}
		records = append(records, record)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("保存批次失败: %w", err)
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, 100).Error; err != nil {
				return fmt.Errorf("保存评估记录失败: %w", err)
			}
		}
		return nil
	})
}

// GetBatch 获取批次元信息，不存在时返回 gorm.ErrRecordNotFound
func (m *MySQL) GetBatch(ctx context.Context, batchID string) (*models.MatchBatch, error) {
	var batch models.MatchBatch
	if err := m.db.WithContext(ctx).First(&batch, "batch_id = ?", batchID).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListEvaluationsByBatch 按综合得分降序返回一个批次的评估记录
func (m *MySQL) ListEvaluationsByBatch(ctx context.Context, batchID string, recommendedOnly bool) ([]models.EvaluationRecord, error) {
	query := m.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("overall_score DESC")
	if recommendedOnly {
		query = query.Where("recommended = ?", true)
	}

	var records []models.EvaluationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询评估记录失败: %w", err)
	}
	return records, nil
}

// evaluationToRecord 把内存评估结果转为落库模型
func evaluationToRecord(batchID string, evaluation *types.JobEvaluation) (models.EvaluationRecord, error) {
	skillsJSON, err := json.Marshal(evaluation.ExtractedSkills)
	if err != nil {
		return models.EvaluationRecord{}, err
	}
	matchJSON, err := json.Marshal(evaluation.SkillMatch)
	if err != nil {
		return models.EvaluationRecord{}, err
	}

	return models.EvaluationRecord{
		EvaluationID:       evaluation.EvaluationID,
		BatchID:            batchID,
		JobTitle:           evaluation.JobTitle,
		Company:            evaluation.Company,
		Platform:           evaluation.Platform,
		Link:               evaluation.Link,
		ExtractedSkills:    datatypes.JSON(skillsJSON),
		SemanticSimilarity: evaluation.SemanticSimilarity,
		SkillMatch:         datatypes.JSON(matchJSON),
		OverallScore:       evaluation.OverallScore,
		Recommended:        evaluation.Recommended,
		Reasoning:          evaluation.Reasoning,
		EvaluatedAt:        evaluation.EvaluatedAt,
	}, nil
}
