// Package storage 聚合对象存储、元数据库、KV 与消息队列客户端.
//
// Manager 在进程启动时显式构造一次，按引用注入请求链路，
// 不持有任何包级单例.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.New(ctx, cfg)
//	if err != nil {
//	    // 处理错误
//	}
//	defer mgr.Close()
//
//	s3Client := mgr.GetS3Client()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"fmt"

	"github.com/yvesmh/harmonia/pkg/configs"
	dbc "github.com/yvesmh/harmonia/pkg/internal/storage/db"
	kvc "github.com/yvesmh/harmonia/pkg/internal/storage/kv"
	mqc "github.com/yvesmh/harmonia/pkg/internal/storage/mq"
	s3c "github.com/yvesmh/harmonia/pkg/internal/storage/s3"
	hlog "github.com/yvesmh/harmonia/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	KV *kvc.Client
	MQ *mqc.Client
}

// New 按配置依次初始化 DB、S3、KV 与 MQ.
// MQ 是可选协作方：连接失败只降级（不发事件），不阻止进程启动.
func New(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{}

	dbi, err := dbc.New(ctx, &cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	m.DB = dbi

	if cfg.Metrics.Enabled {
		if err := dbi.RegisterGORMMetrics(cfg.DB.Database); err != nil {
			return nil, fmt.Errorf("register gorm metrics: %w", err)
		}
	}

	s3i, err := s3c.New(ctx, &cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("init s3: %w", err)
	}

	m.S3 = s3i

	kvi, err := kvc.New(ctx, &cfg.KV)
	if err != nil {
		return nil, fmt.Errorf("init kv: %w", err)
	}

	m.KV = kvi

	mqi, err := mqc.New(ctx, &cfg.MQ, cfg.Metrics.Enabled)
	if err != nil {
		hlog.Logger().Warn().Err(err).Msg("MQ 不可用，生命周期事件将被跳过")
	} else {
		m.MQ = mqi
	}

	hlog.Logger().Info().Msg("storage manager initialized")

	return m, nil
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端；MQ 未连接时返回 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 释放全部存储连接.
func (m *Manager) Close() error {
	var firstErr error

	if m.MQ != nil {
		if err := m.MQ.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.KV != nil {
		if err := m.KV.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.S3 != nil {
		if err := m.S3.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.DB != nil {
		if sqlDB, err := m.DB.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
