package worker

import (
	"context"
	"errors"
	"time"

	"github.com/greencycle/internal/config"
	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	redemptionExpireSweepInterval = 10 * time.Minute
	pointsReconcileInterval       = time.Hour
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.RedemptionService != nil {
		go s.runRedemptionExpireSweepLoop(ctx)
	}
	if s.consumer != nil && s.consumer.PointsService != nil {
		go s.runPointsReconcileLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runRedemptionExpireSweepLoop 兜底清理超时兑换（延迟任务丢失时仍能退还积分回补库存）
func (s *Service) runRedemptionExpireSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.RedemptionService == nil {
		return
	}
	runOnce := func() {
		if _, err := s.consumer.RedemptionService.ExpireDueRedemptions(time.Now()); err != nil {
			logger.Warnw("worker_redemption_expire_sweep_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(redemptionExpireSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// runPointsReconcileLoop 周期对账用户积分余额与流水
func (s *Service) runPointsReconcileLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.PointsService == nil {
		return
	}
	runOnce := func() {
		fixed, err := s.consumer.PointsService.ReconcileAll()
		if err != nil {
			logger.Warnw("worker_points_reconcile_loop_failed", "error", err)
			return
		}
		if fixed > 0 {
			logger.Warnw("worker_points_reconcile_loop_fixed", "count", fixed)
		}
	}
	runOnce()

	ticker := time.NewTicker(pointsReconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
