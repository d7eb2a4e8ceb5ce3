package service

import (
	"context"
	"log/slog"
)

// sagaStep 是一个带补偿动作的步骤；compensate 为空表示该步骤无需回滚
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga 依次执行各步骤。某一步失败时，按相反顺序对已成功的步骤各执行一次补偿，
// 补偿失败只记录日志，返回值始终是触发回滚的原始错误。
func runSaga(ctx context.Context, logger *slog.Logger, steps ...sagaStep) error {
	done := make([]sagaStep, 0, len(steps))
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			compensate(ctx, logger, step.name, done)
			return err
		}
		done = append(done, step)
	}
	return nil
}

func compensate(ctx context.Context, logger *slog.Logger, failedStep string, done []sagaStep) {
	// 请求被取消时仍然要完成清理
	cleanupCtx := context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(cleanupCtx); err != nil {
			logger.Error("saga compensation failed",
				"failed_step", failedStep,
				"compensated_step", step.name,
				"err", err,
			)
		}
	}
}
