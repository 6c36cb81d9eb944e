package sweeper

import (
	"context"

	"quickmeet-api/core/logger"
	"quickmeet-api/modules/sweeper/service"

	"github.com/hibiken/asynq"
)

// TypeExpirySweep is the asynq task type for one expiry pass.
const TypeExpirySweep = "meetup:expiry_sweep"

// NewExpirySweepTask builds the periodic sweep task. It carries no
// payload; each run discovers its own candidates.
func NewExpirySweepTask() *asynq.Task {
	return asynq.NewTask(TypeExpirySweep, nil)
}

// HandleExpirySweep adapts the sweeper service to an asynq handler.
// Errors are returned so asynq records the failure, but the next
// scheduled tick runs regardless.
func HandleExpirySweep(svc service.SweeperServiceInterface) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		swept, err := svc.Sweep(ctx)
		if err != nil {
			logger.Error("Sweeper:HandleExpirySweep", err)
			return err
		}

		if _, err := svc.ReconcileCounters(ctx); err != nil {
			logger.Error("Sweeper:HandleExpirySweep:Reconcile", err)
			return err
		}

		logger.Debug("Sweeper:HandleExpirySweep:Completed", "swept", swept)
		return nil
	}
}
