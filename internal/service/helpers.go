package service

import (
	"context"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/google/uuid"
)

func newActivity(ctx context.Context, now time.Time, action domain.ActivityAction, details string) domain.ActivityLogItem {
	return domain.ActivityLogItem{
		ID:        uuid.New().String(),
		Timestamp: now,
		UserName:  domain.ActorFrom(ctx),
		Action:    action,
		Details:   details,
	}
}

func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       err,
		Fields:    fields,
	})
}
