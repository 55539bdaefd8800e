package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	log *logrus.Entry
}

// NewLogUseCaseObserver writes use-case events to log.
func NewLogUseCaseObserver(log *logrus.Entry) UseCaseObserver {
	if log == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{log: log}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	fields := logrus.Fields{
		"use_case":    event.Name,
		"duration_ms": event.Duration.Milliseconds(),
		"success":     event.Success,
	}
	for k, v := range event.Fields {
		fields[k] = v
	}
	entry := o.log.WithContext(ctx).WithFields(fields)
	if event.Err != nil {
		entry.WithError(event.Err).Error("service_use_case")
		return
	}
	entry.Info("service_use_case")
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe reports a use case when the returned function runs. Callers defer
// it with a pointer to their named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(err *error) {
	startedAt := time.Now()
	return func(err *error) {
		obs.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   *err == nil,
			Err:       *err,
			Fields:    fields,
		})
	}
}
