package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ignite/formrelay/internal/config"
	"github.com/ignite/formrelay/internal/observability/metrics"
	"github.com/ignite/formrelay/internal/pkg/logger"
	"github.com/ignite/formrelay/internal/submission"
)

// Service runs the relay steps for a submission. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	notifier  Notifier
	registrar Registrar
	campaigns CampaignCreator
	log       *zap.Logger
}

// NewService creates a relay service. A nil logger disables logging.
func NewService(n Notifier, r Registrar, c CampaignCreator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{notifier: n, registrar: r, campaigns: c, log: log}
}

// Submit runs every step for sub and returns their results. It never
// returns early: each step runs whatever happened to the others.
func (s *Service) Submit(ctx context.Context, form config.Form, sub *submission.Submission) *Outcome {
	log := s.log.With(
		zap.String("submission_id", sub.ID()),
		zap.String("form", form.Name),
		logger.Email("email", sub.Email()),
	)
	log.Info("submission received", zap.Int("fields", sub.Len()))

	var notify, subscribe StepResult
	var g errgroup.Group
	g.Go(func() error {
		notify = s.run(ctx, log, form, StepNotify, func(ctx context.Context) error {
			return s.notifier.Notify(ctx, sub, form.Label)
		})
		return nil
	})
	g.Go(func() error {
		subscribe = s.run(ctx, log, form, StepSubscribe, func(ctx context.Context) error {
			return s.registrar.Register(ctx, sub.Username(), sub.Email(), form.ListID)
		})
		return nil
	})
	_ = g.Wait()

	campaign := s.run(ctx, log, form, StepCampaign, func(ctx context.Context) error {
		return s.campaigns.CreateCampaign(ctx, sub, form.Label, form.ListID, form.Pipeline)
	})

	out := &Outcome{
		SubmissionID: sub.ID(),
		Form:         form.Name,
		Steps:        []StepResult{notify, subscribe, campaign},
	}
	if failed := out.Failed(); len(failed) > 0 {
		log.Warn("submission relayed with errors", zap.Any("failed_steps", failed))
	} else {
		log.Info("submission relayed")
	}
	return out
}

func (s *Service) run(ctx context.Context, log *zap.Logger, form config.Form, step Step, fn func(context.Context) error) (res StepResult) {
	start := time.Now()
	res.Step = step
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("%s step panicked: %v", step, r)
			log.Error("step panicked", zap.String("step", string(step)), zap.Any("panic", r), zap.Stack("stack"))
		}
		res.Duration = time.Since(start)
		metrics.ObserveStep(form.Name, string(step), res.OK(), res.Duration)
	}()

	res.Err = fn(ctx)
	if res.Err != nil {
		fields := []zap.Field{
			zap.String("step", string(step)),
			logger.Redact("error", res.Err.Error()),
		}
		var partial *PartialCampaignError
		if errors.As(res.Err, &partial) {
			fields = append(fields, zap.String("campaign_id", partial.CampaignID))
		}
		log.Error("step failed", fields...)
	} else {
		log.Debug("step completed", zap.String("step", string(step)), zap.Duration("took", time.Since(start)))
	}
	return res
}
