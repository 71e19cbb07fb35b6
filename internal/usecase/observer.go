package usecase

import (
	"context"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/apperr"
	"Assemblief/pkg/logger"
)

// observer records metrics, logs failures, and publishes completed
// evaluations. Metrics and publisher are optional.
type observer struct {
	log       *logger.Logger
	metrics   domrepo.Metrics
	publisher domrepo.EvaluationPublisher
}

func newObserver(log *logger.Logger, metrics domrepo.Metrics, publisher domrepo.EvaluationPublisher) observer {
	if log == nil {
		log = logger.Nop()
	}
	return observer{log: log, metrics: metrics, publisher: publisher}
}

// finish closes out one evaluation. The publish is best-effort and never
// changes the outcome.
func (o observer) finish(ctx context.Context, kind, asset, tf string, start time.Time, payload any, err error) {
	status := "ok"
	if err != nil {
		status = string(apperr.KindOf(err))
	}
	if o.metrics != nil {
		o.metrics.RecordEvaluation(kind, status)
		o.metrics.RecordLatency(kind, time.Since(start).Seconds())
		if err != nil {
			o.metrics.RecordError(status)
		}
	}
	if err != nil {
		fields := []logger.Field{
			logger.String("kind", kind),
			logger.String("asset", asset),
			logger.String("timeframe", tf),
			logger.Error(err),
		}
		if apperr.KindOf(err) == apperr.KindInternal {
			o.log.Error("evaluation failed", fields...)
		} else {
			o.log.Debug("evaluation rejected", fields...)
		}
		return
	}
	if o.publisher == nil {
		return
	}
	ev := models.NewEvaluationEvent(kind, asset, tf, payload)
	if perr := o.publisher.PublishEvaluation(ctx, ev); perr != nil {
		o.log.Warn("publish evaluation failed",
			logger.String("kind", kind),
			logger.String("asset", asset),
			logger.String("event_id", ev.ID),
			logger.Error(perr),
		)
	}
}

func (o observer) confidence(strategy string, score float64) {
	if o.metrics != nil {
		o.metrics.RecordConfidence(strategy, score)
	}
}
