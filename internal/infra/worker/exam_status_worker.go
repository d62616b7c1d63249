package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/clinitech/internal/entity"
	"github.com/xavierca1/clinitech/internal/infra/http/middleware"
)

// ExamStatusWorker grava "Realizado" nos exames cuja data de coleta já
// passou e que não foram liberados nem recusados.
type ExamStatusWorker struct {
	repo         entity.ExamRepositoryInterface
	tickInterval time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewExamStatusWorker(repo entity.ExamRepositoryInterface, interval time.Duration, logger *zap.Logger) *ExamStatusWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExamStatusWorker{
		repo:         repo,
		tickInterval: interval,
		logger:       logger,
		now:          time.Now,
	}
}

func (w *ExamStatusWorker) Start(ctx context.Context) {
	w.logger.Info("exam status worker iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.promote(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("exam status worker encerrado")
			return
		case <-ticker.C:
			w.promote(ctx)
		}
	}
}

// promote returns how many exams changed.
func (w *ExamStatusWorker) promote(ctx context.Context) int {
	cpfs, err := w.repo.ListCPFs(ctx)
	if err != nil {
		w.logger.Error("erro ao listar exames", zap.Error(err))
		return 0
	}

	now := w.now()
	total := 0
	for _, cpf := range cpfs {
		n, err := w.repo.UpdateEach(ctx, cpf, func(e *entity.Exam) bool {
			effective := e.EffectiveStatus(now)
			if effective != entity.ExamStatusDone || e.Status == entity.ExamStatusDone {
				return false
			}
			e.Status = entity.ExamStatusDone
			return true
		})
		if err != nil {
			w.logger.Warn("erro ao atualizar exames", zap.String("key", entity.ExamKey(cpf)), zap.Error(err))
			continue
		}
		total += n
	}

	if total > 0 {
		middleware.RecordExamsPromoted(total)
		w.logger.Info("exames marcados como Realizado", zap.Int("count", total))
	}
	return total
}
