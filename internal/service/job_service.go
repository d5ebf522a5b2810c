package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// unactivated accounts older than this are removed
const inactiveAccountTTL = 7 * 24 * time.Hour

// JobStore is the data access of the background jobs. *repository.JobRepository implements it.
type JobStore interface {
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
	GetInactiveUserIDsCreatedBefore(ctx context.Context, before time.Time) ([]int64, error)
	DeleteUsers(ctx context.Context, ids []int64) (int64, error)
}

type JobService struct {
	Repo   JobStore
	logger *zap.Logger
	now    func() time.Time
}

func NewJobService(repo JobStore, logger *zap.Logger) *JobService {
	return &JobService{Repo: repo, logger: logger, now: time.Now}
}

// PurgeExpiredTokens borra tokens de activación y recuperación vencidos.
func (s *JobService) PurgeExpiredTokens(ctx context.Context) error {
	n, err := s.Repo.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		return fmt.Errorf("cron job: failed to purge expired tokens: %w", err)
	}
	s.logger.Info("cron job: expired tokens purged", zap.Int64("count", n))
	return nil
}

// DeleteStaleAccounts elimina cuentas que nunca se activaron.
func (s *JobService) DeleteStaleAccounts(ctx context.Context) error {
	ids, err := s.Repo.GetInactiveUserIDsCreatedBefore(ctx, s.now().Add(-inactiveAccountTTL))
	if err != nil {
		return fmt.Errorf("cron job: failed to get inactive accounts: %w", err)
	}
	if len(ids) == 0 {
		s.logger.Debug("cron job: no stale accounts found")
		return nil
	}
	n, err := s.Repo.DeleteUsers(ctx, ids)
	if err != nil {
		return fmt.Errorf("cron job: failed to delete stale accounts: %w", err)
	}
	s.logger.Info("cron job: stale accounts deleted", zap.Int64("count", n), zap.Int64s("ids", ids))
	return nil
}

// Register adds the jobs to c. tokenSpec is the schedule of the token purge; stale
// accounts are checked daily.
func (s *JobService) Register(c *cron.Cron, tokenSpec string) error {
	if _, err := c.AddFunc(tokenSpec, s.run("purge_tokens", s.PurgeExpiredTokens)); err != nil {
		return fmt.Errorf("schedule token purge %q: %w", tokenSpec, err)
	}
	if _, err := c.AddFunc("@daily", s.run("stale_accounts", s.DeleteStaleAccounts)); err != nil {
		return fmt.Errorf("schedule stale account cleanup: %w", err)
	}
	return nil
}

func (s *JobService) run(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := job(ctx); err != nil {
			s.logger.Error("cron job failed", zap.String("job", name), zap.Error(err))
		}
	}
}
