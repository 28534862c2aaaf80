package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Deactivator closes idle conversations. Implemented by Service.
type Deactivator interface {
	DeactivateIdle(ctx context.Context, idleFor time.Duration) (int64, error)
}

// Sweeper periodically deactivates conversations that have gone quiet. It
// runs out-of-band from turn handling; its only contract with the engine is
// that the closed state is visible to the next turn.
type Sweeper struct {
	deactivator Deactivator
	cron        *cron.Cron
	schedule    string
	idleTTL     time.Duration
	logger      *slog.Logger
}

// NewSweeper creates a sweeper. schedule is a standard five-field cron
// expression; idleTTL is how long a conversation may sit untouched.
func NewSweeper(log *slog.Logger, deactivator Deactivator, schedule string, idleTTL time.Duration) (*Sweeper, error) {
	if log == nil {
		log = slog.Default()
	}
	if idleTTL <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive, got %s", idleTTL)
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return &Sweeper{
		deactivator: deactivator,
		cron:        cron.New(cron.WithParser(parser)),
		schedule:    schedule,
		idleTTL:     idleTTL,
		logger:      log.With(slog.String("service", "sweeper")),
	}, nil
}

// Start registers the sweep job and starts the cron runner.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("register sweep job: %w", err)
	}
	s.cron.Start()
	s.logger.Info("idle sweep scheduled",
		slog.String("schedule", s.schedule),
		slog.Duration("idle_ttl", s.idleTTL),
	)
	return nil
}

// Stop halts the cron runner and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	closed, err := s.deactivator.DeactivateIdle(ctx, s.idleTTL)
	if err != nil {
		s.logger.Error("idle sweep failed", slog.Any("error", err))
		return
	}
	if closed > 0 {
		s.logger.Info("idle conversations closed", slog.Int64("count", closed))
	}
}
