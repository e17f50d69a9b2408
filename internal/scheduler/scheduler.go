// Package scheduler corre las tareas periódicas del backend.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Barredor interface {
	BarrerVencidos(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New programa el barrido de intercambios vencidos a medianoche.
func New(b Barredor, log zerolog.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc("@midnight", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := b.BarrerVencidos(ctx)
		if err != nil {
			log.Error().Err(err).Msg("barrido de intercambios vencidos")
			return
		}
		log.Info().Int64("expirados", n).Msg("barrido de intercambios vencidos")
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
