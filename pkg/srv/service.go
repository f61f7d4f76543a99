package srv

import (
	"context"
	"time"

	"github.com/sandevgo/cmdgate/pkg/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service and blocks until ctx is done or a service's Start
// returns an error. Services are then shut down in reverse order.
func Run(ctx context.Context, services []Service) error {
	logger := log.FromCtx(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for _, service := range services {
		g.Go(func() error {
			if err := service.Start(gctx); err != nil {
				logger.Error().Err(err).Msgf("%T failed", service)
				return err
			}
			return nil
		})
	}

	stopped := make(chan error, 1)
	go func() {
		stopped <- g.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-stopped:
		if err == nil {
			// every service returned on its own
			logger.Debug().Msg("all services returned")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	Shutdown(shutdownCtx, services)
	return err
}

// Shutdown stops services in reverse start order, logging failures.
func Shutdown(ctx context.Context, services []Service) {
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
