package auth

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultKeySetRefreshSpec = "@every 30m"

type keySetPrefetcher interface {
	Prefetch(ctx context.Context) error
}

// KeySetRefresher re-fetches the JWKS on a cron schedule so key rotations are
// picked up before the cache TTL runs out.
type KeySetRefresher struct {
	log       *zap.Logger
	verifier  keySetPrefetcher
	spec      string
	timeout   time.Duration
	cron      *cron.Cron
	runCtx    context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
}

func NewKeySetRefresher(verifier keySetPrefetcher, spec string, timeout time.Duration, logger *zap.Logger) *KeySetRefresher {
	return &KeySetRefresher{log: logger, verifier: verifier, spec: spec, timeout: timeout}
}

// Start schedules the refresh job. An invalid spec falls back to every 30 minutes.
func (r *KeySetRefresher) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		r.runCtx, r.cancel = context.WithCancel(ctx)
		c := cron.New()
		_, err := c.AddFunc(r.spec, func() { r.runOnce(r.runCtx) })
		if err != nil {
			r.log.Warn("auth.KeySetRefresher invalid cron spec, falling back to default",
				zap.String("spec", r.spec),
				zap.Error(err),
			)
			c = cron.New()
			_, _ = c.AddFunc(defaultKeySetRefreshSpec, func() { r.runOnce(r.runCtx) })
		}
		c.Start()
		r.cron = c
	})
}

// Stop stops the schedule and waits for a running job. A running job stops waiting
// on its fetch at once; the fetch itself is bounded by the verifier's FetchTimeout.
func (r *KeySetRefresher) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
	return nil
}

func (r *KeySetRefresher) runOnce(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.verifier.Prefetch(refreshCtx); err != nil {
		r.log.Warn("auth.KeySetRefresher refresh failed, keeping cached keys", zap.Error(err))
		return
	}
	r.log.Debug("auth.KeySetRefresher refresh succeeded")
}
