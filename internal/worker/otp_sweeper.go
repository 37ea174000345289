package worker

import (
	"context"
	"log/slog"
	"time"

	"lakshmikitchen/internal/otp"
)

// OTPSweeper periodically evicts expired verification codes so the store
// does not grow with abandoned registrations. Expiry is still enforced
// lazily on verification; the sweep only bounds memory.
type OTPSweeper struct {
	store    otp.Store
	interval time.Duration
}

func NewOTPSweeper(store otp.Store) *OTPSweeper {
	return &OTPSweeper{
		store:    store,
		interval: time.Minute,
	}
}

func (w *OTPSweeper) Start(ctx context.Context) {
	slog.Info("starting otp sweeper", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("otp sweeper stopped")
			return
		case <-ticker.C:
			if n := w.store.EvictExpired(time.Now()); n > 0 {
				slog.Info("evicted expired verification codes", "count", n)
			}
		}
	}
}
