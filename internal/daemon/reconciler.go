package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tagtile/internal/wm"
)

// WindowChecker reports whether a window still exists on the server.
type WindowChecker func(id wm.ClientID) bool

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	// Grace is how long a client may stay dying while its window still
	// exists before it is finalized anyway.
	Grace  time.Duration
	Logger *slog.Logger
}

// Reconciler periodically finalizes clients stuck in the Dying state,
// for example when their DestroyNotify was lost.
type Reconciler struct {
	interval time.Duration
	grace    time.Duration
	loop     *Loop
	core     *wm.WM
	exists   WindowChecker
	after    func([]wm.ClientID)
	logger   *slog.Logger
	now      func() time.Time

	// since is touched on the loop goroutine only.
	since map[wm.ClientID]time.Time
}

// NewReconciler creates a new reconciler. after, when set, runs on the
// loop with the clients a pass finalized.
func NewReconciler(cfg ReconcilerConfig, loop *Loop, core *wm.WM, exists WindowChecker, after func([]wm.ClientID)) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	grace := cfg.Grace
	if grace <= 0 {
		grace = 5 * interval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if after == nil {
		after = func([]wm.ClientID) {}
	}
	return &Reconciler{
		interval: interval,
		grace:    grace,
		loop:     loop,
		core:     core,
		exists:   exists,
		after:    after,
		logger:   logger,
		now:      time.Now,
		since:    make(map[wm.ClientID]time.Time),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if err := r.ReconcileNow(); err != nil {
				r.logger.Debug("reconcile skipped", "error", err)
				return
			}
		}
	}
}

// ReconcileNow runs a pass on the daemon loop and waits for it.
func (r *Reconciler) ReconcileNow() error {
	return r.loop.Do(func() error {
		r.reconcile()
		return nil
	})
}

// reconcile performs a single pass. It runs on the loop goroutine.
func (r *Reconciler) reconcile() {
	now := r.now()
	dying := r.core.Dying()

	current := make(map[wm.ClientID]struct{}, len(dying))
	var finalized []wm.ClientID
	for _, id := range dying {
		current[id] = struct{}{}
		first, seen := r.since[id]
		if !seen {
			first = now
			r.since[id] = now
		}

		gone := !r.exists(id)
		if !gone && now.Sub(first) < r.grace {
			continue
		}
		if err := r.core.Finalize(id); err != nil {
			r.logger.Warn("reconciler: finalize failed", "client", id, "error", err)
			continue
		}
		r.logger.Info("reconciler: finalized stale client",
			"client", id,
			"window_gone", gone,
			"dying_for", now.Sub(first))
		delete(r.since, id)
		finalized = append(finalized, id)
	}

	for id := range r.since {
		if _, ok := current[id]; !ok {
			delete(r.since, id)
		}
	}
	if len(finalized) > 0 {
		r.after(finalized)
	}
}
