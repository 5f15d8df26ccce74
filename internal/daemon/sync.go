package daemon

import (
	"log/slog"

	"github.com/1broseidon/tagtile/internal/bar"
	"github.com/1broseidon/tagtile/internal/metrics"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/wm"
)

// StateSynchronizer pushes core state that notifications do not carry to
// the outside: the EWMH desktop and client lists, the bar tag lists and the
// client gauges. It runs on the loop after every change to the client
// population or the tag set.
type StateSynchronizer struct {
	core    *wm.WM
	backend platform.Backend
	bars    map[wm.ScreenID]*bar.Infobar
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewStateSynchronizer creates a new state synchronizer. metrics may be nil.
func NewStateSynchronizer(core *wm.WM, backend platform.Backend, bars map[wm.ScreenID]*bar.Infobar, m *metrics.Collector, logger *slog.Logger) *StateSynchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateSynchronizer{
		core:    core,
		backend: backend,
		bars:    bars,
		metrics: m,
		logger:  logger,
	}
}

// Sync publishes the current state.
func (s *StateSynchronizer) Sync() {
	snap := s.core.Snapshot()

	var focusedTitle string
	if c, ok := s.core.Client(snap.Focused); ok {
		focusedTitle = c.Title()
	}

	for _, scr := range snap.Screens {
		if b, ok := s.bars[scr.ID]; ok {
			title := ""
			if scr.Selected {
				title = focusedTitle
			}
			b.Apply(scr, title)
		}
		if !scr.Selected {
			continue
		}
		names := make([]string, len(scr.Tags))
		current := 0
		for i, t := range scr.Tags {
			names[i] = t.Name
			if t.Selected {
				current = i
			}
		}
		if err := s.backend.PublishDesktops(names, current); err != nil {
			s.logger.Debug("failed to publish desktops", "error", err)
		}
	}

	ids := s.core.ClientIDs()
	wins := make([]platform.WindowID, len(ids))
	for i, id := range ids {
		wins[i] = platform.WindowID(id)
	}
	if err := s.backend.PublishClients(wins); err != nil {
		s.logger.Debug("failed to publish client list", "error", err)
	}

	if s.metrics != nil {
		s.metrics.SetClients(s.core.Counts())
	}
}
