package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handler grabs global key sequences on the root window.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  *slog.Logger
	fire func(Binding)
}

var ignoreModsOnce sync.Once

// NewHandler binds a handler to the X connection. fire runs on the X event
// goroutine for every bound key press; it should hand the binding to the
// daemon loop.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, logger *slog.Logger, fire func(Binding)) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{xu: xu, root: root, log: logger, fire: fire}
}

// Register grabs every binding. Sequences that fail to grab are logged and
// skipped; the number of failures is returned as an error.
func (h *Handler) Register(bindings []Binding) error {
	var failed int
	for _, b := range bindings {
		if err := h.RegisterFunc(b.Key, func() { h.fire(b) }); err != nil {
			h.log.Warn("failed to grab key", "key", b.Key, "action", b.Action.String(), "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d keybinds could not be grabbed", failed, len(bindings))
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Reset ungrabs every key and drops the callbacks, ready for Register
// after a config reload.
func (h *Handler) Reset() {
	keybind.Detach(h.xu, h.root)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = ignoreMasks(
		uint16(xproto.ModMaskLock),
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
