// Package runtimepath locates the per-display socket and pid file of the
// daemon.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the directory for runtime files: $XDG_RUNTIME_DIR, else
// /run/user/<uid> when it exists, else a private directory under /tmp.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("tagtile-%d", uid))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DisplayKey turns an X display name into a file name fragment. The screen
// number is dropped since one daemon serves every screen of a display.
// An empty display falls back to $DISPLAY.
//
//	":0"            -> "0"
//	":1.0"          -> "1"
//	"localhost:10"  -> "localhost-10"
func DisplayKey(display string) string {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	if i := strings.LastIndexByte(display, ':'); i >= 0 {
		if dot := strings.IndexByte(display[i:], '.'); dot >= 0 {
			display = display[:i+dot]
		}
	}
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, display)
	return strings.Trim(key, "-")
}

func file(display, ext string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	name := "tagtile"
	if key := DisplayKey(display); key != "" {
		name += "-" + key
	}
	return filepath.Join(dir, name+ext), nil
}

// SocketPath returns the IPC socket of the daemon on display.
func SocketPath(display string) (string, error) {
	return file(display, ".sock")
}

// PIDPath returns the file the daemon on display records its pid in.
func PIDPath(display string) (string, error) {
	return file(display, ".pid")
}
