package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// runner executes a picker with input on stdin and returns its stdout.
type runner func(command string, args []string, input string) (string, error)

func execRunner(command string, args []string, input string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		// 1 means nothing chosen, 130 is ctrl-c.
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 1 || exitErr.ExitCode() == 130) {
			return "", ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %s", command, msg)
		}
		return "", fmt.Errorf("%s failed: %w", command, err)
	}
	return string(out), nil
}

// picker drives the dmenu protocol. rofi and fuzzel report the chosen
// row index; dmenu and wofi echo the label back.
type picker struct {
	command string
	run     runner
}

func newPicker(command string, run runner) *picker {
	return &picker{command: command, run: run}
}

func (p *picker) Name() string { return p.command }

func (p *picker) byIndex() bool { return p.command == "rofi" || p.command == "fuzzel" }

func (p *picker) Show(prompt string, items []Item) (int, error) {
	if len(items) == 0 {
		return 0, errors.New("palette: no items to show")
	}
	labels := p.labels(items)
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = p.row(item, labels[i])
	}

	out, err := p.run(p.command, p.args(prompt, items), strings.Join(lines, "\n"))
	if err != nil {
		return 0, err
	}
	selection := strings.TrimSpace(out)
	if selection == "" {
		return 0, ErrCancelled
	}

	if p.byIndex() {
		idx, err := strconv.Atoi(selection)
		if err != nil || idx < 0 || idx >= len(items) {
			return 0, fmt.Errorf("palette: bad selection %q", selection)
		}
		return idx, nil
	}
	for i, l := range labels {
		if l == selection {
			return i, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown selection %q", selection)
}

// labels cleans the row labels. Pickers that echo the label get duplicates
// numbered so every row stays distinguishable.
func (p *picker) labels(items []Item) []string {
	out := make([]string, len(items))
	seen := make(map[string]int)
	for i, item := range items {
		l := sanitize(item.Label)
		if !p.byIndex() && item.Selectable() {
			if n := seen[l]; n > 0 {
				l = fmt.Sprintf("%s (%d)", l, n+1)
			}
			seen[sanitize(item.Label)]++
		}
		out[i] = l
	}
	return out
}

func (p *picker) row(item Item, label string) string {
	if p.command != "rofi" {
		return label
	}
	label = html.EscapeString(label)
	if item.IsHeader {
		label = "<b>" + label + "</b>"
	}
	// rofi row options: one NUL, then key\x1fvalue pairs.
	var attrs []string
	if item.IsHeader {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitize(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitize(item.Meta))
	}
	if len(attrs) == 0 {
		return label
	}
	return label + "\x00" + strings.Join(attrs, "\x1f")
}

func (p *picker) args(prompt string, items []Item) []string {
	switch p.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		var active []string
		selected := -1
		for i, item := range items {
			if !item.Selectable() {
				continue
			}
			if selected < 0 {
				selected = i
			}
			if item.IsActive {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
		return args
	case "fuzzel":
		return []string{"--dmenu", "--index", "--prompt", prompt + " "}
	case "wofi":
		return []string{"--dmenu", "--prompt", prompt}
	default:
		return []string{"-i", "-p", prompt}
	}
}

func sanitize(s string) string {
	s = strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}
