package prompt

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Desktop shows messages as freedesktop notifications over DBus via busctl,
// falling back to another notifier when that fails.
type Desktop struct {
	AppName   string
	TimeoutMS int
	Fallback  interface{ Notify(string) }

	// run defaults to exec-backed busctl.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewDesktop returns a Desktop notifier that falls back to fallback.
func NewDesktop(fallback interface{ Notify(string) }) *Desktop {
	return &Desktop{AppName: "gavpi", TimeoutMS: 6000, Fallback: fallback}
}

// Notify sends message as a desktop notification.
func (d *Desktop) Notify(message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := d.send(ctx, "gavpi settings", message); err != nil && d.Fallback != nil {
		d.Fallback.Notify(message)
	}
}

// send issues org.freedesktop.Notifications.Notify and returns the
// notification ID assigned by the server.
func (d *Desktop) send(ctx context.Context, summary, body string) (uint32, error) {
	args := []string{
		"--user",
		"call",
		"org.freedesktop.Notifications",
		"/org/freedesktop/Notifications",
		"org.freedesktop.Notifications",
		"Notify",
		"susssasa{sv}i",
		d.AppName,
		"0",
		"",
		summary,
		body,
		"0", // actions array length
		"0", // hints map length
		strconv.Itoa(d.TimeoutMS),
	}

	run := d.run
	if run == nil {
		run = busctl
	}
	out, err := run(ctx, args...)
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return 0, fmt.Errorf("desktop notify failed: %w", err)
		}
		return 0, fmt.Errorf("desktop notify failed: %w (%s)", err, trimmed)
	}

	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) < 2 || fields[0] != "u" {
		return 0, fmt.Errorf("desktop notify invalid response: %q", strings.TrimSpace(string(out)))
	}

	value, parseErr := strconv.ParseUint(fields[1], 10, 32)
	if parseErr != nil {
		return 0, fmt.Errorf("desktop notify parse id %q: %w", fields[1], parseErr)
	}
	return uint32(value), nil
}

func busctl(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "busctl", args...).CombinedOutput()
}
