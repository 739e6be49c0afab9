package notify

import (
	"context"
	"log/slog"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
)

// Permission is the host environment's notification permission state.
type Permission int

const (
	PermissionUndetermined Permission = iota
	PermissionGranted
	PermissionDenied
)

// Gate models the request/grant/deny permission lifecycle of the host's
// notification surface.
type Gate interface {
	// Status returns the current permission without prompting.
	Status() Permission

	// Request prompts for permission and returns the resulting state.
	Request(ctx context.Context) (Permission, error)
}

// StaticGate is a Gate with a fixed answer, used when the deployment
// grants or denies notifications up front via configuration.
type StaticGate struct {
	permission Permission
}

// NewStaticGate returns a gate that always reports the given permission.
func NewStaticGate(p Permission) *StaticGate {
	return &StaticGate{permission: p}
}

func (g *StaticGate) Status() Permission { return g.permission }

func (g *StaticGate) Request(_ context.Context) (Permission, error) {
	return g.permission, nil
}

// LogSender writes fired notifications to the service log. It stands in
// for the platform notification collaborator in deployments without one.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-backed Sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, n domain.AdvisoryNotification) error {
	s.logger.Info("advisory notification",
		"title", n.Title, "body", n.Body, "fire_at", n.FireAt)
	return nil
}
