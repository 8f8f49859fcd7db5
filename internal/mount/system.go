package mount

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"saveshelf/internal/logging"
)

// runCommand executes the mount helper and returns its stdout. It is a
// package-level variable so tests can replace it with a stub.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

// accessCheck reports whether path is readable and searchable.
var accessCheck = func(path string) error {
	return unix.Access(path, unix.R_OK|unix.X_OK)
}

// ErrNoHelper is returned by profile mounts when no helper is configured.
var ErrNoHelper = errors.New("no mount helper configured")

// SystemPrimitive mounts containers through an external helper:
//
//	<helper> mount --profile 0x6E <container>   prints the mount point
//	<helper> umount <mount point>
//
// The generic fallback mounts nothing; it succeeds when the container is
// already directly readable.
type SystemPrimitive struct {
	Helper string
	Logger *slog.Logger

	mu      sync.Mutex
	mounted map[MountPoint]struct{}
}

// NewSystemPrimitive returns a primitive driving helper.
func NewSystemPrimitive(helper string, logger *slog.Logger) *SystemPrimitive {
	return &SystemPrimitive{
		Helper: strings.TrimSpace(helper),
		Logger: logging.NewComponentLogger(logger, "mount"),
	}
}

// MountProfile implements Primitive.
func (s *SystemPrimitive) MountProfile(ctx context.Context, containerPath string, profile Profile) (MountPoint, error) {
	if s.Helper == "" {
		return "", ErrNoHelper
	}
	out, err := runCommand(ctx, s.Helper, "mount", "--profile", profile.String(), containerPath)
	if err != nil {
		return "", fmt.Errorf("%s mount: %w", s.Helper, err)
	}
	point := MountPoint(strings.TrimSpace(string(out)))
	if point == "" {
		point = MountPoint(containerPath)
	}
	s.mu.Lock()
	if s.mounted == nil {
		s.mounted = make(map[MountPoint]struct{})
	}
	s.mounted[point] = struct{}{}
	s.mu.Unlock()
	return point, nil
}

// MountGeneric implements Primitive.
func (s *SystemPrimitive) MountGeneric(_ context.Context, containerPath string) (MountPoint, error) {
	if err := accessCheck(containerPath); err != nil {
		return "", fmt.Errorf("access %s: %w", containerPath, err)
	}
	return MountPoint(containerPath), nil
}

// Unmount implements Primitive. Points that were not mounted by the helper
// need no unmount.
func (s *SystemPrimitive) Unmount(ctx context.Context, point MountPoint) error {
	s.mu.Lock()
	_, ours := s.mounted[point]
	delete(s.mounted, point)
	s.mu.Unlock()
	if !ours {
		return nil
	}
	if s.Logger != nil {
		s.Logger.Debug("unmounting container", logging.String("mount_point", string(point)))
	}
	if _, err := runCommand(ctx, s.Helper, "umount", string(point)); err != nil {
		return fmt.Errorf("%s umount: %w", s.Helper, err)
	}
	return nil
}
