package mount

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"saveshelf/internal/logging"
	"saveshelf/internal/services"
)

// Profile is a protected-mount access profile identifier.
type Profile uint32

func (p Profile) String() string {
	return fmt.Sprintf("0x%X", uint32(p))
}

// MountPoint is where a mounted container's files can be read.
type MountPoint string

// DefaultProfiles is the order in which access profiles are attempted.
var DefaultProfiles = []Profile{0x6E, 0x12E, 0x12F, 0x3ED}

// ErrSlotBusy is returned by Acquire while another handle holds the slot.
var ErrSlotBusy = errors.New("mount slot busy")

// Primitive is the platform mount capability.
type Primitive interface {
	MountProfile(ctx context.Context, containerPath string, profile Profile) (MountPoint, error)
	MountGeneric(ctx context.Context, containerPath string) (MountPoint, error)
	Unmount(ctx context.Context, point MountPoint) error
}

// Options configures a Manager.
type Options struct {
	// Root is joined with the container key to form the container path.
	Root     string
	Profiles []Profile
	// LockPath guards the slot across processes. Empty disables the lock.
	LockPath string
	Logger   *slog.Logger
}

// Stats counts slot transitions.
type Stats struct {
	Acquired int
	Released int
	Failed   int
}

// Manager owns the mount slot.
type Manager struct {
	primitive Primitive
	root      string
	profiles  []Profile
	lockPath  string
	lock      *flock.Flock
	logger    *slog.Logger

	mu     sync.Mutex
	active *Handle
	stats  Stats
}

// NewManager constructs a Manager around primitive.
func NewManager(primitive Primitive, opts Options) (*Manager, error) {
	if primitive == nil {
		return nil, errors.New("mount manager requires a primitive")
	}
	profiles := opts.Profiles
	if len(profiles) == 0 {
		profiles = DefaultProfiles
	}
	m := &Manager{
		primitive: primitive,
		root:      opts.Root,
		profiles:  append([]Profile(nil), profiles...),
		lockPath:  strings.TrimSpace(opts.LockPath),
		logger:    logging.NewComponentLogger(opts.Logger, "mount"),
	}
	if m.lockPath != "" {
		m.lock = flock.New(m.lockPath)
	}
	return m, nil
}

// Acquire mounts the container named by containerKey and returns the handle
// that must be released before the next Acquire.
func (m *Manager) Acquire(ctx context.Context, containerKey string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, fmt.Errorf("%w: %s is still mounted", ErrSlotBusy, m.active.key)
	}
	if err := m.lockSlot(); err != nil {
		return nil, err
	}

	logger := logging.WithContext(ctx, m.logger)
	path := m.containerPath(containerKey)

	var errs []error
	for _, profile := range m.profiles {
		point, err := m.primitive.MountProfile(ctx, path, profile)
		if err != nil {
			logger.Debug("profile mount failed",
				logging.String("container", path),
				logging.String("profile", profile.String()),
				logging.Error(err),
			)
			errs = append(errs, fmt.Errorf("profile %s: %w", profile, err))
			continue
		}
		logger.Debug("container mounted",
			logging.String("container", path),
			logging.String("profile", profile.String()),
			logging.String("mount_point", string(point)),
		)
		return m.hold(containerKey, point, profile, false), nil
	}

	point, err := m.primitive.MountGeneric(ctx, path)
	if err != nil {
		errs = append(errs, fmt.Errorf("generic: %w", err))
		m.unlockSlot()
		m.stats.Failed++
		return nil, services.Wrap(services.ErrMountFailed, "mount", "acquire", path, errors.Join(errs...))
	}
	logger.Debug("container mounted",
		logging.String("container", path),
		logging.String("profile", "generic"),
		logging.String("mount_point", string(point)),
	)
	return m.hold(containerKey, point, 0, true), nil
}

// With acquires containerKey, runs fn with the handle and releases it on
// every path. A failed release is logged by Release and not returned.
func (m *Manager) With(ctx context.Context, containerKey string, fn func(*Handle) error) error {
	h, err := m.Acquire(ctx, containerKey)
	if err != nil {
		return err
	}
	defer func() { _ = h.Release(ctx) }()
	return fn(h)
}

// Held reports whether a handle is outstanding.
func (m *Manager) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}

// Stats returns a snapshot of slot transitions.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Manager) hold(key string, point MountPoint, profile Profile, generic bool) *Handle {
	h := &Handle{m: m, key: key, point: point, profile: profile, generic: generic}
	m.active = h
	m.stats.Acquired++
	return h
}

func (m *Manager) containerPath(key string) string {
	if m.root == "" || filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(m.root, key)
}

func (m *Manager) lockSlot() error {
	if m.lock == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := m.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire mount lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: held by another process (%s)", ErrSlotBusy, m.lockPath)
	}
	return nil
}

func (m *Manager) unlockSlot() {
	if m.lock == nil {
		return
	}
	if err := m.lock.Unlock(); err != nil {
		m.logger.Warn("failed to release mount lock",
			logging.String(logging.FieldEventType, "mount_lock_release_failed"),
			logging.String(logging.FieldErrorHint, "remove the lock file if no other saveshelf process is running"),
			logging.String(logging.FieldImpact, "later mounts may report the slot as busy"),
			logging.String("lock", m.lockPath),
			logging.Error(err),
		)
	}
}

// Handle is one outstanding mount.
type Handle struct {
	m        *Manager
	key      string
	point    MountPoint
	profile  Profile
	generic  bool
	released bool
}

// Key returns the container key that was mounted.
func (h *Handle) Key() string { return h.key }

// Point returns the mount point.
func (h *Handle) Point() MountPoint { return h.point }

// Profile returns the access profile that succeeded. The boolean is false for
// a generic mount.
func (h *Handle) Profile() (Profile, bool) { return h.profile, !h.generic }

// Release unmounts the container. Calling it again is a no-op. An unmount
// failure is logged as a warning and returned, but the slot is freed either
// way.
func (h *Handle) Release(ctx context.Context) error {
	if h == nil || h.m == nil {
		return nil
	}
	m := h.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if h.released {
		return nil
	}
	h.released = true
	if m.active == h {
		m.active = nil
	}
	m.stats.Released++
	defer m.unlockSlot()

	if err := m.primitive.Unmount(ctx, h.point); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "save couldn't be unmounted", "unmount_failed",
			logging.String("container", h.key),
			logging.String("mount_point", string(h.point)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the mount helper; the container may still be mounted"),
			logging.String(logging.FieldImpact, "mount slot freed; container may stay mounted until reboot"),
		)
		return services.Wrap(services.ErrMountFailed, "mount", "release", h.key, err)
	}
	return nil
}
