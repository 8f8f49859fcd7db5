package mount

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"saveshelf/internal/services"
)

type fakePrimitive struct {
	failProfiles map[Profile]bool
	failGeneric  bool
	failUnmount  bool
	attempts     []string
	mounted      int
	unmounted    int
}

func (f *fakePrimitive) MountProfile(_ context.Context, path string, p Profile) (MountPoint, error) {
	f.attempts = append(f.attempts, p.String())
	if f.failProfiles[p] {
		return "", errors.New("denied")
	}
	f.mounted++
	return MountPoint(path + "@" + p.String()), nil
}

func (f *fakePrimitive) MountGeneric(_ context.Context, path string) (MountPoint, error) {
	f.attempts = append(f.attempts, "generic")
	if f.failGeneric {
		return "", errors.New("generic denied")
	}
	f.mounted++
	return MountPoint(path), nil
}

func (f *fakePrimitive) Unmount(context.Context, MountPoint) error {
	f.unmounted++
	if f.failUnmount {
		return errors.New("busy")
	}
	return nil
}

func allProfilesFail() map[Profile]bool {
	out := make(map[Profile]bool)
	for _, p := range DefaultProfiles {
		out[p] = true
	}
	return out
}

func newTestManager(t *testing.T, prim Primitive) *Manager {
	t.Helper()
	m, err := NewManager(prim, Options{Root: "/saves", LockPath: filepath.Join(t.TempDir(), "mount.lock")})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestAcquireTriesProfilesInOrder(t *testing.T) {
	prim := &fakePrimitive{failProfiles: map[Profile]bool{0x6E: true, 0x12E: true}}
	m := newTestManager(t, prim)

	h, err := m.Acquire(context.Background(), "PCSE00001")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	want := []string{"0x6E", "0x12E", "0x12F"}
	if len(prim.attempts) != len(want) {
		t.Fatalf("unexpected attempts %v", prim.attempts)
	}
	for i := range want {
		if prim.attempts[i] != want[i] {
			t.Fatalf("attempt %d = %s, want %s", i, prim.attempts[i], want[i])
		}
	}
	if p, ok := h.Profile(); !ok || p != 0x12F {
		t.Fatalf("unexpected profile %v ok=%v", p, ok)
	}
	if got := string(h.Point()); got != filepath.Join("/saves", "PCSE00001")+"@0x12F" {
		t.Fatalf("unexpected mount point %q", got)
	}
	if err := h.Release(context.Background()); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
}

func TestAcquireFallsBackToGeneric(t *testing.T) {
	prim := &fakePrimitive{failProfiles: allProfilesFail()}
	m := newTestManager(t, prim)

	h, err := m.Acquire(context.Background(), "PCSE00001")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if _, ok := h.Profile(); ok {
		t.Fatal("expected generic mount to report no profile")
	}
	if got := prim.attempts[len(prim.attempts)-1]; got != "generic" {
		t.Fatalf("expected generic last, got %s", got)
	}
	_ = h.Release(context.Background())
}

func TestAcquireAllFailIsMountFailedAndFreesSlot(t *testing.T) {
	prim := &fakePrimitive{failProfiles: allProfilesFail(), failGeneric: true}
	m := newTestManager(t, prim)

	_, err := m.Acquire(context.Background(), "PCSE00001")
	if !errors.Is(err, services.ErrMountFailed) {
		t.Fatalf("expected mount failed, got %v", err)
	}
	if m.Held() {
		t.Fatal("failed acquire must not hold the slot")
	}
	prim.failGeneric = false
	h, err := m.Acquire(context.Background(), "PCSE00001")
	if err != nil {
		t.Fatalf("expected slot free after failure, got %v", err)
	}
	_ = h.Release(context.Background())
	if stats := m.Stats(); stats.Failed != 1 || stats.Acquired != 1 || stats.Released != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAcquireWhileHeldIsBusy(t *testing.T) {
	m := newTestManager(t, &fakePrimitive{})

	h, err := m.Acquire(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Acquire(context.Background(), "B"); !errors.Is(err, ErrSlotBusy) {
		t.Fatalf("expected slot busy, got %v", err)
	}
	_ = h.Release(context.Background())
	h2, err := m.Acquire(context.Background(), "B")
	if err != nil {
		t.Fatalf("expected acquire after release to succeed, got %v", err)
	}
	_ = h2.Release(context.Background())
}

func TestLockFileGuardsAcrossManagers(t *testing.T) {
	lock := filepath.Join(t.TempDir(), "locks", "mount.lock")
	first, _ := NewManager(&fakePrimitive{}, Options{LockPath: lock})
	second, _ := NewManager(&fakePrimitive{}, Options{LockPath: lock})

	h, err := first.Acquire(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := second.Acquire(context.Background(), "B"); !errors.Is(err, ErrSlotBusy) {
		t.Fatalf("expected slot busy from second manager, got %v", err)
	}
	_ = h.Release(context.Background())
	h2, err := second.Acquire(context.Background(), "B")
	if err != nil {
		t.Fatalf("expected second manager to acquire after release, got %v", err)
	}
	_ = h2.Release(context.Background())
}

func TestReleaseIsIdempotentAndBalanced(t *testing.T) {
	prim := &fakePrimitive{}
	m := newTestManager(t, prim)

	for _, key := range []string{"A", "B", "C"} {
		h, err := m.Acquire(context.Background(), key)
		if err != nil {
			t.Fatal(err)
		}
		if err := h.Release(context.Background()); err != nil {
			t.Fatal(err)
		}
		if err := h.Release(context.Background()); err != nil {
			t.Fatalf("second release should be a no-op, got %v", err)
		}
	}
	if m.Held() {
		t.Fatal("slot should be empty")
	}
	if prim.mounted != 3 || prim.unmounted != 3 {
		t.Fatalf("unbalanced mounts: mounted=%d unmounted=%d", prim.mounted, prim.unmounted)
	}
}

func TestFailedReleaseStillClearsSlot(t *testing.T) {
	prim := &fakePrimitive{failUnmount: true}
	m := newTestManager(t, prim)

	h, err := m.Acquire(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(context.Background()); !errors.Is(err, services.ErrMountFailed) {
		t.Fatalf("expected release failure to surface, got %v", err)
	}
	if m.Held() {
		t.Fatal("failed release must clear the slot")
	}
	h2, err := m.Acquire(context.Background(), "B")
	if err != nil {
		t.Fatalf("acquire after failed release: %v", err)
	}
	_ = h2.Release(context.Background())
}

func TestWithReleasesOnError(t *testing.T) {
	prim := &fakePrimitive{}
	m := newTestManager(t, prim)
	boom := errors.New("boom")

	err := m.With(context.Background(), "A", func(h *Handle) error {
		if h.Key() != "A" {
			t.Fatalf("unexpected key %q", h.Key())
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if m.Held() || prim.unmounted != 1 {
		t.Fatalf("expected release on error path, held=%v unmounted=%d", m.Held(), prim.unmounted)
	}
}

func TestNewManagerRequiresPrimitive(t *testing.T) {
	if _, err := NewManager(nil, Options{}); err == nil {
		t.Fatal("expected error for nil primitive")
	}
}
