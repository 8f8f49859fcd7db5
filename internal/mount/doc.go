// Package mount gives scoped, exclusive access to protected save containers.
//
// The platform exposes a single mount slot. Manager enforces one outstanding
// Handle per process and, through a lock file, across processes. Acquire tries
// each configured access profile in order before falling back to a generic
// mount; Release is idempotent and always frees the slot, even when the
// underlying unmount fails.
package mount
