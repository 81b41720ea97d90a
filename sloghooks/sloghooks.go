package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/listcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	CorruptEvery uint64
	SkippedEvery uint64
	// Lock waits shorter than this are not logged. 0 disables lock logging.
	SlowLockThreshold time.Duration
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	corruptCtr atomic.Uint64
	skippedCtr atomic.Uint64
}

var _ listcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sampled(ctr *atomic.Uint64, every uint64) bool {
	if every <= 1 {
		return true
	}
	return ctr.Add(1)%every == 1
}

func (h *Hooks) CorruptEntry(storageKey, reason string) {
	if !sampled(&h.corruptCtr, h.opts.CorruptEvery) {
		return
	}
	h.l.Warn("listcache corrupt entry",
		slog.String("key", h.redact(storageKey)),
		slog.String("reason", reason))
}

func (h *Hooks) SelfHealed(storageKey string) {
	h.l.Debug("listcache self-healed entry", slog.String("key", h.redact(storageKey)))
}

func (h *Hooks) TouchFailed(storageKey string, err error) {
	h.l.Warn("listcache sliding refresh failed",
		slog.String("key", h.redact(storageKey)),
		slog.Any("err", err))
}

func (h *Hooks) LockWait(storageKey string, waited time.Duration) {
	if h.opts.SlowLockThreshold <= 0 || waited < h.opts.SlowLockThreshold {
		return
	}
	h.l.Warn("listcache slow lock acquisition",
		slog.String("key", h.redact(storageKey)),
		slog.Duration("waited", waited))
}

func (h *Hooks) MutateSkipped(storageKey, op, reason string) {
	if !sampled(&h.skippedCtr, h.opts.SkippedEvery) {
		return
	}
	h.l.Debug("listcache mutation skipped",
		slog.String("key", h.redact(storageKey)),
		slog.String("op", op),
		slog.String("reason", reason))
}
