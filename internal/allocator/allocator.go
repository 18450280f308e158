// Package allocator hands out unique numeric codes for new teachers.
//
// A code is drawn uniformly from the 10-digit range and checked against
// storage until an unused one is found. The check is not atomic with the
// later insert; the unique index on teachers.code stays the final authority
// and the optional Reserver only narrows the window between concurrent
// allocators.
package allocator

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"go.uber.org/zap"

	"github.com/spec-kit/school-directory/internal/domain"
)

// Checker reports whether a teacher code is already stored.
type Checker interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// Reserver claims a candidate code across processes.
type Reserver interface {
	ReserveCode(ctx context.Context, code string) (bool, error)
}

// Recorder observes allocation attempts.
type Recorder interface {
	RecordCodeAllocation(attempts int)
}

// Allocator generates teacher codes.
type Allocator struct {
	reserver Reserver
	recorder Recorder
	logger   *zap.Logger
	draw     func() int64
}

// Option customizes an Allocator.
type Option func(*Allocator)

// WithReserver enables cross-process reservation of candidates.
func WithReserver(r Reserver) Option {
	return func(a *Allocator) {
		a.reserver = r
	}
}

// WithRecorder reports attempt counts.
func WithRecorder(r Recorder) Option {
	return func(a *Allocator) {
		a.recorder = r
	}
}

// WithSource replaces the random source; draw must return values within
// [domain.TeacherCodeMin, domain.TeacherCodeMax].
func WithSource(draw func() int64) Option {
	return func(a *Allocator) {
		a.draw = draw
	}
}

// New builds an Allocator.
func New(logger *zap.Logger, opts ...Option) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Allocator{logger: logger, draw: randomCode}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func randomCode() int64 {
	return domain.TeacherCodeMin + rand.Int63n(domain.TeacherCodeMax-domain.TeacherCodeMin+1)
}

// Allocate returns a code absent from storage at the time of the check. It
// retries without limit and only gives up on a storage error or when ctx ends.
func (a *Allocator) Allocate(ctx context.Context, checker Checker) (string, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code := strconv.FormatInt(a.draw(), 10)
		exists, err := checker.ExistsByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check teacher code: %w", err)
		}
		if exists {
			a.logger.Debug("teacher code taken, regenerating", zap.Int("attempt", attempt))
			continue
		}

		if !a.reserve(ctx, code) {
			continue
		}

		if a.recorder != nil {
			a.recorder.RecordCodeAllocation(attempt)
		}
		return code, nil
	}
}

// reserve claims code with the Reserver. Reserver failures are tolerated.
func (a *Allocator) reserve(ctx context.Context, code string) bool {
	if a.reserver == nil {
		return true
	}
	ok, err := a.reserver.ReserveCode(ctx, code)
	if err != nil {
		a.logger.Warn("teacher code reservation failed; relying on unique index", zap.Error(err))
		return true
	}
	if !ok {
		a.logger.Debug("teacher code reserved by another allocator, regenerating")
	}
	return ok
}
