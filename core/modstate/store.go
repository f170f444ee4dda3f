package modstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"print-pricing/core/types"
	"print-pricing/internal/logging"
)

// Store holds an isolated ModuleState per module.
// Changing one module's state is never visible through another's.
type Store struct {
	mu     sync.RWMutex
	states map[types.ModuleType]ModuleState
	now    func() time.Time
	logger *zap.Logger
}

// NewStore creates an empty store
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		states: make(map[types.ModuleType]ModuleState),
		now:    time.Now,
		logger: logging.Or(logger).Named("modstate"),
	}
}

// WithClock overrides the time source
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// State returns a copy of module's state
func (s *Store) State(module types.ModuleType) ModuleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[module].clone()
}

// AddError records e on module and returns the stored error
func (s *Store) AddError(module types.ModuleType, e ModuleError) ModuleError {
	e.Module = module
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	e.Severity = Clamp(module, e.Severity)

	s.update(module, func(st ModuleState) ModuleState { return AddError(st, module, e) })
	s.logger.Debug("module error recorded",
		zap.String("module", module.String()),
		zap.String("severity", string(e.Severity)),
		zap.String("message", e.Message),
	)
	return e
}

// ReportError converts err with FromError and records it
func (s *Store) ReportError(module types.ModuleType, err error) ModuleError {
	return s.AddError(module, FromError(module, err))
}

// ClearErrors drops module's errors
func (s *Store) ClearErrors(module types.ModuleType) {
	s.update(module, ClearErrors)
}

// RemoveError drops a single error
func (s *Store) RemoveError(module types.ModuleType, id string) {
	s.update(module, func(st ModuleState) ModuleState { return RemoveError(st, id) })
}

// Errors returns module's errors
func (s *Store) Errors(module types.ModuleType) []ModuleError {
	return s.State(module).Errors
}

// HasErrors reports whether module has any error
func (s *Store) HasErrors(module types.ModuleType) bool {
	return s.State(module).HasErrors()
}

// HasBlockingErrors reports whether module has an ERROR or CRITICAL error
func (s *Store) HasBlockingErrors(module types.ModuleType) bool {
	return s.State(module).HasBlockingErrors()
}

// AnyBlocking reports whether any module is blocked
func (s *Store) AnyBlocking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.states {
		if st.HasBlockingErrors() {
			return true
		}
	}
	return false
}

// StartOperation registers a running operation and returns its id
func (s *Store) StartOperation(module types.ModuleType, name string) string {
	op := Operation{
		ID:        uuid.NewString(),
		Module:    module,
		Name:      name,
		StartedAt: s.now(),
	}
	s.update(module, func(st ModuleState) ModuleState { return StartOp(st, op) })
	return op.ID
}

// CompleteOperation marks an operation finished
func (s *Store) CompleteOperation(module types.ModuleType, id string) {
	s.update(module, func(st ModuleState) ModuleState { return CompleteOp(st, id) })
}

// FailOperation ends an operation and records err against module
func (s *Store) FailOperation(module types.ModuleType, id string, err error) ModuleError {
	e := FromError(module, err)
	e.ID = uuid.NewString()
	e.Timestamp = s.now()
	s.update(module, func(st ModuleState) ModuleState { return FailOp(st, module, id, e) })
	s.logger.Warn("module operation failed",
		zap.String("module", module.String()),
		zap.String("operation", id),
		zap.Error(err),
	)
	return e
}

// IsLoading reports whether module has running operations
func (s *Store) IsLoading(module types.ModuleType) bool {
	return s.State(module).IsLoading()
}

// Snapshot returns every non-empty module state
func (s *Store) Snapshot() map[types.ModuleType]ModuleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[types.ModuleType]ModuleState, len(s.states))
	for m, st := range s.states {
		if st.HasErrors() || st.IsLoading() {
			out[m] = st.clone()
		}
	}
	return out
}

func (s *Store) update(module types.ModuleType, fn func(ModuleState) ModuleState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[module] = fn(s.states[module])
}
