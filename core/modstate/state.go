// Package modstate tracks errors and in-flight operations per module.
//
// Each module owns one ModuleState. The reducers in this file are pure: they
// take a state and return a new one, never touching the input.
package modstate

import (
	"time"

	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

// Severity ranks a module error
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities; unknown values rank lowest
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// IsBlocking is true at ERROR and CRITICAL
func (s Severity) IsBlocking() bool {
	return s.Rank() >= SeverityError.Rank()
}

// MaxSeverity returns the highest severity a module may emit
func MaxSeverity(module types.ModuleType) Severity {
	if module == types.ModuleImages {
		return SeverityWarning
	}
	return SeverityCritical
}

// Clamp lowers s to the module's ceiling
func Clamp(module types.ModuleType, s Severity) Severity {
	ceiling := MaxSeverity(module)
	if s.Rank() > ceiling.Rank() {
		return ceiling
	}
	return s
}

// ModuleError is one recorded error
type ModuleError struct {
	ID          string           `json:"id"`
	Module      types.ModuleType `json:"module"`
	Type        errors.Type      `json:"type"`
	Severity    Severity         `json:"severity"`
	Message     string           `json:"message"`
	Recoverable bool             `json:"recoverable"`
	Timestamp   time.Time        `json:"timestamp"`
}

// OpStatus is the lifecycle of an operation
type OpStatus string

const (
	OpRunning   OpStatus = "RUNNING"
	OpCompleted OpStatus = "COMPLETED"
	OpFailed    OpStatus = "FAILED"
)

// Operation is an in-flight module operation such as an upload or a catalog fetch
type Operation struct {
	ID        string           `json:"id"`
	Module    types.ModuleType `json:"module"`
	Name      string           `json:"name"`
	Status    OpStatus         `json:"status"`
	StartedAt time.Time        `json:"startedAt"`
}

// ModuleState is the error and loading state of one module
type ModuleState struct {
	Errors     []ModuleError        `json:"errors"`
	LoadingOps map[string]Operation `json:"loadingOps"`
}

// HasErrors reports any error regardless of severity
func (s ModuleState) HasErrors() bool {
	return len(s.Errors) > 0
}

// HasBlockingErrors reports any ERROR or CRITICAL error
func (s ModuleState) HasBlockingErrors() bool {
	for _, e := range s.Errors {
		if e.Severity.IsBlocking() {
			return true
		}
	}
	return false
}

// IsLoading reports whether any operation is running
func (s ModuleState) IsLoading() bool {
	return len(s.LoadingOps) > 0
}

// HighestSeverity returns the worst severity present, or "" when clean
func (s ModuleState) HighestSeverity() Severity {
	var worst Severity
	for _, e := range s.Errors {
		if e.Severity.Rank() > worst.Rank() {
			worst = e.Severity
		}
	}
	return worst
}

// AddError appends e as an error of module, clamping its severity to the
// module ceiling
func AddError(s ModuleState, module types.ModuleType, e ModuleError) ModuleState {
	e.Module = module
	e.Severity = Clamp(module, e.Severity)
	out := s.clone()
	out.Errors = append(out.Errors, e)
	return out
}

// ClearErrors drops every error, keeping loading state
func ClearErrors(s ModuleState) ModuleState {
	out := s.clone()
	out.Errors = nil
	return out
}

// RemoveError drops the error with id
func RemoveError(s ModuleState, id string) ModuleState {
	out := s.clone()
	out.Errors = out.Errors[:0]
	for _, e := range s.Errors {
		if e.ID != id {
			out.Errors = append(out.Errors, e)
		}
	}
	return out
}

// StartOp registers a running operation
func StartOp(s ModuleState, op Operation) ModuleState {
	op.Status = OpRunning
	out := s.clone()
	out.LoadingOps[op.ID] = op
	return out
}

// CompleteOp removes a finished operation. Unknown ids are ignored.
func CompleteOp(s ModuleState, id string) ModuleState {
	out := s.clone()
	delete(out.LoadingOps, id)
	return out
}

// FailOp removes the operation and records cause as an error of module
func FailOp(s ModuleState, module types.ModuleType, id string, cause ModuleError) ModuleState {
	return AddError(CompleteOp(s, id), module, cause)
}

func (s ModuleState) clone() ModuleState {
	out := ModuleState{
		Errors:     append([]ModuleError(nil), s.Errors...),
		LoadingOps: make(map[string]Operation, len(s.LoadingOps)),
	}
	for id, op := range s.LoadingOps {
		out.LoadingOps[id] = op
	}
	return out
}
