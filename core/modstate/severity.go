package modstate

import (
	stderrors "errors"

	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

// DefaultSeverity applies the error policy:
// validation problems warn, network failures block everywhere but IMAGES,
// system and internal faults are critical.
func DefaultSeverity(module types.ModuleType, t errors.Type) Severity {
	var s Severity
	switch t {
	case errors.TypeValidation:
		s = SeverityWarning
	case errors.TypeNetwork, errors.TypeNotFound:
		s = SeverityError
	case errors.TypeSystem, errors.TypeConfig, errors.TypeInternal:
		s = SeverityCritical
	default:
		s = SeverityError
	}
	return Clamp(module, s)
}

// FromError builds a ModuleError for module from err
func FromError(module types.ModuleType, err error) ModuleError {
	t := errors.TypeOf(err)
	msg := err.Error()
	var de *errors.Error
	if stderrors.As(err, &de) {
		msg = de.Message
	}
	sev := DefaultSeverity(module, t)
	return ModuleError{
		Module:      module,
		Type:        t,
		Severity:    sev,
		Message:     msg,
		Recoverable: !sev.IsBlocking(),
	}
}
