package dashpages

import (
	"errors"
	"fmt"
)

var (
	// ErrPreventUpdate is returned by a callback that wants to leave its outputs
	// unchanged for the current event. It is not a failure.
	ErrPreventUpdate = errors.New("dashpages: prevent update")

	ErrDuplicatePage      = errors.New("duplicate page name")
	ErrNamespaceCollision = errors.New("id namespace already used by another page")
	ErrMultipleShells     = errors.New("more than one shell page")
	ErrNoShell            = errors.New("no shell page registered")
	ErrUnknownPage        = errors.New("unknown page")
	ErrLoadOrder          = errors.New("page is configured after the module referencing it")
	ErrDuplicateOutput    = errors.New("output already bound by another callback")
	ErrOutputArity        = errors.New("callback returned wrong number of outputs")
)

// ResolutionError reports that the package of an InitIDs caller could not be
// determined.
type ResolutionError struct {
	PC     uintptr
	Func   string
	Reason string
}

func (e *ResolutionError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("dashpages: cannot resolve calling module of %s: %s", e.Func, e.Reason)
	}
	return "dashpages: cannot resolve calling module: " + e.Reason
}

// ModuleLoadError reports a configured page module that could not be loaded.
// Startup must not continue with a partially loaded registry.
type ModuleLoadError struct {
	Module string
	Err    error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("dashpages: load module %q: %v", e.Module, e.Err)
}

func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}
