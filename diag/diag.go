// Package diag implements the collector's debug-mode contract checks.
//
// Every check here guards a programming error, not a recoverable failure
// (see spec.md §7): a parent store without a write barrier, a double
// registration, a visit() call from outside a scan callback. None of these
// are detectable in general, so diag only catches what can be caught for
// free (nil checks, re-entrancy, phase checks) and only when assertions are
// enabled. With assertions disabled each check reduces to a test of the
// enabled flag; the condition still costs that one branch, and the
// arguments are still evaluated at the call site.
package diag

import (
	"fmt"
	"os"
)

// Code identifies a specific contract violation.
type Code string

const (
	// DoubleRegister fires when Register is called on a header already
	// linked into a set.
	DoubleRegister Code = "G0001"
	// VisitOutsideScan fires when Visit is called from outside a scan
	// callback invocation. Resolves the open question in spec.md §9: this
	// is asserted, never a silent no-op.
	VisitOutsideScan Code = "G0002"
	// NilHeader fires when a nil header reaches an operation that requires
	// a real object.
	NilHeader Code = "G0003"
	// NilBarrierArg fires when write_barrier receives a nil parent or
	// child.
	NilBarrierArg Code = "G0004"
	// Reentrancy fires when a scan/release callback calls back into Step,
	// Collect, or ReleaseAll.
	Reentrancy Code = "G0005"
)

// Violation is the panic value raised by a failed assertion.
type Violation struct {
	Code    Code
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s [%s]", v.Code, v.Message, string(v.Code))
}

var enabled = envEnabled()

func envEnabled() bool {
	switch os.Getenv("UGC_DEBUG") {
	case "1", "true", "on":
		return true
	default:
		return false
	}
}

// Enable turns contract assertions on or off. Disabled by default unless
// UGC_DEBUG is set in the environment at process start, mirroring the
// SOLA_LSP_DEBUG convention this is grounded on.
func Enable(on bool) { enabled = on }

// Enabled reports whether assertions currently run.
func Enabled() bool { return enabled }

// Assert panics with a *Violation carrying code and a formatted message
// when assertions are enabled and cond is false. It is a no-op otherwise.
func Assert(cond bool, code Code, format string, args ...any) {
	if enabled && !cond {
		panic(&Violation{Code: code, Message: fmt.Sprintf(format, args...)})
	}
}
