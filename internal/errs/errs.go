// Package errs implements the error-category taxonomy: user-input,
// environment, subprocess, and programming errors, each with the
// propagation behavior spec'd for it. Programming errors hard-abort the
// process the way the CLI root command already hard-aborts on any
// top-level error.
package errs

import (
	"fmt"
	"log"
	"strings"
)

// Category distinguishes why an operation failed, and therefore how the
// CLI layer should react to it.
type Category int

const (
	// UserInput covers malformed input recoverable by the CLI layer:
	// unknown description key, unknown enumerant, duplicate or unknown
	// usage key, a duplicate sdist under an error policy.
	UserInput Category = iota
	// Environment covers failures in the surrounding system rather than
	// in what the user typed: a missing compiler executable, an
	// unreadable sdist directory, lock contention.
	Environment
	// Subprocess covers a spawned compiler, archiver, linker, or
	// external build system exiting non-zero.
	Subprocess
	// Programming covers invariant violations that indicate a bug in
	// this program, not bad input: a write through a read-only
	// repository handle, an unresolved template placeholder.
	Programming
)

func (c Category) String() string {
	switch c {
	case UserInput:
		return "user-input"
	case Environment:
		return "environment"
	case Subprocess:
		return "subprocess"
	case Programming:
		return "programming"
	default:
		return "unknown"
	}
}

// Error is the structured shape every user-visible failure takes: a
// one-line summary, the failing subprocess's argv and captured output
// when relevant, and a stable code a script can match on.
type Error struct {
	Category Category
	Summary  string
	Argv     []string
	Output   string
	Code     string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.Summary)
	if len(e.Argv) > 0 {
		fmt.Fprintf(&b, "\n  command: %s", quoteArgv(e.Argv))
	}
	if e.Output != "" {
		fmt.Fprintf(&b, "\n%s", e.Output)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, "\n  [%s]", e.Code)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func quoteArgv(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if strings.ContainsAny(a, " \t\"'") {
			quoted[i] = fmt.Sprintf("%q", a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}

// UserInputError builds a user-input error, raised at the boundary where
// the bad value is first seen.
func UserInputError(code, summary string, cause error) *Error {
	return &Error{Category: UserInput, Summary: summary, Code: code, Err: cause}
}

// EnvironmentError builds an environment error.
func EnvironmentError(code, summary string, cause error) *Error {
	return &Error{Category: Environment, Summary: summary, Code: code, Err: cause}
}

// SubprocessError builds a subprocess error from a failing command's argv
// and captured output.
func SubprocessError(code, summary string, argv []string, output string, cause error) *Error {
	return &Error{Category: Subprocess, Summary: summary, Argv: argv, Output: output, Code: code, Err: cause}
}

// Fatal aborts the process for a programming error: a write through a
// read-only handle, a broken template-substitution invariant. These are
// bugs in this program, not reportable conditions, so they hard-abort the
// same way the CLI root command hard-aborts on any top-level error.
func Fatal(summary string) {
	log.Fatalf("programming error: %s", summary)
}
