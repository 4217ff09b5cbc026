package pulse

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/sinkswitch/internal/model"
)

// ParseError reports malformed or incomplete collaborator output.
type ParseError struct {
	Input   string // which output was being parsed, e.g. "sink list"
	Line    int    // 1-based line number, 0 when the problem is at end of input
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %s", e.Input, e.Line, e.Message)
	}
	return fmt.Sprintf("parse %s: %s", e.Input, e.Message)
}

// NotFoundError reports that a sink required for routing is absent.
type NotFoundError struct {
	Role       model.Role
	StableName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s sink %q not found", e.Role, e.StableName)
}

// SubprocessError reports that a collaborator process could not be
// started or exited unsuccessfully.
type SubprocessError struct {
	Argv   []string
	Stderr string
	Err    error
}

func (e *SubprocessError) Error() string {
	msg := "command " + strings.Join(e.Argv, " ") + " failed"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}
