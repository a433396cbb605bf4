package clink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultBinary is the clink executable name resolved via PATH.
const DefaultBinary = "clink"

// Flags select which state the backend reports for an invocation.
type Flags struct {
	Before  bool // report pre-state
	Changes bool // report applied changes
	After   bool // report post-state
	Trace   bool // report trace information
}

func (f Flags) args() []string {
	var args []string
	if f.Before {
		args = append(args, "--before")
	}
	if f.Changes {
		args = append(args, "--changes")
	}
	if f.After {
		args = append(args, "--after")
	}
	if f.Trace {
		args = append(args, "--trace")
	}
	return args
}

// Runner executes one LiNo query against the backend and returns its output
// streams. The production implementation shells out to the clink binary;
// tests substitute a scripted fake.
type Runner interface {
	Run(ctx context.Context, query string, flags Flags) (stdout, stderr string, err error)
}

// ExecRunner invokes the clink binary, one process per query.
type ExecRunner struct {
	// Binary is the executable to invoke. Empty means DefaultBinary.
	Binary string

	// DBPath is the database file passed via --db.
	DBPath string
}

// Run executes the query. A missing binary yields BACKEND_UNAVAILABLE; a
// non-zero exit yields QUERY_FAILED carrying the backend's stderr.
func (r *ExecRunner) Run(ctx context.Context, query string, flags Flags) (string, string, error) {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	args := append([]string{query, "--db", r.DBPath}, flags.args()...)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = toolEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// PATH lookups fail with exec.ErrNotFound; an explicit path to a
		// nonexistent binary fails with ENOENT before the process starts.
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return "", "", &Error{
				Code:    ErrCodeUnavailable,
				Message: fmt.Sprintf("%s not found: install link-cli or point the backend at the binary", binary),
				Err:     err,
			}
		}
		return "", "", &Error{
			Code:    ErrCodeQueryFailed,
			Message: "backend reported a fault",
			Query:   query,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return stdout.String(), stderr.String(), nil
}

// toolEnv returns the process environment with ~/.dotnet/tools prepended to
// PATH, where dotnet tool installs place the clink binary.
func toolEnv() []string {
	env := os.Environ()
	home, err := os.UserHomeDir()
	if err != nil {
		return env
	}
	tools := filepath.Join(home, ".dotnet", "tools")
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + tools + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
			return env
		}
	}
	return append(env, "PATH="+tools)
}
