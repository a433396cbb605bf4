package clink

import (
	"context"
	"testing"
)

// recordedCall captures one runner invocation for assertions.
type recordedCall struct {
	Query string
	Flags Flags
}

// scriptedResponse is what the fake returns for one invocation.
type scriptedResponse struct {
	Stdout string
	Stderr string
	Err    error
}

// fakeRunner plays back scripted responses in order and records every call.
type fakeRunner struct {
	t         *testing.T
	calls     []recordedCall
	responses []scriptedResponse
}

func newFakeRunner(t *testing.T, responses ...scriptedResponse) *fakeRunner {
	return &fakeRunner{t: t, responses: responses}
}

func (f *fakeRunner) Run(_ context.Context, query string, flags Flags) (string, string, error) {
	f.calls = append(f.calls, recordedCall{Query: query, Flags: flags})
	if len(f.responses) == 0 {
		f.t.Fatalf("unexpected backend call: %s", query)
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.Stdout, resp.Stderr, resp.Err
}
