// Package clink implements links.Store over the external clink binary.
//
// Every operation is one blocking process invocation carrying a single LiNo
// query; there is no persistent connection, no cache, and no multi-step
// atomicity. Multi-link operations (Clear) are plain read-then-N-writes and
// can be interrupted partway; callers must tolerate the resulting state.
//
// Failure taxonomy:
//   - BACKEND_UNAVAILABLE: the binary cannot be found. Fatal, never retried.
//   - QUERY_FAILED: the backend reported a fault for one invocation. The
//     backend's diagnostic output is carried on the error.
//   - PARSE_FAILURE: the backend succeeded but its output did not contain a
//     recoverable triple. Distinct from QUERY_FAILED.
//
// A non-empty diagnostic stream without a fault is logged as a warning, not
// treated as a failure.
package clink
