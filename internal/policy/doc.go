// Package policy holds the stateless checks that gate every tool call:
// URL safety against SSRF, workspace path confinement, and the terminal
// command allowlist with its shell-metacharacter filter.
//
// Every predicate fails closed. None of them cache results, since the
// filesystem and host mappings they look at can change between calls.
package policy
