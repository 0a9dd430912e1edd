// Package command implements the static sub-command registry and the one-shot
// dispatcher behind `btc <command> [<args>]`.
//
// A Registry maps command names to Runners. Dispatch resolves the first
// argument, rewrites the invocation so the sub-command sees itself as the
// program (`btc list`) with only its own arguments, and returns the
// sub-command's exit status. Unknown commands produce a typed error, a
// diagnostic, and the usage text.
package command
