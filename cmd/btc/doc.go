// Package main hosts the btc entrypoint and its sub-commands.
//
// The process loads configuration once, builds the daemon client and the
// logger, and hands argv to the command dispatcher. Each sub-command is a
// small cobra command that reads JSON records from stdin and writes JSON
// records to stdout, so invocations compose into shell pipelines such as
// `btc list | btc filter -k state seeding | btc stop`.
package main
