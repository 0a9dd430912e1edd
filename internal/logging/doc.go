// Package logging assembles the structured slog loggers btc commands use for
// diagnostics.
//
// Log output always goes to stderr (or a caller supplied writer) so it never
// mixes with the JSON records commands print on stdout. The console handler
// renders one key=value line per record; the JSON handler emits one object per
// line with ts, level and msg keys.
package logging
