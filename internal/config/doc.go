// Package config loads and merges the btc configuration file.
//
// Settings come from built-in defaults overlaid field by field with the
// values found in ~/.btc (or the file named by BTC_CONFIG). The file is a
// JSON object; a path ending in .toml is read as TOML instead. A missing or
// blank file leaves the defaults in place, while a malformed file or a
// wrongly typed known key is a fatal error. Keys btc does not recognize are
// preserved in Config.Extra.
//
// The loaded Config is shared read-only by every command in the process.
package config
