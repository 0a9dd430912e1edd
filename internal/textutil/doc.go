// Package textutil turns names reported by the daemon into safe local file
// system paths.
package textutil
