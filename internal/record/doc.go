// Package record models the dynamically shaped records (torrents, files)
// returned by the daemon and the utilities every btc command shares.
//
// It owns the field ordering policy that pins name, hash, sid and fileid to
// the front of rendered output, the canonical renderer that applies that
// policy before serialization, and the codec that converts a collection
// between its ordered-list form and its keyed-mapping form. Glob filtering
// and value-aware sorting round out the pipeline helpers used by the filter
// and sort commands.
//
// Record values are opaque: nothing in this package interprets them beyond
// comparing numbers and folding text for matching.
package record
