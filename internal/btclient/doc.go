// Package btclient talks to the torrent daemon's WebUI over HTTP.
//
// The daemon speaks the uTorrent style /gui/ protocol: a CSRF token fetched
// from /gui/token.html must accompany every request, list results arrive as
// positional arrays, and file payloads are served through /proxy. The client
// hides those details behind record-shaped results so commands can print them
// directly.
package btclient
