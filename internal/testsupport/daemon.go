package testsupport

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Torrent is the fake daemon's view of one torrent. Progress is per mille.
type Torrent struct {
	Hash     string
	Name     string
	Status   int
	Progress int
	SID      string
	Label    string
	Files    []File
}

// File is one payload file inside a fake torrent.
type File struct {
	Name     string
	Content  []byte
	Priority int
}

// Action records a mutating request the fake daemon received.
type Action struct {
	Name   string
	Hashes []string
	Source string
}

const (
	statusStarted = 1
	statusChecked = 8
	statusPaused  = 32
	statusLoaded  = 128
)

// Daemon is an in-memory WebUI server for tests.
type Daemon struct {
	Server   *httptest.Server
	Username string
	Password string

	mu           sync.Mutex
	token        string
	generation   int
	tokenFetches int
	torrents     []*Torrent
	actions      []Action
	onList       func(*Daemon)
}

// NewDaemon starts a fake daemon requiring the given credentials and stops it
// when the test finishes.
func NewDaemon(t testing.TB, username, password string) *Daemon {
	t.Helper()
	d := &Daemon{Username: username, Password: password}
	d.rotateLocked()
	mux := http.NewServeMux()
	mux.HandleFunc("/gui/token.html", d.handleToken)
	mux.HandleFunc("/gui/", d.handleGUI)
	mux.HandleFunc("/proxy", d.handleProxy)
	d.Server = httptest.NewServer(mux)
	t.Cleanup(d.Server.Close)
	return d
}

// URL returns the daemon root URL.
func (d *Daemon) URL() string {
	return d.Server.URL
}

// HostPort splits the server address into the host and port config keys.
func (d *Daemon) HostPort() (string, int) {
	u, err := url.Parse(d.Server.URL)
	if err != nil {
		panic(err)
	}
	port, _ := strconv.Atoi(u.Port())
	return u.Hostname(), port
}

// AddTorrent registers a torrent. A blank hash is derived from the name and a
// zero status means loaded, checked and started.
func (d *Daemon) AddTorrent(t Torrent) *Torrent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addLocked(t)
}

func (d *Daemon) addLocked(t Torrent) *Torrent {
	if t.Hash == "" {
		t.Hash = hashOf([]byte(t.Name))
	}
	if t.SID == "" {
		t.SID = "sid-" + strings.ToLower(t.Hash[:8])
	}
	if t.Status == 0 {
		t.Status = statusLoaded | statusChecked | statusStarted
	}
	stored := t
	d.torrents = append(d.torrents, &stored)
	return &stored
}

// SetProgress updates a torrent's per mille completion.
func (d *Daemon) SetProgress(hash string, permille int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t := d.findLocked(hash); t != nil {
		t.Progress = permille
	}
}

// OnList registers a hook run before every list response.
func (d *Daemon) OnList(fn func(*Daemon)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onList = fn
}

// ExpireToken invalidates the issued token so the next request is rejected.
func (d *Daemon) ExpireToken() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rotateLocked()
}

// TokenFetches reports how many times token.html was served.
func (d *Daemon) TokenFetches() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tokenFetches
}

// Actions returns the mutating requests received so far.
func (d *Daemon) Actions() []Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.actions)
}

// Torrents returns a snapshot of the registered torrents.
func (d *Daemon) Torrents() []Torrent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Torrent, 0, len(d.torrents))
	for _, t := range d.torrents {
		out = append(out, *t)
	}
	return out
}

func (d *Daemon) rotateLocked() {
	d.generation++
	d.token = fmt.Sprintf("token-%d", d.generation)
}

func (d *Daemon) findLocked(hash string) *Torrent {
	for _, t := range d.torrents {
		if strings.EqualFold(t.Hash, hash) {
			return t
		}
	}
	return nil
}

func (d *Daemon) authorized(w http.ResponseWriter, r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	if !ok || user != d.Username || pass != d.Password {
		w.Header().Set("WWW-Authenticate", `Basic realm="uTorrent"`)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return false
	}
	return true
}

func (d *Daemon) handleToken(w http.ResponseWriter, r *http.Request) {
	if !d.authorized(w, r) {
		return
	}
	d.mu.Lock()
	d.tokenFetches++
	token := d.token
	d.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: "GUID", Value: "guid-" + token, Path: "/"})
	fmt.Fprintf(w, "<html><div id='token' style='display:none;'>%s</div></html>", token)
}

func (d *Daemon) handleGUI(w http.ResponseWriter, r *http.Request) {
	if !d.authorized(w, r) {
		return
	}
	query := r.URL.Query()

	d.mu.Lock()
	valid := query.Get("token") == d.token
	hook := d.onList
	d.mu.Unlock()
	if !valid {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if query.Get("list") == "1" && hook != nil {
		hook(d)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	response := map[string]any{"build": 30470}
	switch action := query.Get("action"); action {
	case "":
		if query.Get("list") != "1" {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rows := make([][]any, 0, len(d.torrents))
		for _, t := range d.torrents {
			rows = append(rows, torrentRow(t))
		}
		response["label"] = []any{}
		response["torrents"] = rows
		response["torrentc"] = strconv.Itoa(d.generation)
	case "getfiles":
		files := []any{}
		for _, hash := range query["hash"] {
			t := d.findLocked(hash)
			if t == nil {
				continue
			}
			rows := make([][]any, 0, len(t.Files))
			for _, f := range t.Files {
				size := len(f.Content)
				rows = append(rows, []any{f.Name, size, size * t.Progress / 1000, f.Priority, 0, 1, false, -1, -1, -1, -1, 0})
			}
			files = append(files, t.Hash, rows)
		}
		response["files"] = files
	case "start", "stop", "remove", "removedata":
		hashes := query["hash"]
		d.actions = append(d.actions, Action{Name: action, Hashes: slices.Clone(hashes)})
		for _, hash := range hashes {
			d.applyLocked(action, hash)
		}
	case "add-url":
		source := query.Get("s")
		d.actions = append(d.actions, Action{Name: action, Source: source})
		name := path.Base(strings.TrimSuffix(source, ".torrent"))
		d.addLocked(Torrent{Hash: hashOf([]byte(source)), Name: name, Files: []File{{Name: name + ".iso", Content: []byte(source)}}})
	case "add-file":
		file, header, err := r.FormFile("torrent_file")
		if err != nil {
			http.Error(w, "missing torrent_file", http.StatusBadRequest)
			return
		}
		content, _ := io.ReadAll(file)
		file.Close()
		d.actions = append(d.actions, Action{Name: action, Source: header.Filename})
		name := strings.TrimSuffix(header.Filename, path.Ext(header.Filename))
		d.addLocked(Torrent{Hash: hashOf(content), Name: name, Files: []File{{Name: name + ".bin", Content: content}}})
	default:
		response["error"] = "unsupported action " + action
	}

	w.Header().Set("Content-Type", "text/plain")
	_ = json.NewEncoder(w).Encode(response)
}

func (d *Daemon) applyLocked(action, hash string) {
	idx := slices.IndexFunc(d.torrents, func(t *Torrent) bool { return strings.EqualFold(t.Hash, hash) })
	if idx < 0 {
		return
	}
	t := d.torrents[idx]
	switch action {
	case "start":
		t.Status = (t.Status | statusStarted) &^ statusPaused
	case "stop":
		t.Status &^= statusStarted | statusPaused
	case "remove", "removedata":
		d.torrents = slices.Delete(d.torrents, idx, idx+1)
	}
}

func (d *Daemon) handleProxy(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("GUID")
	if err != nil || cookie.Value == "" {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	query := r.URL.Query()
	index, err := strconv.Atoi(query.Get("file"))
	if err != nil {
		http.Error(w, "bad file index", http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	var content []byte
	found := false
	for _, t := range d.torrents {
		if t.SID == query.Get("sid") && index >= 0 && index < len(t.Files) {
			content = t.Files[index].Content
			found = true
			break
		}
	}
	d.mu.Unlock()
	if !found {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	_, _ = w.Write(content)
}

func torrentRow(t *Torrent) []any {
	var size int
	for _, f := range t.Files {
		size += len(f.Content)
	}
	downloaded := size * t.Progress / 1000
	completed := 0
	if t.Progress >= 1000 {
		completed = 1700000000
	}
	return []any{
		t.Hash, t.Status, t.Name, size, t.Progress, downloaded, 0, 0,
		0, 0, -1, t.Label, 0, 0, 0, 0, 65536, 1, size - downloaded,
		"", "", "Downloading", t.SID, 1690000000, completed, "", "/data/" + t.Name,
	}
}

func hashOf(data []byte) string {
	sum := sha1.Sum(data)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
