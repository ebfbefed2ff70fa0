// Command ogzwatch is a small dev-server companion to ogzdump: it
// rescans a directory on an interval, decodes new or changed .ogz
// files, and pushes JSON summaries to connected websocket clients.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/pflag"

	"github.com/ernie/ogzdecode/internal/cache"
	"github.com/ernie/ogzdecode/internal/config"
	"github.com/ernie/ogzdecode/internal/ogz"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// watcher rescans a directory tree and tracks the content hash of each
// .ogz file last seen, so unchanged files aren't redecoded or
// rebroadcast.
type watcher struct {
	dir        string
	interval   time.Duration
	minVersion uint32
	maxVersion uint32

	mu       sync.Mutex
	lastHash map[string]string

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

func newWatcher(dir string, interval time.Duration, minVersion, maxVersion uint32) *watcher {
	return &watcher{
		dir:        dir,
		interval:   interval,
		minVersion: minVersion,
		maxVersion: maxVersion,
		lastHash:   make(map[string]string),
		clients:    make(map[*websocket.Conn]bool),
	}
}

func (w *watcher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for range ticker.C {
		w.scanOnce()
	}
}

func (w *watcher) scanOnce() {
	err := filepath.WalkDir(w.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".ogz" {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("scan: read %s: %v", path, err)
			return nil
		}
		if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
			gr, err := gzip.NewReader(bytes.NewReader(data))
			if err != nil {
				log.Printf("scan: gzip header %s: %v", path, err)
				return nil
			}
			data, err = io.ReadAll(gr)
			gr.Close()
			if err != nil {
				log.Printf("scan: gzip decompress %s: %v", path, err)
				return nil
			}
		}
		hash := cache.ContentHash(data)

		w.mu.Lock()
		changed := w.lastHash[path] != hash
		w.lastHash[path] = hash
		w.mu.Unlock()
		if !changed {
			return nil
		}

		m, err := ogz.DecodeVersionRange(data, w.minVersion, w.maxVersion)
		if err != nil {
			log.Printf("scan: decode %s: %v", path, err)
			return nil
		}

		summary := cache.Summary{
			Path:        path,
			Hash:        hash,
			Version:     m.Header.Version,
			WorldSize:   m.Header.WorldSize,
			NumEntities: len(m.Entities),
			NumVSlots:   len(m.VSlots),
			NumVars:     len(m.Vars),
			GameIdent:   m.GameIdent,
			DecodedAt:   time.Now().UTC(),
		}
		log.Printf("changed: %s (hash %s)", path, hash[:12])
		w.broadcast(summary)
		return nil
	})
	if err != nil {
		log.Printf("scan: walk %s: %v", w.dir, err)
	}
}

func (w *watcher) broadcast(summary cache.Summary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		log.Printf("broadcast: marshal: %v", err)
		return
	}

	w.clientsMu.Lock()
	defer w.clientsMu.Unlock()
	for conn := range w.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("broadcast: write to client: %v", err)
			conn.Close()
			delete(w.clients, conn)
		}
	}
}

func (w *watcher) addClient(conn *websocket.Conn) {
	w.clientsMu.Lock()
	w.clients[conn] = true
	w.clientsMu.Unlock()
}

func (w *watcher) removeClient(conn *websocket.Conn) {
	w.clientsMu.Lock()
	delete(w.clients, conn)
	w.clientsMu.Unlock()
}

// authenticate validates the HS256 token passed as the "token" query
// parameter against secret. An invalid or expired token is rejected.
func authenticate(r *http.Request, secret string) error {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		return fmt.Errorf("missing token")
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

func serveWS(w *watcher, secret string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if err := authenticate(r, secret); err != nil {
			http.Error(rw, err.Error(), http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			log.Printf("upgrade: %v", err)
			return
		}
		w.addClient(conn)
		log.Printf("client connected: %s", r.RemoteAddr)

		defer func() {
			w.removeClient(conn)
			conn.Close()
		}()

		// Drain and discard incoming frames; this connection is
		// broadcast-only from the server's side.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("client disconnected: %s", r.RemoteAddr)
				return
			}
		}
	}
}

func main() {
	fs := pflag.NewFlagSet("ogzwatch", pflag.ExitOnError)
	dir := fs.StringP("dir", "d", ".", "directory to watch for .ogz files")
	addr := fs.StringP("addr", "a", ":8787", "listen address")
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("ogzwatch: %v", err)
	}
	if cfg.WatchSecret == "" {
		log.Fatalf("ogzwatch: watchSecret must be set in %s", *configPath)
	}

	interval := time.Duration(cfg.WatchIntervalSec) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}

	w := newWatcher(*dir, interval, cfg.MinVersion, cfg.MaxVersion)
	go w.run()

	http.HandleFunc("/ws", serveWS(w, cfg.WatchSecret))

	log.Printf("watching %s every %s, listening on %s", *dir, interval, *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("ogzwatch: %v", err)
	}
}
