//go:build !cgo_sqlite

package main

import (
	"net/url"
	"strings"
	"testing"
)

func TestNativeDSN(t *testing.T) {
	if got := nativeDSN("./data/x.db"); got != "./data/x.db" {
		t.Errorf("plain path changed: %q", got)
	}

	got := nativeDSN("./data/x.db?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	path, rawQuery, ok := strings.Cut(got, "?")
	if !ok || path != "./data/x.db" {
		t.Fatalf("unexpected dsn %q", got)
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		t.Fatalf("dsn query does not parse: %v", err)
	}
	pragmas := strings.Join(q["_pragma"], ",")
	if !strings.Contains(pragmas, "journal_mode(WAL)") || !strings.Contains(pragmas, "busy_timeout(5000)") {
		t.Errorf("pragmas not translated: %q", pragmas)
	}
	if got := q.Get("_txlock"); got != "immediate" {
		t.Errorf("_txlock should pass through unchanged, got %q", got)
	}
}
