package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestFirebaseStore_GetSet(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.URL.Query().Get("auth")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		switch r.URL.Path {
		case "/agriSensors/relay.json":
			_, _ = w.Write([]byte(`"ON"`))
		case "/agriSensors/schedule.json":
			_, _ = w.Write([]byte(`null`))
		default:
			http.Error(w, `{"error":"Permission denied"}`, http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	store := NewFirebaseStore(FirebaseConfig{URL: srv.URL + "/", Auth: "secret"}, nil)
	ctx := context.Background()

	raw, err := store.Get(ctx, "/agriSensors/relay")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(raw) != `"ON"` || gotMethod != http.MethodGet || gotAuth != "secret" {
		t.Fatalf("unexpected get: raw=%s method=%s auth=%s", raw, gotMethod, gotAuth)
	}

	raw, err = store.Get(ctx, "/agriSensors/schedule")
	if err != nil || raw != nil {
		t.Fatalf("expected nil for null document, got %s (%v)", raw, err)
	}

	if err := store.Set(ctx, "/agriSensors/relay", "OFF"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/agriSensors/relay.json" || gotBody != `"OFF"` {
		t.Fatalf("unexpected put: %s %s %s", gotMethod, gotPath, gotBody)
	}

	if err := store.Set(ctx, "/denied", 1); err == nil {
		t.Fatalf("expected error on 401")
	}
	if h := store.Health(); h.LastError == "" || h.Backend != "firebase" {
		t.Fatalf("expected last error recorded, got %+v", h)
	}
}

func TestFirebaseStore_Subscribe_AppliesPutAndPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			http.Error(w, "expected stream", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		events := []string{
			"event: put\ndata: {\"path\":\"/\",\"data\":{\"temperature\":25,\"humidity\":60}}\n\n",
			"event: keep-alive\ndata: null\n\n",
			"event: patch\ndata: {\"path\":\"/\",\"data\":{\"soil_percent\":42}}\n\n",
			"event: put\ndata: {\"path\":\"/humidity\",\"data\":null}\n\n",
		}
		for _, e := range events {
			_, _ = fmt.Fprint(w, e)
			flusher.Flush()
		}
		<-r.Context().Done()
	}))
	defer srv.Close()

	store := NewFirebaseStore(FirebaseConfig{URL: srv.URL}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.Subscribe(ctx, "/agriSensors/data")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	want := []map[string]float64{
		{"temperature": 25, "humidity": 60},
		{"temperature": 25, "humidity": 60, "soil_percent": 42},
		{"temperature": 25, "soil_percent": 42},
	}
	for i, w := range want {
		select {
		case snap := <-ch:
			var got map[string]float64
			if err := json.Unmarshal(snap.Value, &got); err != nil {
				t.Fatalf("snapshot %d: %v", i, err)
			}
			if !reflect.DeepEqual(got, w) {
				t.Fatalf("snapshot %d: expected %v, got %v", i, w, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for snapshot %d", i)
		}
	}
	if !store.IsConnected() {
		t.Fatalf("expected connected while streaming")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected channel closed after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream not torn down")
	}
}

func TestFirebaseStore_Subscribe_ReconnectsAfterServerClose(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connections.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, "event: put\ndata: {\"path\":\"/\",\"data\":\"ON\"}\n\n")
		w.(http.Flusher).Flush()
		// returning closes the stream
	}))
	defer srv.Close()

	store := NewFirebaseStore(FirebaseConfig{
		URL:               srv.URL,
		InitialRetryDelay: 10 * time.Millisecond,
		MaxRetryDelay:     20 * time.Millisecond,
		JitterPercent:     0.01,
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := store.Subscribe(ctx, "/agriSensors/relay")
	for i := 0; i < 2; i++ {
		select {
		case snap := <-ch:
			if string(snap.Value) != `"ON"` {
				t.Fatalf("unexpected snapshot %s", snap.Value)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for snapshot after reconnect %d", i)
		}
	}
	if connections.Load() < 2 {
		t.Fatalf("expected a reconnect, got %d connections", connections.Load())
	}
}

func TestApplyPutAndPatch(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		path string
		val  any
		want any
	}{
		{"root replace", map[string]any{"a": 1.0}, "/", "x", "x"},
		{"nested create", nil, "/a/b", 1.0, map[string]any{"a": map[string]any{"b": 1.0}}},
		{"overwrite leaf", map[string]any{"a": 1.0}, "/a", 2.0, map[string]any{"a": 2.0}},
		{"delete leaf", map[string]any{"a": 1.0, "b": 2.0}, "/a", nil, map[string]any{"b": 2.0}},
		{"delete last leaf", map[string]any{"a": 1.0}, "/a", nil, nil},
		{"delete missing branch", map[string]any{"a": 1.0}, "/x/y", nil, map[string]any{"a": 1.0}},
		{"scalar replaced by object", "ON", "/a", 1.0, map[string]any{"a": 1.0}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := applyPut(tt.doc, tt.path, tt.val)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}

	doc := applyPatch(map[string]any{"a": 1.0}, "/", map[string]any{"b": 2.0, "a": nil})
	if !reflect.DeepEqual(doc, map[string]any{"b": 2.0}) {
		t.Fatalf("unexpected patch result %#v", doc)
	}
}

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"":                    "/",
		"/":                   "/",
		"agriSensors":         "/agriSensors",
		"/agriSensors//data/": "/agriSensors/data",
	}
	for in, want := range cases {
		if got := cleanPath(in); got != want {
			t.Fatalf("cleanPath(%q): expected %q, got %q", in, want, got)
		}
	}
}
