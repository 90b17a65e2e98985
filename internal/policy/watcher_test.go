package policy

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcherRequiresBackingFile(t *testing.T) {
	doc, err := NewDocument(ModeDefaultDeny, nil)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if _, err := NewWatcher(NewStoreWith(doc, "sha256:test")); err == nil {
		t.Error("expected error for store without a backing file")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writePolicy(t, "mode: default-deny\n")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	watcher, err := NewWatcher(store)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	if err := os.WriteFile(path, []byte("mode: default-allow\n"), 0o600); err != nil {
		t.Fatalf("rewrite policy: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		doc, _ := store.Document()
		if doc.Mode == ModeDefaultAllow {
			break
		}
		select {
		case <-deadline:
			t.Fatal("store never picked up the rewritten document")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
