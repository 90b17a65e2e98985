package policy

import (
	"fmt"
	"sync"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// Decide is a pure function of (document, tool name).
//
// An exact rule wins and its allowed/reason/rule_id is reported verbatim.
// Without a rule the document mode decides. Callers are expected to have
// resolved the tool against the registry already; Decide itself has no
// notion of which tools exist.
func Decide(doc *Document, tool string) model.Decision {
	if r, ok := doc.rule(tool); ok {
		if r.Allowed {
			return model.Allow()
		}
		return model.BlockRule(fmt.Sprintf("policy denied tool %s: %s", tool, r.Reason), r.RuleID)
	}

	switch doc.Mode {
	case ModeDefaultAllow:
		return model.Allow()
	default:
		return model.BlockRule(fmt.Sprintf("tool %s denied by default policy", tool), "policy.default_deny")
	}
}

// Store holds the active document and supports atomic replacement on reload.
// Reads are safe from any goroutine; the document itself is never mutated.
type Store struct {
	mu   sync.RWMutex
	doc  *Document
	hash string
	path string
}

// NewStore loads the document at path into a store.
func NewStore(path string) (*Store, error) {
	doc, hash, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{doc: doc, hash: hash, path: path}, nil
}

// NewStoreWith wraps an already-built document (used by tests and check mode).
func NewStoreWith(doc *Document, hash string) *Store {
	return &Store{doc: doc, hash: hash}
}

// Document returns the active document and its hash.
func (s *Store) Document() (*Document, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.hash
}

// Hash returns the active document's hash.
func (s *Store) Hash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hash
}

// Reload re-reads the backing file and swaps the document in atomically.
// On any load error the previous document stays active.
func (s *Store) Reload() error {
	if s.path == "" {
		return fmt.Errorf("policy: store has no backing file")
	}
	doc, hash, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = doc
	s.hash = hash
	s.mu.Unlock()
	return nil
}

// Interceptor is the pipeline stage backed by a policy store. Tool names
// outside the registered set are rejected fail-closed regardless of mode.
type Interceptor struct {
	store *Store
	known map[string]bool
}

// NewInterceptor builds the policy stage over a store and the closed set of
// registered tool names.
func NewInterceptor(store *Store, known map[string]bool) *Interceptor {
	return &Interceptor{store: store, known: known}
}

func (i *Interceptor) Name() string { return "policy" }

// Decide evaluates the active document for the call's tool.
func (i *Interceptor) Decide(ctx *model.ToolCallContext) model.Decision {
	if !i.known[ctx.Tool] {
		return model.BlockRule(fmt.Sprintf("unknown tool %s", ctx.Tool), "policy.unknown_tool")
	}
	doc, _ := i.store.Document()
	return Decide(doc, ctx.Tool)
}
