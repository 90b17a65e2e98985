// Package tools defines the closed set of host capabilities the sandboxed
// script may request, each with a declared input schema and an action kind.
package tools

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/wardenlabs/tradewarden/internal/model"
)

// Status is the state of an in-flight tool invocation.
type Status string

const (
	StatusSent      Status = "sent"
	StatusStreaming Status = "streaming"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

// Terminal reports whether the invocation has finished.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Invocation is one in-flight call. The caller must keep calling Step until
// Status returns a terminal value; intermediate states are never surfaced
// to the script.
type Invocation interface {
	Status() Status
	Step(ctx context.Context) error
	Output() map[string]any
	Err() error
}

// Tool is a host capability in the closed registry.
type Tool interface {
	Name() string
	Kind() model.ActionKind
	Schema() Schema
	Start(ctx context.Context, args map[string]any) Invocation
}

var toolNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Registry is the closed, startup-validated tool set. Unknown names fail
// fast instead of dispatching into arbitrary behavior.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry, rejecting duplicate or invalid tool names.
func NewRegistry(ts ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		name := t.Name()
		if !toolNameRe.MatchString(name) {
			return nil, fmt.Errorf("%w: invalid tool name %q", model.ErrFatalConfiguration, name)
		}
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("%w: duplicate tool %q", model.ErrFatalConfiguration, name)
		}
		r.tools[name] = t
	}
	return r, nil
}

// Lookup returns the tool for a name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// KnownSet returns the name set used by the policy stage for fail-closed
// rejection of unknown tools.
func (r *Registry) KnownSet() map[string]bool {
	known := make(map[string]bool, len(r.tools))
	for n := range r.tools {
		known[n] = true
	}
	return known
}
