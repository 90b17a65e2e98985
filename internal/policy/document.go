package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Mode is the document's default decision for tools without an explicit rule.
type Mode string

const (
	ModeDefaultAllow Mode = "default-allow"
	ModeDefaultDeny  Mode = "default-deny"
)

// Rule is a per-tool allow/deny entry. Tool names are unique per document.
type Rule struct {
	Tool    string `yaml:"tool" json:"tool"`
	Allowed bool   `yaml:"allowed" json:"allowed"`
	RuleID  string `yaml:"rule_id" json:"rule_id"`
	Reason  string `yaml:"reason" json:"reason"`
}

// Document is a loaded policy. It is immutable for its lifetime; a reload
// builds a fresh Document and swaps it in atomically.
type Document struct {
	Mode  Mode   `yaml:"mode" json:"mode"`
	Rules []Rule `yaml:"rules" json:"rules"`

	index map[string]Rule
}

var toolNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Load reads a policy document from a YAML file and returns it with the
// SHA-256 hash of the raw bytes. Any malformed content is a hard error;
// the process must refuse to start rather than degrade to allow-all.
func Load(path string) (*Document, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("policy: read %s: %w", path, err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("policy: parse %s: %w", path, err)
	}
	if err := doc.finalize(); err != nil {
		return nil, "", fmt.Errorf("policy: invalid document %s: %w", path, err)
	}

	return &doc, hash, nil
}

// NewDocument builds a validated in-memory document.
func NewDocument(mode Mode, rules []Rule) (*Document, error) {
	doc := &Document{Mode: mode, Rules: rules}
	if err := doc.finalize(); err != nil {
		return nil, err
	}
	return doc, nil
}

// finalize validates the document and builds the rule index.
func (d *Document) finalize() error {
	switch d.Mode {
	case ModeDefaultAllow, ModeDefaultDeny:
	case "":
		return fmt.Errorf("mode is required (default-allow or default-deny)")
	default:
		return fmt.Errorf("unknown mode %q", d.Mode)
	}

	d.index = make(map[string]Rule, len(d.Rules))
	for _, r := range d.Rules {
		if !toolNameRe.MatchString(r.Tool) {
			return fmt.Errorf("invalid tool name %q in rule %q", r.Tool, r.RuleID)
		}
		if _, dup := d.index[r.Tool]; dup {
			return fmt.Errorf("duplicate rule for tool %q", r.Tool)
		}
		d.index[r.Tool] = r
	}
	return nil
}

// ValidateTools checks that every rule names a registered tool, so typos in
// the policy fail at startup instead of silently never matching.
func (d *Document) ValidateTools(known map[string]bool) error {
	for _, r := range d.Rules {
		if !known[r.Tool] {
			return fmt.Errorf("policy rule %q names unregistered tool %q", r.RuleID, r.Tool)
		}
	}
	return nil
}

// rule returns the exact-match rule for a tool, if one exists.
func (d *Document) rule(tool string) (Rule, bool) {
	r, ok := d.index[tool]
	return r, ok
}

// DefaultDocumentYAML returns a commented starter policy for the init command.
func DefaultDocumentYAML() string {
	return `# tradewarden policy document
# Generated by: tradewarden init
#
# mode decides tools without an explicit rule:
#   default-deny  -> block (recommended)
#   default-allow -> allow
#
# Each tool may have at most one rule. Duplicate rules fail at startup.
mode: default-deny

rules:
  - tool: swap_quote
    allowed: true
    rule_id: allow:swap_quote
    reason: quotes are read-only

  - tool: wallet_derive_address
    allowed: true
    rule_id: allow:wallet_derive_address
    reason: address derivation exposes no key material

  - tool: wallet_sign_message
    allowed: true
    rule_id: allow:wallet_sign_message
    reason: message signing cannot move funds

  - tool: wallet_sign_tx
    allowed: false
    rule_id: deny:wallet_sign_tx
    reason: transaction signing disabled until explicitly enabled

  - tool: swap_execute
    allowed: false
    rule_id: deny:swap_execute
    reason: execution disabled until explicitly enabled
`
}
