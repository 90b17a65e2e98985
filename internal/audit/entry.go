package audit

// Decision values recorded per call attempt. Authentication rejections get
// their own value: they happen before the pipeline and must never read as
// policy blocks.
const (
	DecisionAllow      = "allow"
	DecisionBlock      = "block"
	DecisionAuthReject = "auth_reject"
)

// Entry is one line in the hash-chained JSONL audit log: one per call
// attempt, carrying the final decision and non-secret context only. All
// fields are scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp  string `json:"ts"`
	CallID     string `json:"call_id"`
	Tool       string `json:"tool"`
	Kind       string `json:"kind,omitempty"`
	Decision   string `json:"decision"`
	Stage      string `json:"stage,omitempty"`
	Reason     string `json:"reason,omitempty"`
	RuleID     string `json:"rule_id,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
	TradeValue string `json:"trade_value,omitempty"`
	Network    string `json:"network,omitempty"`
	PolicyHash string `json:"policy_hash,omitempty"`
	PrevHash   string `json:"prev_hash"`
}
