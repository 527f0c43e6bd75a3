package notification

import "time"

// TargetType selects the audience of a dispatch.
type TargetType string

const (
	// TargetAll addresses every registered recipient. The recipient count
	// is unknown until the gateway reports its tally.
	TargetAll TargetType = "all"

	// TargetTopic addresses the subscribers of one named topic.
	TargetTopic TargetType = "topic"
)

// Request is an operator's ephemeral ask to send one message. It is never
// persisted; only the summary of a successful dispatch is.
type Request struct {
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	TargetType TargetType `json:"targetType"`
	Topic      string     `json:"topic,omitempty"`
}

// Audience is the resolved recipient set reference handed to the gateway.
// For TargetAll the topic is empty; for TargetTopic it names the subscriber
// group verbatim (trimmed only, never otherwise normalized).
type Audience struct {
	Type  TargetType
	Topic string
}

// Tally counts per-recipient outcomes of one dispatch as reported by the
// gateway. A tally with Failed > 0 is still a successful dispatch.
type Tally struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// HistoryEntry is the immutable summary of one successful dispatch.
type HistoryEntry struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	TargetType TargetType `json:"targetType"`
	Topic      string     `json:"topic,omitempty"`
	Tally      Tally      `json:"tally"`
	SentAt     time.Time  `json:"sentAt"`
}
