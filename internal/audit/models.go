package audit

import "time"

// Action tags the kind of privileged operation a record describes.
//
// The vocabulary is open: operator workflows add new tags over time, and
// unknown tags must list, filter, and render like any other. Nothing in this
// package switches on the tag.
type Action string

const (
	ActionVerifyUser         Action = "VERIFY_USER"
	ActionRejectUser         Action = "REJECT_USER"
	ActionBanUser            Action = "BAN_USER"
	ActionUnbanUser          Action = "UNBAN_USER"
	ActionVerifyEquipment    Action = "VERIFY_EQUIPMENT"
	ActionRejectEquipment    Action = "REJECT_EQUIPMENT"
	ActionForceExpireRequest Action = "FORCE_EXPIRE_REQUEST"
	ActionCancelRequest      Action = "CANCEL_REQUEST"
	ActionMarketingExport    Action = "MARKETING_EXPORT"
	ActionSendNotification   Action = "SEND_NOTIFICATION"
)

// ActionAll is the filter sentinel matching every action.
const ActionAll = "all"

// Record is one immutable fact about a privileged operator action. Once a
// record is appended it is never updated or deleted.
type Record struct {
	ID         string `json:"id"`
	ActorID    string `json:"actorId"`
	ActorLabel string `json:"actorLabel"`
	Action     Action `json:"action"`

	// Target of the action, when a single entity applies.
	TargetID    string `json:"targetId,omitempty"`
	TargetLabel string `json:"targetLabel,omitempty"`

	// CollectionName names the resource group for bulk effects with no
	// single target entity (e.g. exports).
	CollectionName string `json:"collectionName,omitempty"`

	Status string `json:"status,omitempty"`
	Reason string `json:"reason,omitempty"`
	Notes  string `json:"notes,omitempty"`

	// RecordCount is the cardinality of a bulk effect; zero means not a
	// bulk action.
	RecordCount int `json:"recordCount,omitempty"`

	// Filters reproduces the criteria that selected a bulk effect's rows.
	Filters map[string]string `json:"filters,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// RecordInput is what action emitters supply; the store assigns ID and, when
// Timestamp is zero, the write time.
type RecordInput struct {
	ActorID        string            `json:"actorId"`
	ActorLabel     string            `json:"actorLabel"`
	Action         Action            `json:"action"`
	TargetID       string            `json:"targetId,omitempty"`
	TargetLabel    string            `json:"targetLabel,omitempty"`
	CollectionName string            `json:"collectionName,omitempty"`
	Status         string            `json:"status,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	RecordCount    int               `json:"recordCount,omitempty"`
	Filters        map[string]string `json:"filters,omitempty"`
	Timestamp      time.Time         `json:"timestamp,omitzero"`
}
