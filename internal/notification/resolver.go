package notification

import (
	"strings"

	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
)

// MaxTitleLen and MaxBodyLen bound operator input; the delivery transport
// truncates anything longer, so reject it up front instead.
const (
	MaxTitleLen = 200
	MaxBodyLen  = 2000
)

// Resolve validates a request and maps it to a concrete audience.
// Validation is authoritative and happens before any I/O: a request that
// fails here must never reach the gateway.
func Resolve(req Request) (Audience, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" || body == "" {
		return Audience{}, dErrors.New(dErrors.CodeBadRequest, "missing title or body")
	}
	if len(title) > MaxTitleLen {
		return Audience{}, dErrors.New(dErrors.CodeBadRequest, "title too long")
	}
	if len(body) > MaxBodyLen {
		return Audience{}, dErrors.New(dErrors.CodeBadRequest, "body too long")
	}

	switch TargetType(strings.ToLower(string(req.TargetType))) {
	case TargetAll:
		return Audience{Type: TargetAll}, nil
	case TargetTopic:
		topic := strings.TrimSpace(req.Topic)
		if topic == "" {
			return Audience{}, dErrors.New(dErrors.CodeBadRequest, "missing topic")
		}
		return Audience{Type: TargetTopic, Topic: topic}, nil
	default:
		return Audience{}, dErrors.New(dErrors.CodeBadRequest, "unknown target type")
	}
}
