package event

import (
	"time"

	json "github.com/bytedance/sonic"
)

const ApplicationTopic = "contest_application_topic"

// ApplicationAction 报名生命周期中的动作
type ApplicationAction string

const (
	ApplicationCreated   ApplicationAction = "created"
	ApplicationQuit      ApplicationAction = "quit"
	ApplicationSubmitted ApplicationAction = "submitted"
)

type ApplicationMessage struct {
	Action        ApplicationAction `json:"action"`
	ApplicationID string            `json:"application_id"`
	ContestID     string            `json:"contest_id,omitempty"`
	UserID        string            `json:"user_id"`
	ProjectID     string            `json:"project_id"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func (m *ApplicationMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Key 同一报名的消息落在同一分区
func (m *ApplicationMessage) Key() string {
	return m.ApplicationID
}
