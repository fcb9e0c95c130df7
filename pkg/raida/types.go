package raida

type Status struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       *string `json:"color,omitempty"`
	Description string  `json:"description,omitempty"`
}

type Process struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	NodeID string `json:"node_id"`
}

type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
}

// Task 上游任务记录, 比赛与参赛申请都是 Task
type Task struct {
	ID           string         `json:"id"`
	Key          string         `json:"key"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Process      *Process       `json:"process"`
	Status       *Status        `json:"status"`
	CustomFields map[string]any `json:"custom_fields"`
	Attachments  []Attachment   `json:"attachments"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    *string        `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	ProcessID    string         `json:"process_id"`
	StatusID     string         `json:"status_id"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

type UpdateTaskRequest struct {
	StatusID     string         `json:"status_id,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}
