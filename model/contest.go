package model

import "mime/multipart"

type ListContestsParam struct {
	CommonParam `json:"-"`
}

type ContestParam struct {
	CommonParam `json:"-"`

	ContestID string `uri:"contest_id" binding:"required,uuid"`
}

type ContestTasksParam struct {
	CommonParam `json:"-"`

	ContestID string   `uri:"contest_id" binding:"required,uuid"`
	Status    []string `form:"status" binding:"omitempty,dive,uuid"`
}

type ExportContestParam struct {
	CommonParam `json:"-"`

	ContestID string   `uri:"contest_id" binding:"required,uuid"`
	Status    []string `form:"status" binding:"omitempty,dive,uuid"`
	Format    string   `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

type CreateTaskParam struct {
	CommonParam `json:"-"`

	ContestID string `json:"contest_id" binding:"required,uuid"`
}

type QuitTaskParam struct {
	CommonParam `json:"-"`

	TaskID string `uri:"task_id" binding:"required,uuid"`
}

type SubmitSolutionParam struct {
	CommonParam `json:"-"`

	TaskID       string                `form:"task_id" binding:"required,uuid"`
	SolutionLink string                `form:"solution_link" binding:"omitempty,url,max=2048"`
	Comments     string                `form:"comments" binding:"max=4096"`
	SolutionFile *multipart.FileHeader `form:"solution_file" header:"-" binding:"required"`
}

type UserHistoryParam struct {
	CommonParam `json:"-"`

	// TargetUserID 为空时查询调用方本人
	TargetUserID string `uri:"user_id" binding:"omitempty,uuid"`
}

type ConfigsParam struct {
	CommonParam `json:"-"`

	Type string `uri:"type" binding:"required,max=64"`
}

// ContestItem 比赛列表项
type ContestItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	StatusID   *string `json:"status_id"`
	StatusName *string `json:"status_name"`
	Brief      *string `json:"brief"`
	Category   *string `json:"category"`
	Deadline   *string `json:"deadline"`
	Award      *string `json:"award"`
	Project    *string `json:"project"`
	Profession *string `json:"profession"`
}

// ContestDetails 比赛详情, 附带调用方的报名
type ContestDetails struct {
	ContestItem
	Description    string  `json:"description"`
	Link           *string `json:"link"`
	UserTaskID     *string `json:"user_task_id"`
	UserTaskStatus *string `json:"user_task_status"`
}

// Application 用户在某个比赛下的报名
type Application struct {
	ID           string  `json:"application_id"`
	StatusID     *string `json:"status_id"`
	StatusName   *string `json:"status"`
	SolutionLink *string `json:"solution_link"`
	Comments     *string `json:"comments"`
}

// UserTaskItem 我的报名
type UserTaskItem struct {
	ContestItem
	Application *Application `json:"application"`
}

// HistoryItem 参赛历史, 附件获取失败时 Attachments 为 null
type HistoryItem struct {
	ContestItem
	Application *Application `json:"application"`
	Attachments []Attachment `json:"attachments"`
}

// ContestTaskItem 比赛下的一条报名
type ContestTaskItem struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	StatusID     *string `json:"status_id"`
	StatusName   *string `json:"status_name"`
	ContestID    *string `json:"contest_id"`
	UserID       *string `json:"user_id"`
	SolutionLink *string `json:"solution_link"`
	Comments     *string `json:"comments"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

// CreatedTask 报名成功的返回
type CreatedTask struct {
	TaskID    string `json:"task_id"`
	Status    string `json:"status"`
	ContestID string `json:"contest_id"`
	UserID    string `json:"user_id"`
}

// SolutionResult 提交作品的返回
type SolutionResult struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
