package normalizer

import (
	"strconv"
	"strings"

	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/raida"
	"golang.org/x/text/language"
)

// 上游任务的自定义字段
const (
	FieldDeadline     = "cf_deadline"
	FieldAward        = "cf_award"
	FieldBrief        = "cf_brief"
	FieldCategory     = "cf_konkurs_category"
	FieldProfession   = "cf_profession"
	FieldProjects     = "cf_projects"
	FieldContestLink  = "cf_konkurs_link"
	FieldContestID    = "cf_konkurs_id"
	FieldUserID       = "cf_userid"
	FieldSolutionLink = "cf_solution_link"
	FieldComments     = "cf_comments"
)

// Profile 每个接口各自的输出形态
type Profile string

const (
	ProfileArchive      Profile = "archive"
	ProfileActive       Profile = "active"
	ProfileDetails      Profile = "details"
	ProfileMyTasks      Profile = "my_tasks"
	ProfileHistory      Profile = "history"
	ProfileContestTasks Profile = "contest_tasks"
)

// Fields 从上游任务中提取的扁平字段, 缺失或空白的值为 nil
type Fields struct {
	ID          string
	Title       string
	Description string
	StatusID    *string
	StatusName  *string
	CreatedAt   *string
	UpdatedAt   *string
	custom      map[string]*string
}

// Custom 读取自定义字段
func (f Fields) Custom(name string) *string {
	return f.custom[name]
}

// Extract 提取任务字段, 不会因缺少 status 或 custom_fields 而失败
func Extract(task raida.Task) Fields {
	f := Fields{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedAt:   nonBlank(task.CreatedAt),
		custom:      make(map[string]*string, len(task.CustomFields)),
	}
	if task.Status != nil {
		f.StatusID = nonBlank(task.Status.ID)
		f.StatusName = nonBlank(task.Status.Name)
	}
	if task.UpdatedAt != nil {
		f.UpdatedAt = nonBlank(*task.UpdatedAt)
	}
	for k, v := range task.CustomFields {
		if s, ok := scalar(v); ok {
			f.custom[k] = nonBlank(s)
		}
	}
	return f
}

func nonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func scalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}

type Normalizer struct {
	lang    language.Tag
	formats map[Profile]string
}

// New lang 为空时使用俄语; formats 覆盖各接口的日期格式
func New(lang string, formats map[Profile]string) *Normalizer {
	tag := language.Russian
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	}
	n := &Normalizer{
		lang: tag,
		formats: map[Profile]string{
			ProfileArchive:      DefaultDateFormat,
			ProfileActive:       DefaultDateFormat,
			ProfileDetails:      VerboseDateFormat,
			ProfileMyTasks:      DefaultDateFormat,
			ProfileHistory:      DefaultDateFormat,
			ProfileContestTasks: DefaultDateFormat,
		},
	}
	for p, f := range formats {
		if f != "" {
			n.formats[p] = f
		}
	}
	return n
}

// Date 按接口的日期格式转换
func (n *Normalizer) Date(profile Profile, raw *string) *string {
	format, ok := n.formats[profile]
	if !ok {
		format = DefaultDateFormat
	}
	return ConvertDate(raw, format, n.lang)
}

// ContestItem 比赛列表项
func (n *Normalizer) ContestItem(profile Profile, task raida.Task) model.ContestItem {
	return n.contestItem(profile, Extract(task))
}

func (n *Normalizer) contestItem(profile Profile, f Fields) model.ContestItem {
	return model.ContestItem{
		ID:         f.ID,
		Title:      f.Title,
		StatusID:   f.StatusID,
		StatusName: f.StatusName,
		Brief:      f.Custom(FieldBrief),
		Category:   f.Custom(FieldCategory),
		Deadline:   n.Date(profile, f.Custom(FieldDeadline)),
		Award:      f.Custom(FieldAward),
		Project:    f.Custom(FieldProjects),
		Profession: f.Custom(FieldProfession),
	}
}

// Contests 批量转换比赛列表
func (n *Normalizer) Contests(profile Profile, tasks []raida.Task) []model.ContestItem {
	items := make([]model.ContestItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, n.ContestItem(profile, t))
	}
	return items
}

// Details 比赛详情, application 为 nil 表示调用方未报名
func (n *Normalizer) Details(task raida.Task, application *model.Application) model.ContestDetails {
	f := Extract(task)
	d := model.ContestDetails{
		ContestItem: n.contestItem(ProfileDetails, f),
		Description: f.Description,
		Link:        f.Custom(FieldContestLink),
	}
	if application != nil {
		d.UserTaskID = &application.ID
		d.UserTaskStatus = application.StatusName
	}
	return d
}

// Application 参赛申请
func (n *Normalizer) Application(task raida.Task) *model.Application {
	f := Extract(task)
	return &model.Application{
		ID:           f.ID,
		StatusID:     f.StatusID,
		StatusName:   f.StatusName,
		SolutionLink: f.Custom(FieldSolutionLink),
		Comments:     f.Custom(FieldComments),
	}
}

// UserTask 我的报名中的一行
func (n *Normalizer) UserTask(contest raida.Task, application raida.Task) model.UserTaskItem {
	return model.UserTaskItem{
		ContestItem: n.ContestItem(ProfileMyTasks, contest),
		Application: n.Application(application),
	}
}

// History 参赛历史中的一行, attachments 为 nil 时输出 null
func (n *Normalizer) History(contest raida.Task, application raida.Task, attachments []raida.Attachment) model.HistoryItem {
	return model.HistoryItem{
		ContestItem: n.ContestItem(ProfileHistory, contest),
		Application: n.Application(application),
		Attachments: Attachments(attachments),
	}
}

// ContestTask 比赛下的一条报名
func (n *Normalizer) ContestTask(task raida.Task) model.ContestTaskItem {
	f := Extract(task)
	return model.ContestTaskItem{
		ID:           f.ID,
		Title:        f.Title,
		StatusID:     f.StatusID,
		StatusName:   f.StatusName,
		ContestID:    f.Custom(FieldContestID),
		UserID:       f.Custom(FieldUserID),
		SolutionLink: f.Custom(FieldSolutionLink),
		Comments:     f.Custom(FieldComments),
		CreatedAt:    n.Date(ProfileContestTasks, f.CreatedAt),
		UpdatedAt:    n.Date(ProfileContestTasks, f.UpdatedAt),
	}
}

// Attachments nil 保持为 nil, 空列表输出 []
func Attachments(in []raida.Attachment) []model.Attachment {
	if in == nil {
		return nil
	}
	out := make([]model.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, model.Attachment{
			ID:          a.ID,
			Name:        a.Name,
			URL:         a.URL,
			Size:        a.Size,
			ContentType: a.ContentType,
		})
	}
	return out
}
