package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/to404hanga/contest_gateway/event"
	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/apierr"
	"github.com/to404hanga/contest_gateway/pkg/configs"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/pkg/raida"
	"github.com/to404hanga/contest_gateway/pkg/rql"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
	"github.com/to404hanga/contest_gateway/service/exporter/factory"
	"github.com/to404hanga/contest_gateway/service/normalizer"
)

// RQL 字段
const (
	fieldProcessID = "process.id"
	fieldStatusID  = "status.id"
	fieldContestID = "custom_fields." + normalizer.FieldContestID
	fieldUserID    = "custom_fields." + normalizer.FieldUserID
)

// 比赛状态键
const (
	contestStatusAcceptanceWorks     = "acceptance_works"
	contestStatusAcceptanceWorksDone = "acceptance_works_done"
	contestStatusVoting              = "voting"
	contestStatusSumResults          = "sum_results"
	contestStatusDone                = "done"
	contestStatusNoWinner            = "no_winner"
)

// 报名状态键
const (
	taskStatusNew       = "new"
	taskStatusApproved  = "approved"
	taskStatusCompleted = "completed"
	taskStatusRejection = "rejection"
)

const defaultNewTaskStatus = "Новая"

type ContestService interface {
	// Archive 归档比赛: 已结束和未选出获胜者
	Archive(ctx context.Context, p *model.CommonParam) ([]model.ContestItem, error)
	// Active 正在收稿的比赛
	Active(ctx context.Context, p *model.CommonParam) ([]model.ContestItem, error)
	// Details 比赛详情与调用方的报名
	Details(ctx context.Context, p *model.CommonParam, contestID string) (*model.ContestDetails, error)
	// MyTasks 调用方未被拒绝的报名, 按比赛逐个查询
	MyTasks(ctx context.Context, p *model.CommonParam) ([]model.UserTaskItem, error)
	// History 已完成的参赛记录及附件
	History(ctx context.Context, p *model.CommonParam, userID string) ([]model.HistoryItem, error)
	// ContestTasks 比赛下指定状态的报名, 默认已通过与已完成
	ContestTasks(ctx context.Context, p *model.CommonParam, contestID string, statusIDs []string) ([]model.ContestTaskItem, error)
	// Export 导出比赛报名
	Export(ctx context.Context, p *model.CommonParam, contestID string, statusIDs []string, typ factory.ExporterType, w io.Writer) error
	// CreateTask 报名比赛
	CreateTask(ctx context.Context, p *model.CommonParam, contestID string) (*model.CreatedTask, error)
	// QuitTask 退出比赛, 报名状态改为拒绝
	QuitTask(ctx context.Context, p *model.CommonParam, taskID string) (*model.Application, error)
	// SubmitSolution 上传作品并把报名状态改为已完成
	SubmitSolution(ctx context.Context, p *model.CommonParam, solution *Solution) (*model.SolutionResult, error)
}

// Solution 提交的作品
type Solution struct {
	TaskID   string
	Filename string
	Content  io.Reader
	Link     string
	Comments string
}

type EventPublisher interface {
	Publish(ctx context.Context, msg *event.ApplicationMessage) error
}

type ContestServiceImpl struct {
	tasks      raida.TaskStore
	configs    configs.Resolver
	normalizer *normalizer.Normalizer
	exporters  *factory.ExporterFactory
	events     EventPublisher
	log        logger.Logger
	now        func() time.Time
}

var _ ContestService = (*ContestServiceImpl)(nil)

func NewContestService(tasks raida.TaskStore, resolver configs.Resolver, n *normalizer.Normalizer, exporters *factory.ExporterFactory, events EventPublisher, log logger.Logger) ContestService {
	return &ContestServiceImpl{
		tasks:      tasks,
		configs:    resolver,
		normalizer: n,
		exporters:  exporters,
		events:     events,
		log:        log,
		now:        time.Now,
	}
}

func scopeOf(p *model.CommonParam) configs.Scope {
	return configs.Scope{
		ProjectID:     p.ProjectID,
		AccountID:     p.AccountID,
		Authorization: p.Authorization,
	}
}

// statusIDs 读取状态集合中的若干键, 一个都没有时视为配置服务故障
func statusIDs(bundle configs.Bundle, name string, keys ...string) (rql.IDs, error) {
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if id := bundle.Get(name, key); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return rql.None(), fmt.Errorf("%w: %s has none of %v", configs.ErrServiceFailure, name, keys)
	}
	return rql.List(ids...), nil
}

func requireValue(bundle configs.Bundle, name, key string) (string, error) {
	v := bundle.Get(name, key)
	if v == "" {
		return "", fmt.Errorf("%w: %s.%s is empty", configs.ErrServiceFailure, name, key)
	}
	return v, nil
}

func (s *ContestServiceImpl) listContests(ctx context.Context, p *model.CommonParam, profile normalizer.Profile, keys ...string) ([]model.ContestItem, error) {
	bundle, err := s.configs.Resolve(ctx, scopeOf(p), configs.NodeID, configs.ContestProcessID, configs.ContestStatusID)
	if err != nil {
		return nil, err
	}
	statuses, err := statusIDs(bundle, configs.ContestStatusID, keys...)
	if err != nil {
		return nil, err
	}
	query, err := rql.Where(fieldProcessID, bundle.Value(configs.ContestProcessID)).
		AndIDs(fieldStatusID, statuses).
		Build()
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListTasks(ctx, bundle.Value(configs.NodeID), query)
	if err != nil {
		return nil, fmt.Errorf("list %s contests: %w", profile, err)
	}
	return s.normalizer.Contests(profile, tasks), nil
}

// Archive 归档比赛
func (s *ContestServiceImpl) Archive(ctx context.Context, p *model.CommonParam) ([]model.ContestItem, error) {
	return s.listContests(ctx, p, normalizer.ProfileArchive, contestStatusDone, contestStatusNoWinner)
}

// Active 正在收稿的比赛
func (s *ContestServiceImpl) Active(ctx context.Context, p *model.CommonParam) ([]model.ContestItem, error) {
	return s.listContests(ctx, p, normalizer.ProfileActive, contestStatusAcceptanceWorks)
}

// getContest 比赛不存在或不属于比赛流程时返回 NOT_FOUND
func (s *ContestServiceImpl) getContest(ctx context.Context, bundle configs.Bundle, contestID string) (*raida.Task, error) {
	contest, err := s.tasks.GetTask(ctx, bundle.Value(configs.NodeID), contestID)
	if upstream.IsNotFound(err) || errors.Is(err, raida.ErrEmptyData) {
		return nil, apierr.NotFound("Конкурс не найден.")
	}
	if err != nil {
		return nil, fmt.Errorf("get contest: %w", err)
	}
	if contest.Process == nil || contest.Process.ID != bundle.Value(configs.ContestProcessID) {
		return nil, apierr.NotFound("Конкурс не найден.")
	}
	return contest, nil
}

// findApplications 参赛申请查询: 报名流程 + 比赛 + 用户 + 状态条件
func (s *ContestServiceImpl) findApplications(ctx context.Context, bundle configs.Bundle, contestID, userID string, status func(*rql.Builder) *rql.Builder) ([]raida.Task, error) {
	b := rql.Where(fieldProcessID, bundle.Value(configs.TaskProcessID)).
		And(fieldContestID, contestID).
		And(fieldUserID, userID)
	query, err := status(b).Build()
	if err != nil {
		return nil, err
	}
	return s.tasks.ListTasks(ctx, bundle.Value(configs.NodeID), query)
}

func notRejected(rejection string) func(*rql.Builder) *rql.Builder {
	return func(b *rql.Builder) *rql.Builder {
		return b.AndNot(fieldStatusID, rejection)
	}
}

func withStatus(statusID string) func(*rql.Builder) *rql.Builder {
	return func(b *rql.Builder) *rql.Builder {
		return b.And(fieldStatusID, statusID)
	}
}

// Details 比赛详情, 匿名请求不查询报名
func (s *ContestServiceImpl) Details(ctx context.Context, p *model.CommonParam, contestID string) (*model.ContestDetails, error) {
	bundle, err := s.configs.Resolve(ctx, scopeOf(p),
		configs.TaskProcessID, configs.NodeID, configs.TaskStatusID, configs.ContestProcessID)
	if err != nil {
		return nil, err
	}
	contest, err := s.getContest(ctx, bundle, contestID)
	if err != nil {
		return nil, err
	}

	var application *model.Application
	if p.UserID != "" {
		rejection, err := requireValue(bundle, configs.TaskStatusID, taskStatusRejection)
		if err != nil {
			return nil, err
		}
		apps, err := s.findApplications(ctx, bundle, contestID, p.UserID, notRejected(rejection))
		if err != nil {
			return nil, fmt.Errorf("find user application: %w", err)
		}
		if len(apps) > 0 {
			application = s.normalizer.Application(apps[0])
		}
	}

	details := s.normalizer.Details(*contest, application)
	return &details, nil
}

// MyTasks 每个比赛一次查询, 没有报名的比赛不出现在结果中
func (s *ContestServiceImpl) MyTasks(ctx context.Context, p *model.CommonParam) ([]model.UserTaskItem, error) {
	bundle, err := s.configs.Resolve(ctx, scopeOf(p),
		configs.NodeID, configs.ContestProcessID, configs.ContestStatusID, configs.TaskStatusID, configs.TaskProcessID)
	if err != nil {
		return nil, err
	}
	statuses, err := statusIDs(bundle, configs.ContestStatusID,
		contestStatusAcceptanceWorks, contestStatusAcceptanceWorksDone, contestStatusVoting, contestStatusSumResults, contestStatusDone)
	if err != nil {
		return nil, err
	}
	rejection, err := requireValue(bundle, configs.TaskStatusID, taskStatusRejection)
	if err != nil {
		return nil, err
	}
	contests, err := s.contestsByStatus(ctx, bundle, statuses)
	if err != nil {
		return nil, err
	}

	items := make([]model.UserTaskItem, 0, len(contests))
	for _, contest := range contests {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		apps, err := s.findApplications(ctx, bundle, contest.ID, p.UserID, notRejected(rejection))
		if err != nil {
			return nil, fmt.Errorf("find application of contest %s: %w", contest.ID, err)
		}
		if len(apps) == 0 {
			continue
		}
		items = append(items, s.normalizer.UserTask(contest, apps[0]))
	}
	return items, nil
}

// History userID 为空时查询调用方本人
func (s *ContestServiceImpl) History(ctx context.Context, p *model.CommonParam, userID string) ([]model.HistoryItem, error) {
	if userID == "" {
		userID = p.UserID
	}
	ctx = logger.ContextWithFields(ctx, logger.String("history_user_id", userID))

	bundle, err := s.configs.Resolve(ctx, scopeOf(p),
		configs.NodeID, configs.ContestProcessID, configs.TaskProcessID, configs.ContestStatusID, configs.TaskStatusID)
	if err != nil {
		return nil, err
	}
	statuses, err := statusIDs(bundle, configs.ContestStatusID, contestStatusDone)
	if err != nil {
		return nil, err
	}
	completed, err := requireValue(bundle, configs.TaskStatusID, taskStatusCompleted)
	if err != nil {
		return nil, err
	}
	contests, err := s.contestsByStatus(ctx, bundle, statuses)
	if err != nil {
		return nil, err
	}

	node := bundle.Value(configs.NodeID)
	items := make([]model.HistoryItem, 0, len(contests))
	for _, contest := range contests {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		apps, err := s.findApplications(ctx, bundle, contest.ID, userID, withStatus(completed))
		if err != nil {
			return nil, fmt.Errorf("find application of contest %s: %w", contest.ID, err)
		}
		if len(apps) == 0 {
			continue
		}
		attachments, err := s.tasks.ListAttachments(ctx, node, apps[0].ID)
		if err != nil {
			s.log.WarnContext(ctx, "list application attachments failed",
				logger.String("application_id", apps[0].ID),
				logger.Error(err))
			attachments = nil
		}
		items = append(items, s.normalizer.History(contest, apps[0], attachments))
	}
	return items, nil
}

func (s *ContestServiceImpl) contestsByStatus(ctx context.Context, bundle configs.Bundle, statuses rql.IDs) ([]raida.Task, error) {
	query, err := rql.Where(fieldProcessID, bundle.Value(configs.ContestProcessID)).
		AndIDs(fieldStatusID, statuses).
		Build()
	if err != nil {
		return nil, err
	}
	contests, err := s.tasks.ListTasks(ctx, bundle.Value(configs.NodeID), query)
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	return contests, nil
}

func (s *ContestServiceImpl) contestTasks(ctx context.Context, p *model.CommonParam, contestID string, statusFilter []string) ([]raida.Task, error) {
	bundle, err := s.configs.Resolve(ctx, scopeOf(p), configs.NodeID, configs.TaskProcessID, configs.TaskStatusID)
	if err != nil {
		return nil, err
	}
	statuses := rql.FromSlice(statusFilter)
	if statuses.Empty() {
		if statuses, err = statusIDs(bundle, configs.TaskStatusID, taskStatusApproved, taskStatusCompleted); err != nil {
			return nil, err
		}
	}
	query, err := rql.Where(fieldProcessID, bundle.Value(configs.TaskProcessID)).
		And(fieldContestID, contestID).
		AndIDs(fieldStatusID, statuses).
		Build()
	if err != nil {
		return nil, apierr.Wrap(err, http.StatusBadRequest, apierr.CodeBadRequest, err.Error())
	}
	tasks, err := s.tasks.ListTasks(ctx, bundle.Value(configs.NodeID), query)
	if err != nil {
		return nil, fmt.Errorf("list contest tasks: %w", err)
	}
	return tasks, nil
}

// ContestTasks 比赛下的报名
func (s *ContestServiceImpl) ContestTasks(ctx context.Context, p *model.CommonParam, contestID string, statusFilter []string) ([]model.ContestTaskItem, error) {
	tasks, err := s.contestTasks(ctx, p, contestID, statusFilter)
	if err != nil {
		return nil, err
	}
	items := make([]model.ContestTaskItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, s.normalizer.ContestTask(t))
	}
	return items, nil
}

// Export 导出比赛报名
func (s *ContestServiceImpl) Export(ctx context.Context, p *model.CommonParam, contestID string, statusFilter []string, typ factory.ExporterType, w io.Writer) error {
	exp := s.exporters.GetExporter(typ)
	if exp == nil {
		return apierr.BadRequest(fmt.Sprintf("unknown export format %q", typ))
	}
	items, err := s.ContestTasks(ctx, p, contestID, statusFilter)
	if err != nil {
		return err
	}
	if err = exp.Export(ctx, items, w); err != nil {
		return fmt.Errorf("export contest tasks: %w", err)
	}
	return nil
}

// CreateTask 已有未被拒绝的报名时返回 ENTITY_EXISTS
func (s *ContestServiceImpl) CreateTask(ctx context.Context, p *model.CommonParam, contestID string) (*model.CreatedTask, error) {
	bundle, err := s.configs.Resolve(ctx, scopeOf(p),
		configs.TaskProcessID, configs.ContestProcessID, configs.NodeID, configs.TaskStatusID)
	if err != nil {
		return nil, err
	}
	newStatus, err := requireValue(bundle, configs.TaskStatusID, taskStatusNew)
	if err != nil {
		return nil, err
	}
	rejection, err := requireValue(bundle, configs.TaskStatusID, taskStatusRejection)
	if err != nil {
		return nil, err
	}

	contest, err := s.getContest(ctx, bundle, contestID)
	if err != nil {
		return nil, err
	}
	apps, err := s.findApplications(ctx, bundle, contestID, p.UserID, notRejected(rejection))
	if err != nil {
		return nil, fmt.Errorf("find user application: %w", err)
	}
	if len(apps) > 0 {
		return nil, apierr.New(http.StatusConflict, apierr.CodeEntityExists, "Задача для участия в конкурсе уже существует.")
	}

	created, err := s.tasks.CreateTask(ctx, bundle.Value(configs.NodeID), &raida.CreateTaskRequest{
		Title:     contest.Title,
		ProcessID: bundle.Value(configs.TaskProcessID),
		StatusID:  newStatus,
		CustomFields: map[string]any{
			normalizer.FieldContestID: contestID,
			normalizer.FieldUserID:    p.UserID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	result := &model.CreatedTask{
		TaskID:    created.ID,
		Status:    defaultNewTaskStatus,
		ContestID: contestID,
		UserID:    p.UserID,
	}
	if created.Status != nil && created.Status.Name != "" {
		result.Status = created.Status.Name
	}
	s.publish(ctx, p, event.ApplicationCreated, created.ID, contestID)
	return result, nil
}

// ownApplication 读取调用方自己的报名, 其他情况一律视为不存在
func (s *ContestServiceImpl) ownApplication(ctx context.Context, bundle configs.Bundle, p *model.CommonParam, taskID string) (*raida.Task, error) {
	task, err := s.tasks.GetTask(ctx, bundle.Value(configs.NodeID), taskID)
	if upstream.IsNotFound(err) || errors.Is(err, raida.ErrEmptyData) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if task.Process == nil || task.Process.ID != bundle.Value(configs.TaskProcessID) {
		return nil, nil
	}
	if owner := normalizer.Extract(*task).Custom(normalizer.FieldUserID); owner == nil || *owner != p.UserID {
		return nil, nil
	}
	return task, nil
}

// QuitTask 退出比赛
func (s *ContestServiceImpl) QuitTask(ctx context.Context, p *model.CommonParam, taskID string) (*model.Application, error) {
	bundle, err := s.configs.Resolve(ctx, scopeOf(p),
		configs.TaskProcessID, configs.ContestProcessID, configs.NodeID, configs.TaskStatusID)
	if err != nil {
		return nil, err
	}
	rejection, err := requireValue(bundle, configs.TaskStatusID, taskStatusRejection)
	if err != nil {
		return nil, err
	}
	task, err := s.ownApplication(ctx, bundle, p, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apierr.NotFound("Заявка на участие не найдена.")
	}

	updated, err := s.tasks.UpdateTask(ctx, bundle.Value(configs.NodeID), taskID, &raida.UpdateTaskRequest{
		StatusID: rejection,
	})
	if err != nil {
		return nil, fmt.Errorf("reject application: %w", err)
	}
	contestID := normalizer.Extract(*task).Custom(normalizer.FieldContestID)
	s.publish(ctx, p, event.ApplicationQuit, taskID, deref(contestID))
	return s.normalizer.Application(*updated), nil
}

// SubmitSolution 已完成返回 TASK_COMPLETED, 不存在或已退出返回 TASK_DOES_NOT_EXIST
func (s *ContestServiceImpl) SubmitSolution(ctx context.Context, p *model.CommonParam, solution *Solution) (*model.SolutionResult, error) {
	bundle, err := s.configs.Resolve(ctx, scopeOf(p),
		configs.TaskProcessID, configs.ContestProcessID, configs.NodeID, configs.TaskStatusID)
	if err != nil {
		return nil, err
	}
	completed, err := requireValue(bundle, configs.TaskStatusID, taskStatusCompleted)
	if err != nil {
		return nil, err
	}
	rejection := bundle.Get(configs.TaskStatusID, taskStatusRejection)

	task, err := s.ownApplication(ctx, bundle, p, solution.TaskID)
	if err != nil {
		return nil, err
	}
	f := fieldsOf(task)
	switch {
	case task == nil || (rejection != "" && f.StatusID != nil && *f.StatusID == rejection):
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeTaskDoesNotExist, "Заявка на участие не найдена.")
	case f.StatusID != nil && *f.StatusID == completed:
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeTaskCompleted, "Решение уже было отправлено.")
	}

	node := bundle.Value(configs.NodeID)
	if _, err = s.tasks.UploadAttachment(ctx, node, solution.TaskID, solution.Filename, solution.Content); err != nil {
		return nil, fmt.Errorf("upload solution: %w", err)
	}

	customFields := map[string]any{}
	if solution.Link != "" {
		customFields[normalizer.FieldSolutionLink] = solution.Link
	}
	if solution.Comments != "" {
		customFields[normalizer.FieldComments] = solution.Comments
	}
	if _, err = s.tasks.UpdateTask(ctx, node, solution.TaskID, &raida.UpdateTaskRequest{
		StatusID:     completed,
		CustomFields: customFields,
	}); err != nil {
		return nil, fmt.Errorf("complete application: %w", err)
	}

	s.publish(ctx, p, event.ApplicationSubmitted, solution.TaskID, deref(f.Custom(normalizer.FieldContestID)))
	return &model.SolutionResult{
		Code:    apierr.CodeOK,
		Message: "Решение успешно отправлено",
	}, nil
}

func fieldsOf(task *raida.Task) normalizer.Fields {
	if task == nil {
		return normalizer.Fields{}
	}
	return normalizer.Extract(*task)
}

// publish 事件发送失败只记录日志, 不影响请求结果
func (s *ContestServiceImpl) publish(ctx context.Context, p *model.CommonParam, action event.ApplicationAction, applicationID, contestID string) {
	err := s.events.Publish(ctx, &event.ApplicationMessage{
		Action:        action,
		ApplicationID: applicationID,
		ContestID:     contestID,
		UserID:        p.UserID,
		ProjectID:     p.ProjectID,
		OccurredAt:    s.now(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.WarnContext(ctx, "publish application event failed",
			logger.String("action", string(action)),
			logger.String("application_id", applicationID),
			logger.Error(err))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
