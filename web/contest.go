package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/constants"
	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/service"
	"github.com/to404hanga/contest_gateway/service/exporter/factory"
	"github.com/to404hanga/contest_gateway/web/middleware"
)

type ContestHandler struct {
	contestSvc service.ContestService
	jwtBuilder *middleware.JWTMiddlewareBuilder
	log        logger.Logger
}

var _ Handler = (*ContestHandler)(nil)

func NewContestHandler(contestSvc service.ContestService, jwtBuilder *middleware.JWTMiddlewareBuilder, log logger.Logger) *ContestHandler {
	return &ContestHandler{
		contestSvc: contestSvc,
		jwtBuilder: jwtBuilder,
		log:        log,
	}
}

func (h *ContestHandler) Register(r *gin.Engine) {
	optional, required := h.jwtBuilder.Optional(), h.jwtBuilder.Required()
	api := r.Group(constants.APIPrefix)

	api.GET(constants.ActiveContestsPath, optional, gintool.WrapHandler(h.ActiveContests, h.log))
	api.GET(constants.ArchiveContestsPath, optional, gintool.WrapHandler(h.ArchiveContests, h.log))
	api.GET(constants.ContestDetailsPath, optional, gintool.WrapHandler(h.ContestDetails, h.log))
	api.GET(constants.ContestTasksPath, optional, gintool.WrapHandler(h.ContestTasks, h.log))
	api.GET(constants.ExportContestPath, optional, gintool.WrapHandler(h.ExportContestTasks, h.log))

	api.POST(constants.CreateUserTaskPath, required, gintool.WrapHandler(h.CreateTask, h.log))
	api.DELETE(constants.QuitUserTaskPath, required, gintool.WrapHandler(h.QuitTask, h.log))
	api.POST(constants.SubmitSolutionPath, required, gintool.WrapHandler(h.SubmitSolution, h.log))
	api.GET(constants.UserTasksPath, required, gintool.WrapHandler(h.UserTasks, h.log))
	api.GET(constants.UserHistoryPath, required, gintool.WrapHandler(h.UserHistory, h.log))
	api.GET(constants.OtherUserHistoryPath, required, gintool.WrapHandler(h.UserHistory, h.log))
}

// fail 写出错误信封, 5xx 记为 error, 其余记为 warn
func (h *ContestHandler) fail(ctx context.Context, c *gin.Context, op string, err error) {
	apiErr := gintool.Abort(c, err)
	fields := []logger.Field{
		logger.Int("status", apiErr.Status),
		logger.String("code", apiErr.Code),
		logger.Error(err),
	}
	if apiErr.Status >= http.StatusInternalServerError {
		h.log.ErrorContext(ctx, op+" failed", fields...)
		return
	}
	h.log.WarnContext(ctx, op+" rejected", fields...)
}

func (h *ContestHandler) ActiveContests(c *gin.Context, param *model.ListContestsParam) {
	ctx := c.Request.Context()
	items, err := h.contestSvc.Active(ctx, &param.CommonParam)
	if err != nil {
		h.fail(ctx, c, "ActiveContests", err)
		return
	}
	gintool.List(c, items)
}

func (h *ContestHandler) ArchiveContests(c *gin.Context, param *model.ListContestsParam) {
	ctx := c.Request.Context()
	items, err := h.contestSvc.Archive(ctx, &param.CommonParam)
	if err != nil {
		h.fail(ctx, c, "ArchiveContests", err)
		return
	}
	gintool.List(c, items)
}

func (h *ContestHandler) ContestDetails(c *gin.Context, param *model.ContestParam) {
	ctx := logger.ContextWithFields(c.Request.Context(),
		logger.String("contest_id", param.ContestID))

	details, err := h.contestSvc.Details(ctx, &param.CommonParam, param.ContestID)
	if err != nil {
		h.fail(ctx, c, "ContestDetails", err)
		return
	}
	gintool.OK(c, http.StatusOK, details)
}

func (h *ContestHandler) ContestTasks(c *gin.Context, param *model.ContestTasksParam) {
	ctx := logger.ContextWithFields(c.Request.Context(),
		logger.String("contest_id", param.ContestID),
		logger.Strings("status", param.Status))

	items, err := h.contestSvc.ContestTasks(ctx, &param.CommonParam, param.ContestID, param.Status)
	if err != nil {
		h.fail(ctx, c, "ContestTasks", err)
		return
	}
	gintool.List(c, items)
}

// ExportContestTasks 先写入缓冲区, 导出失败时仍能返回错误信封
func (h *ContestHandler) ExportContestTasks(c *gin.Context, param *model.ExportContestParam) {
	exporterType := factory.ExporterType(param.Format)
	if exporterType == "" {
		exporterType = factory.CSVExporter
	}
	ctx := logger.ContextWithFields(c.Request.Context(),
		logger.String("contest_id", param.ContestID),
		logger.String("format", string(exporterType)))

	var buf bytes.Buffer
	if err := h.contestSvc.Export(ctx, &param.CommonParam, param.ContestID, param.Status, exporterType, &buf); err != nil {
		h.fail(ctx, c, "ExportContestTasks", err)
		return
	}

	filename := fmt.Sprintf("contest_%s_applications%s", param.ContestID, factory.ExporterSuffixMap[exporterType])
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, factory.ExporterContentTypeMap[exporterType], buf.Bytes())
}

func (h *ContestHandler) CreateTask(c *gin.Context, param *model.CreateTaskParam) {
	ctx := logger.ContextWithFields(c.Request.Context(),
		logger.String("contest_id", param.ContestID))

	created, err := h.contestSvc.CreateTask(ctx, &param.CommonParam, param.ContestID)
	if err != nil {
		h.fail(ctx, c, "CreateTask", err)
		return
	}
	h.log.InfoContext(ctx, "application created", logger.String("task_id", created.TaskID))
	gintool.OK(c, http.StatusCreated, created)
}

func (h *ContestHandler) QuitTask(c *gin.Context, param *model.QuitTaskParam) {
	ctx := logger.ContextWithFields(c.Request.Context(),
		logger.String("task_id", param.TaskID))

	application, err := h.contestSvc.QuitTask(ctx, &param.CommonParam, param.TaskID)
	if err != nil {
		h.fail(ctx, c, "QuitTask", err)
		return
	}
	h.log.InfoContext(ctx, "application rejected by participant")
	gintool.OK(c, http.StatusOK, application)
}

func (h *ContestHandler) SubmitSolution(c *gin.Context, param *model.SubmitSolutionParam) {
	ctx := logger.ContextWithFields(c.Request.Context(),
		logger.String("task_id", param.TaskID),
		logger.String("filename", param.SolutionFile.Filename),
		logger.Int64("size", param.SolutionFile.Size))

	file, err := param.SolutionFile.Open()
	if err != nil {
		h.fail(ctx, c, "SubmitSolution", err)
		return
	}
	defer file.Close()

	result, err := h.contestSvc.SubmitSolution(ctx, &param.CommonParam, &service.Solution{
		TaskID:   param.TaskID,
		Filename: param.SolutionFile.Filename,
		Content:  file,
		Link:     param.SolutionLink,
		Comments: param.Comments,
	})
	if err != nil {
		h.fail(ctx, c, "SubmitSolution", err)
		return
	}
	gintool.OK(c, http.StatusOK, result)
}

func (h *ContestHandler) UserTasks(c *gin.Context, param *model.ListContestsParam) {
	ctx := c.Request.Context()
	items, err := h.contestSvc.MyTasks(ctx, &param.CommonParam)
	if err != nil {
		h.fail(ctx, c, "UserTasks", err)
		return
	}
	gintool.List(c, items)
}

// UserHistory 同时服务本人与指定用户的参赛历史
func (h *ContestHandler) UserHistory(c *gin.Context, param *model.UserHistoryParam) {
	ctx := c.Request.Context()
	items, err := h.contestSvc.History(ctx, &param.CommonParam, param.TargetUserID)
	if err != nil {
		h.fail(ctx, c, "UserHistory", err)
		return
	}
	gintool.List(c, items)
}
