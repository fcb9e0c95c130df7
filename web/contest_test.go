package web

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/apierr"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/service"
	"github.com/to404hanga/contest_gateway/service/exporter/factory"
	cgjwt "github.com/to404hanga/contest_gateway/web/jwt"
	"github.com/to404hanga/contest_gateway/web/middleware"
)

const (
	testSecret    = "test-secret"
	testProjectID = "5c6d3c2e-8a2f-4b7e-9d61-0f3f6a1b2c3d"
	testContestID = "0b8f1a52-3c7d-4e2a-8f6b-9a1c2d3e4f50"
	testTaskID    = "7e9d2c41-6b5a-4f3e-8d2c-1b0a9f8e7d6c"
	testUserID    = "u-42"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	gin.DisableBindValidation()
	os.Exit(m.Run())
}

type fakeContestService struct {
	service.ContestService

	active     []model.ContestItem
	details    *model.ContestDetails
	err        error
	gotParam   *model.CommonParam
	gotStatus  []string
	gotUser    string
	gotSubmit  *service.Solution
	submitBody string
}

func (f *fakeContestService) Active(_ context.Context, p *model.CommonParam) ([]model.ContestItem, error) {
	f.gotParam = p
	return f.active, f.err
}

func (f *fakeContestService) Details(_ context.Context, p *model.CommonParam, _ string) (*model.ContestDetails, error) {
	f.gotParam = p
	return f.details, f.err
}

func (f *fakeContestService) ContestTasks(_ context.Context, p *model.CommonParam, _ string, status []string) ([]model.ContestTaskItem, error) {
	f.gotParam = p
	f.gotStatus = status
	return nil, f.err
}

func (f *fakeContestService) Export(_ context.Context, _ *model.CommonParam, _ string, _ []string, _ factory.ExporterType, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "a,b\n")
	return err
}

func (f *fakeContestService) CreateTask(_ context.Context, p *model.CommonParam, contestID string) (*model.CreatedTask, error) {
	f.gotParam = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.CreatedTask{TaskID: testTaskID, Status: "Новая", ContestID: contestID, UserID: p.UserID}, nil
}

func (f *fakeContestService) History(_ context.Context, p *model.CommonParam, userID string) ([]model.HistoryItem, error) {
	f.gotParam = p
	f.gotUser = userID
	return []model.HistoryItem{{ContestItem: model.ContestItem{ID: "c-1"}}}, f.err
}

func (f *fakeContestService) SubmitSolution(_ context.Context, p *model.CommonParam, s *service.Solution) (*model.SolutionResult, error) {
	f.gotParam = p
	f.gotSubmit = s
	data, _ := io.ReadAll(s.Content)
	f.submitBody = string(data)
	return &model.SolutionResult{Code: apierr.CodeOK, Message: "Решение успешно отправлено"}, f.err
}

func newTestEngine(t *testing.T, svc service.ContestService) *gin.Engine {
	t.Helper()
	jwtHandler, err := cgjwt.NewRedisJWTHandler(nil, "HS256", testSecret)
	require.NoError(t, err)

	log := logger.NewNop()
	engine := gin.New()
	engine.Use(gintool.ContextMiddleware(gintool.DefaultAPIVersion))
	NewContestHandler(svc, middleware.NewJWTMiddlewareBuilder(jwtHandler, log), log).Register(engine)
	return engine
}

func signToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": map[string]any{"user_id": userID},
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func detailCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	detail, ok := decode(t, rec)["detail"].(map[string]any)
	require.True(t, ok)
	code, _ := detail["code"].(string)
	return code
}

func TestContestHandler_ActiveContests(t *testing.T) {
	title := "Лучший проект"
	svc := &fakeContestService{active: []model.ContestItem{{ID: "c-1", Title: title}, {ID: "c-2"}}}
	engine := newTestEngine(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/contests/active/", nil)
	req.Header.Set("Project-ID", testProjectID)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	body := decode(t, rec)
	info := body["info"].(map[string]any)
	assert.EqualValues(t, 2, info["count"])
	assert.Equal(t, gintool.DefaultAPIVersion, info["api_version"])
	assert.Equal(t, testProjectID, svc.gotParam.ProjectID)
	assert.Empty(t, svc.gotParam.UserID)
}

func TestContestHandler_Headers(t *testing.T) {
	testCases := []struct {
		name      string
		projectID string
		token     string
		wantCode  int
		wantError string
	}{
		{name: "missing project", wantCode: http.StatusUnauthorized, wantError: apierr.CodeBadRequest},
		{name: "invalid project", projectID: "not-a-uuid", wantCode: http.StatusUnauthorized, wantError: apierr.CodeBadRequest},
		{name: "broken token", projectID: testProjectID, token: "Bearer abc", wantCode: http.StatusUnauthorized, wantError: apierr.CodeTokenIncorrect},
		{name: "expired token", projectID: testProjectID, token: "Bearer " + signToken(t, testUserID, time.Now().Add(-time.Hour)), wantCode: http.StatusUnauthorized, wantError: apierr.CodeTokenExpired},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestEngine(t, &fakeContestService{})
			req := httptest.NewRequest(http.MethodGet, "/api/contests/active/", nil)
			if tc.projectID != "" {
				req.Header.Set("Project-ID", tc.projectID)
			}
			if tc.token != "" {
				req.Header.Set("Authorization", tc.token)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantError, detailCode(t, rec))
		})
	}
}

func TestContestHandler_ContestDetails_NotFound(t *testing.T) {
	engine := newTestEngine(t, &fakeContestService{err: apierr.NotFound("Конкурс не найден.")})

	req := httptest.NewRequest(http.MethodGet, "/api/contests/"+testContestID+"/", nil)
	req.Header.Set("Project-ID", testProjectID)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierr.CodeNotFound, detailCode(t, rec))
}

func TestContestHandler_ContestDetails_InvalidID(t *testing.T) {
	engine := newTestEngine(t, &fakeContestService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contests/123/", nil)
	req.Header.Set("Project-ID", testProjectID)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierr.CodeBadRequest, detailCode(t, rec))
}

func TestContestHandler_ContestTasks_StatusFilter(t *testing.T) {
	svc := &fakeContestService{}
	engine := newTestEngine(t, svc)

	status := "2f1e0d9c-8b7a-4654-9321-0fedcba98765"
	req := httptest.NewRequest(http.MethodGet, "/api/contests/"+testContestID+"/task/?status="+status, nil)
	req.Header.Set("Project-ID", testProjectID)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{status}, svc.gotStatus)
	assert.EqualValues(t, 0, decode(t, rec)["info"].(map[string]any)["count"])
}

func TestContestHandler_Export(t *testing.T) {
	engine := newTestEngine(t, &fakeContestService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contests/"+testContestID+"/task/export/?format=csv", nil)
	req.Header.Set("Project-ID", testProjectID)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a,b\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.Equal(t, factory.ExporterContentTypeMap[factory.CSVExporter], rec.Header().Get("Content-Type"))
}

func TestContestHandler_CreateTask(t *testing.T) {
	svc := &fakeContestService{}
	engine := newTestEngine(t, svc)

	newRequest := func(token string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/contests/user/my/task/",
			strings.NewReader(`{"contest_id":"`+testContestID+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Project-ID", testProjectID)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, newRequest(""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apierr.CodeTokenIncorrect, detailCode(t, rec))

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, newRequest(signToken(t, testUserID, time.Now().Add(time.Hour))))
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, testTaskID, data["task_id"])
	assert.Equal(t, testUserID, data["user_id"])
	assert.Equal(t, testUserID, svc.gotParam.UserID)

	svc.err = apierr.New(http.StatusConflict, apierr.CodeEntityExists, "Задача для участия в конкурсе уже существует.")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, newRequest(signToken(t, testUserID, time.Now().Add(time.Hour))))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apierr.CodeEntityExists, detailCode(t, rec))
}

func TestContestHandler_UserHistory(t *testing.T) {
	svc := &fakeContestService{}
	engine := newTestEngine(t, svc)
	token := "Bearer " + signToken(t, testUserID, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/contests/user/my/history/", nil)
	req.Header.Set("Project-ID", testProjectID)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.gotUser)

	other := "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	req = httptest.NewRequest(http.MethodGet, "/api/contests/user/"+other+"/history/", nil)
	req.Header.Set("Project-ID", testProjectID)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, other, svc.gotUser)
}

func TestContestHandler_SubmitSolution(t *testing.T) {
	svc := &fakeContestService{}
	engine := newTestEngine(t, svc)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("task_id", testTaskID))
	require.NoError(t, w.WriteField("comments", "готово"))
	part, err := w.CreateFormFile("solution_file", "work.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("solution"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/contests/user/my/solution/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Project-ID", testProjectID)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testUserID, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.gotSubmit)
	assert.Equal(t, testTaskID, svc.gotSubmit.TaskID)
	assert.Equal(t, "work.txt", svc.gotSubmit.Filename)
	assert.Equal(t, "готово", svc.gotSubmit.Comments)
	assert.Equal(t, "solution", svc.submitBody)
}
