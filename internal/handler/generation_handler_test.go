package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	internalmiddleware "github.com/noah-isme/uni-timetable-api/internal/middleware"
	"github.com/noah-isme/uni-timetable-api/internal/models"
)

type generationManagerMock struct {
	captured dto.GenerateTimetableRequest
}

func (m *generationManagerMock) CreateJob(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationJobResponse, error) {
	m.captured = req
	return &dto.GenerationJobResponse{ID: "job-1", SemesterID: req.SemesterID, Status: models.GenerationPending}, nil
}

func (m *generationManagerMock) GetJob(ctx context.Context, id string) (*dto.GenerationJobResponse, error) {
	return &dto.GenerationJobResponse{ID: id, Status: models.GenerationCompleted}, nil
}

func (m *generationManagerMock) GetResult(ctx context.Context, id string) (*dto.GenerationRunResult, error) {
	return &dto.GenerationRunResult{JobID: id, Status: models.GenerationCompleted, EntriesCreated: 3}, nil
}

func (m *generationManagerMock) ListJobs(ctx context.Context, semesterID string, limit int) ([]dto.GenerationJobResponse, error) {
	return []dto.GenerationJobResponse{{ID: "job-1", SemesterID: semesterID}}, nil
}

func validGenerationPayload() []byte {
	return []byte(`{"semesterId":"sem1","strategy":"rooms","clearExisting":true,"timeLimitSeconds":30}`)
}

func TestGenerateAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &generationManagerMock{}
	handler := &GenerationHandler{service: mockSvc}
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader(validGenerationPayload()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "sem1", mockSvc.captured.SemesterID)
	require.Equal(t, models.StrategyRooms, mockSvc.captured.Strategy)
	require.True(t, mockSvc.captured.ClearExisting)
}

func TestGenerateMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &GenerationHandler{service: &generationManagerMock{}}
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader([]byte(`{"semesterId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &GenerationHandler{service: &generationManagerMock{}}
	router := gin.New()
	router.POST("/timetable/generate", internalmiddleware.RBAC(string(models.RoleAdmin)), handler.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader(validGenerationPayload()))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateForbiddenForStudents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &GenerationHandler{service: &generationManagerMock{}}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})
		c.Next()
	})
	router.POST("/timetable/generate", internalmiddleware.RBAC(string(models.RoleAdmin)), handler.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader(validGenerationPayload()))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestListJobsPassesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &GenerationHandler{service: &generationManagerMock{}}
	req, _ := http.NewRequest(http.MethodGet, "/generation-jobs?semesterId=sem1&limit=5", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.ListJobs(c)

	require.Equal(t, http.StatusOK, w.Code)
}
