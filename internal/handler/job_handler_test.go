package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicegate/internal/domain"
	"invoicegate/internal/handler"
	"invoicegate/mocks"
)

func errorJob() *domain.Job {
	return &domain.Job{
		ID:          uuid.New(),
		Status:      domain.JobStatusError,
		Source:      domain.JobSourceManualUpload,
		Error:       "no JSON found in extraction output",
		CreatedAt:   time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		ProcessedAt: time.Date(2025, 7, 1, 9, 0, 4, 0, time.UTC),
	}
}

func jobContext(method, path, id string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	if id != "" {
		c.Params = gin.Params{{Key: "id", Value: id}}
	}
	return c, w
}

func TestJobHandler_Get(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	job := errorJob()
	store.On("Get", mock.Anything, job.ID).Return(job, nil)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs/"+job.ID.String(), job.ID.String())
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, job.ID.String(), data["job_id"])
	sum, ok := data["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", sum["status"])
	details, ok := data["full_details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "no JSON found in extraction output", details["error"])
}

func TestJobHandler_Summary(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	job := errorJob()
	store.On("Get", mock.Anything, job.ID).Return(job, nil)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs/"+job.ID.String()+"/summary", job.ID.String())
	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Contains(t, data, "summary")
	assert.NotContains(t, data, "full_details")
}

func TestJobHandler_Get_NotFound(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	id := uuid.New()
	store.On("Get", mock.Anything, id).Return(nil, domain.ErrJobNotFound)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs/"+id.String(), id.String())
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, "job_id not found", resp.Error.Message)
}

func TestJobHandler_Get_MalformedID(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs/not-a-uuid", "not-a-uuid")
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestJobHandler_List(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	first, second := errorJob(), errorJob()
	second.Status = domain.JobStatusProcessing
	second.Error = ""
	store.On("List", mock.Anything).Return([]*domain.Job{first, second}, nil)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs", "")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, float64(2), data["total"])
	jobs, ok := data["jobs"].([]interface{})
	require.True(t, ok)
	require.Len(t, jobs, 2)
	assert.Equal(t, first.ID.String(), jobs[0].(map[string]interface{})["job_id"])
	assert.Equal(t, "processing", jobs[1].(map[string]interface{})["status"])
}

func TestJobHandler_List_Empty(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	store.On("List", mock.Anything).Return([]*domain.Job{}, nil)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs", "")
	h.List(c)

	_, data := decode(t, w)
	assert.Equal(t, float64(0), data["total"])
	assert.Equal(t, []interface{}{}, data["jobs"])
}

func TestJobHandler_Export_XLSX(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	store.On("List", mock.Anything).Return([]*domain.Job{errorJob()}, nil)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs/export", "")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows("Jobs")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestJobHandler_Export_CSV(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	store.On("List", mock.Anything).Return([]*domain.Job{errorJob()}, nil)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs/export?format=csv", "")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, w.Body.String(), "Job ID,Status,Source")
}

func TestJobHandler_Export_BadFormat(t *testing.T) {
	store := new(mocks.MockJobStore)
	h := handler.NewJobHandler(store)
	store.On("List", mock.Anything).Return([]*domain.Job{}, nil)

	c, w := jobContext(http.MethodGet, "/api/v1/jobs/export?format=pdf", "")
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
