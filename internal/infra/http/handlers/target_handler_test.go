package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/leadscope/internal/infra/http/handlers"
	"github.com/leadscope/leadscope/internal/infra/jobs"
	"github.com/leadscope/leadscope/internal/infra/queue"
	"github.com/leadscope/leadscope/internal/poller"
	"github.com/leadscope/leadscope/internal/usecase"
)

type stubTargetRepo struct {
	upserts []string
}

func (s *stubTargetRepo) Upsert(_ context.Context, username string) error {
	s.upserts = append(s.upserts, username)
	return nil
}

func TestAddTargetStartsScan(t *testing.T) {
	registry := jobs.NewRegistry()
	producer := &stubProducer{}
	targets := &stubTargetRepo{}
	p := poller.New(&registryClient{registry: registry}, func() {})
	defer p.Stop()

	h := handlers.NewTargetHandler(
		usecase.NewStartScrapeUseCase(targets, producer, registry),
		registry, p,
	)

	rec := postJSON(t, h.HandleAddTarget, "/api/add-target", `{"username":"acme_corp"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Message string `json:"message"`
		JobID   string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "starting", body.Message)
	assert.Equal(t, "acme_corp", body.JobID)

	assert.Equal(t, []string{"acme_corp"}, targets.upserts)
	require.Len(t, producer.published, 1)
	assert.Equal(t, queue.KindScan, producer.published[0].Kind)

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "acme_corp", current.ID)
}

func TestAddTargetRejectsBadUsername(t *testing.T) {
	registry := jobs.NewRegistry()
	producer := &stubProducer{}
	p := poller.New(&registryClient{registry: registry}, func() {})

	h := handlers.NewTargetHandler(
		usecase.NewStartScrapeUseCase(&stubTargetRepo{}, producer, registry),
		registry, p,
	)

	rec := postJSON(t, h.HandleAddTarget, "/api/add-target", `{"username":"not a name"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, producer.published)
}

func TestHealthWithoutDependencies(t *testing.T) {
	h := handlers.NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), "not configured")
}
