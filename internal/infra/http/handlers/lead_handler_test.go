package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/leadscope/internal/dispatch"
	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/http/handlers"
	"github.com/leadscope/leadscope/internal/infra/scrape"
	"github.com/leadscope/leadscope/internal/store"
	"github.com/leadscope/leadscope/internal/usecase"
)

type stubLeadLister struct {
	leads []entity.Lead
	err   error
}

func (s *stubLeadLister) List(context.Context) ([]entity.Lead, error) { return s.leads, s.err }

type stubTargetLister struct {
	targets []entity.Target
}

func (s *stubTargetLister) List(context.Context) ([]entity.Target, error) { return s.targets, nil }

type stubWriter struct{}

func (stubWriter) UpdateStatus(context.Context, int64, entity.Status) error { return nil }

type stubDeleter struct {
	deleted []int64
	err     error
}

func (s *stubDeleter) Delete(_ context.Context, pks []int64) (int64, error) {
	s.deleted = append(s.deleted, pks...)
	return int64(len(pks)), s.err
}

type stubExporter struct {
	usernames []string
}

func (s *stubExporter) MarkExported(_ context.Context, usernames []string, _ time.Time) (int64, error) {
	s.usernames = append(s.usernames, usernames...)
	return int64(len(usernames)), nil
}

type stubProfileFetcher struct {
	profile scrape.Profile
	err     error
}

func (s *stubProfileFetcher) ProfileByUsername(context.Context, string) (scrape.Profile, error) {
	return s.profile, s.err
}

type stubLeadRepo struct {
	existing *entity.Lead
	inserted []*entity.Lead
}

func (s *stubLeadRepo) FindByPK(context.Context, int64) (*entity.Lead, error) {
	return s.existing, nil
}

func (s *stubLeadRepo) FindByUsername(context.Context, string) (*entity.Lead, error) {
	return nil, nil
}

func (s *stubLeadRepo) Insert(_ context.Context, lead *entity.Lead) error {
	s.inserted = append(s.inserted, lead)
	return nil
}

func newLeadFixture(leads ...entity.Lead) (*handlers.LeadHandler, *store.LeadStore, *stubDeleter, *stubExporter) {
	st := store.NewLeadStore()
	st.ReplaceAll(leads, nil)

	dispatcher := dispatch.NewDispatcher(st, stubWriter{})
	refresh := usecase.NewRefreshUseCase(&stubLeadLister{leads: leads}, &stubTargetLister{}, st, dispatcher)
	addLead := usecase.NewAddLeadUseCase(&stubLeadRepo{}, &stubProfileFetcher{profile: scrape.Profile{PK: 1, Username: "anna"}})
	deleter := &stubDeleter{}
	exporter := &stubExporter{}

	h := handlers.NewLeadHandler(st, dispatcher, refresh, addLead, deleter, exporter)
	return h, st, deleter, exporter
}

func TestGetUsersReturnsCollection(t *testing.T) {
	h, _, _, _ := newLeadFixture(entity.Lead{PK: 1, Username: "anna", Status: entity.StatusNew})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	h.HandleGetUsers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Leads   []entity.Lead   `json:"leads"`
		Targets []entity.Target `json:"targets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Leads, 1)
	assert.Equal(t, "anna", body.Leads[0].Username)
	assert.NotNil(t, body.Targets)
}

func TestGetUsersStaleOnRefreshFailure(t *testing.T) {
	st := store.NewLeadStore()
	st.ReplaceAll([]entity.Lead{{PK: 1, Username: "stale"}}, nil)
	dispatcher := dispatch.NewDispatcher(st, stubWriter{})
	refresh := usecase.NewRefreshUseCase(&stubLeadLister{err: errors.New("db down")}, &stubTargetLister{}, st, dispatcher)
	h := handlers.NewLeadHandler(st, dispatcher, refresh, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleGetUsers(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stale")
}

func TestUpdateStatus(t *testing.T) {
	h, st, _, _ := newLeadFixture(entity.Lead{PK: 1, Username: "anna", Status: entity.StatusNew})

	rec := postJSON(t, h.HandleUpdateStatus, "/api/lead/update-status", `{"pk":1,"status":"favorite"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	got, _ := st.Get(1)
	assert.Equal(t, entity.StatusFavorite, got.Status)
}

func TestUpdateStatusUnknownPK(t *testing.T) {
	h, _, _, _ := newLeadFixture()

	rec := postJSON(t, h.HandleUpdateStatus, "/api/lead/update-status", `{"pk":99,"status":"favorite"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	h, _, _, _ := newLeadFixture(entity.Lead{PK: 1, Username: "anna", Status: entity.StatusNew})

	rec := postJSON(t, h.HandleUpdateStatus, "/api/lead/update-status", `{"pk":1,"status":"deleted"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddLeadEndpoint(t *testing.T) {
	h, _, _, _ := newLeadFixture()

	rec := postJSON(t, h.HandleAddLead, "/api/add-lead", `{"username":"anna"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "added anna")
}

func TestAddLeadValidationFailure(t *testing.T) {
	h, _, _, _ := newLeadFixture()

	rec := postJSON(t, h.HandleAddLead, "/api/add-lead", `{"username":"not a name"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUsers(t *testing.T) {
	h, _, deleter, _ := newLeadFixture(entity.Lead{PK: 1, Username: "anna"})

	rec := postJSON(t, h.HandleDeleteUsers, "/api/delete-users", `{"pks":[1,2]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 2}, deleter.deleted)
}

func TestDeleteUsersRequiresPKs(t *testing.T) {
	h, _, _, _ := newLeadFixture()

	rec := postJSON(t, h.HandleDeleteUsers, "/api/delete-users", `{"pks":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkExported(t *testing.T) {
	h, _, _, exporter := newLeadFixture(entity.Lead{PK: 1, Username: "anna"})

	rec := postJSON(t, h.HandleMarkExported, "/api/mark-exported", `{"usernames":["anna"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"anna"}, exporter.usernames)
}
