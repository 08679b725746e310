package scrape_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/jobs"
	"github.com/leadscope/leadscope/internal/infra/scrape"
)

type fakeSource struct {
	profiles  map[string]scrape.Profile
	following map[int64][]scrape.Profile
}

func (s *fakeSource) ProfileByUsername(_ context.Context, username string) (scrape.Profile, error) {
	p, ok := s.profiles[username]
	if !ok {
		return scrape.Profile{}, scrape.ErrProfileNotFound
	}
	return p, nil
}

func (s *fakeSource) FollowingPage(_ context.Context, userID int64, cursor string) ([]scrape.Profile, string, error) {
	if cursor != "" {
		return nil, "", nil
	}
	return s.following[userID], "", nil
}

type fakeClassifier struct {
	german bool
	reason string
}

func (c *fakeClassifier) Classify(_ context.Context, _, _, _ string) (bool, string, error) {
	return c.german, c.reason, nil
}

type memLeadRepo struct {
	byPK map[int64]*entity.Lead
}

func newMemLeadRepo(leads ...entity.Lead) *memLeadRepo {
	r := &memLeadRepo{byPK: make(map[int64]*entity.Lead)}
	for i := range leads {
		l := leads[i]
		r.byPK[l.PK] = &l
	}
	return r
}

func (r *memLeadRepo) FindByPK(_ context.Context, pk int64) (*entity.Lead, error) {
	if l, ok := r.byPK[pk]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, nil
}

func (r *memLeadRepo) FindByUsername(_ context.Context, username string) (*entity.Lead, error) {
	for _, l := range r.byPK {
		if l.Username == username {
			copied := *l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memLeadRepo) Insert(_ context.Context, lead *entity.Lead) error {
	copied := *lead
	r.byPK[lead.PK] = &copied
	return nil
}

func (r *memLeadRepo) Update(_ context.Context, lead *entity.Lead) error {
	copied := *lead
	r.byPK[lead.PK] = &copied
	return nil
}

type fakeTargets struct {
	touched []string
}

func (t *fakeTargets) Touch(_ context.Context, username string, _ time.Time) error {
	t.touched = append(t.touched, username)
	return nil
}

func TestScanInsertsOnlyUnknownProfiles(t *testing.T) {
	source := &fakeSource{
		profiles: map[string]scrape.Profile{
			"acme":  {PK: 1, Username: "acme", FollowersCount: 3},
			"anna":  {PK: 10, Username: "anna", Bio: "Grafikdesign, mail: anna@web.de"},
			"bea":   {PK: 11, Username: "bea"},
			"known": {PK: 12, Username: "known"},
		},
		following: map[int64][]scrape.Profile{
			1: {
				{PK: 10, Username: "anna"},
				{PK: 11, Username: "bea"},
				{PK: 12, Username: "known"},
			},
		},
	}
	repo := newMemLeadRepo(entity.Lead{PK: 12, Username: "known", Status: entity.StatusBlocked})
	targets := &fakeTargets{}
	registry := jobs.NewRegistry()
	registry.Create("acme", "acme", "")

	runner := scrape.NewRunner(source, &fakeClassifier{}, repo, targets, registry)
	require.NoError(t, runner.Scan(context.Background(), "acme", "acme"))

	anna, _ := repo.FindByPK(context.Background(), 10)
	require.NotNil(t, anna)
	assert.Equal(t, entity.StatusNew, anna.Status)
	assert.Equal(t, "acme", anna.SourceAccount)
	assert.Equal(t, "anna@web.de", anna.Email)

	// The known (blocked) lead is untouched.
	known, _ := repo.FindByPK(context.Background(), 12)
	assert.Equal(t, entity.StatusBlocked, known.Status)

	assert.Equal(t, []string{"acme"}, targets.touched)

	job, _ := registry.Get("acme")
	assert.Equal(t, entity.JobFinished, job.Status)
	assert.Equal(t, 2, job.Found)
}

func TestScanFailsWhenTargetMissing(t *testing.T) {
	registry := jobs.NewRegistry()
	registry.Create("ghost", "ghost", "")
	runner := scrape.NewRunner(&fakeSource{}, &fakeClassifier{}, newMemLeadRepo(), &fakeTargets{}, registry)

	err := runner.Scan(context.Background(), "ghost", "ghost")

	require.Error(t, err)
	job, _ := registry.Get("ghost")
	assert.Equal(t, entity.JobError, job.Status)
}

func TestSyncDetectsMaterialChanges(t *testing.T) {
	source := &fakeSource{profiles: map[string]scrape.Profile{
		"anna": {PK: 10, Username: "anna", Bio: "new bio", FollowersCount: 100},
	}}
	repo := newMemLeadRepo(entity.Lead{
		PK: 10, Username: "anna", Bio: "old bio", FollowersCount: 95, Status: entity.StatusActive,
	})
	registry := jobs.NewRegistry()
	registry.Create("sync_1", "", "")

	runner := scrape.NewRunner(source, &fakeClassifier{}, repo, &fakeTargets{}, registry)
	require.NoError(t, runner.Sync(context.Background(), "sync_1", []string{"anna"}))

	anna, _ := repo.FindByPK(context.Background(), 10)
	assert.Equal(t, entity.StatusChanged, anna.Status)
	assert.Equal(t, "new bio", anna.Bio)
	assert.Contains(t, anna.ChangeDetails, "bio changed")
	require.NotNil(t, anna.LastScrapedDate)
}

func TestSyncSmallFollowerDriftIsNotAChange(t *testing.T) {
	source := &fakeSource{profiles: map[string]scrape.Profile{
		"anna": {PK: 10, Username: "anna", Bio: "same", FollowersCount: 105},
	}}
	repo := newMemLeadRepo(entity.Lead{
		PK: 10, Username: "anna", Bio: "same", FollowersCount: 100, Status: entity.StatusActive,
	})
	registry := jobs.NewRegistry()
	registry.Create("sync_1", "", "")

	runner := scrape.NewRunner(source, &fakeClassifier{}, repo, &fakeTargets{}, registry)
	require.NoError(t, runner.Sync(context.Background(), "sync_1", []string{"anna"}))

	anna, _ := repo.FindByPK(context.Background(), 10)
	assert.Equal(t, entity.StatusActive, anna.Status)
	assert.Equal(t, 105, anna.FollowersCount)
	assert.Empty(t, anna.ChangeDetails)
}

func TestSyncVanishedProfileMarkedNotFound(t *testing.T) {
	source := &fakeSource{profiles: map[string]scrape.Profile{}}
	repo := newMemLeadRepo(entity.Lead{PK: 10, Username: "anna", Status: entity.StatusActive})
	registry := jobs.NewRegistry()
	registry.Create("sync_1", "", "")

	runner := scrape.NewRunner(source, &fakeClassifier{}, repo, &fakeTargets{}, registry)
	require.NoError(t, runner.Sync(context.Background(), "sync_1", []string{"anna"}))

	anna, _ := repo.FindByPK(context.Background(), 10)
	assert.Equal(t, entity.StatusNotFound, anna.Status)
}

func TestSyncBlockedLeadKeepsStatus(t *testing.T) {
	source := &fakeSource{profiles: map[string]scrape.Profile{
		"anna": {PK: 10, Username: "anna", Bio: "totally different", FollowersCount: 9000},
	}}
	repo := newMemLeadRepo(entity.Lead{
		PK: 10, Username: "anna", Bio: "old", FollowersCount: 10, Status: entity.StatusBlocked,
	})
	registry := jobs.NewRegistry()
	registry.Create("sync_1", "", "")

	runner := scrape.NewRunner(source, &fakeClassifier{}, repo, &fakeTargets{}, registry)
	require.NoError(t, runner.Sync(context.Background(), "sync_1", []string{"anna"}))

	anna, _ := repo.FindByPK(context.Background(), 10)
	assert.Equal(t, entity.StatusBlocked, anna.Status)
}

func TestSyncRevivesNotFoundLead(t *testing.T) {
	source := &fakeSource{profiles: map[string]scrape.Profile{
		"anna": {PK: 10, Username: "anna"},
	}}
	repo := newMemLeadRepo(entity.Lead{PK: 10, Username: "anna", Status: entity.StatusNotFound})
	registry := jobs.NewRegistry()
	registry.Create("sync_1", "", "")

	runner := scrape.NewRunner(source, &fakeClassifier{}, repo, &fakeTargets{}, registry)
	require.NoError(t, runner.Sync(context.Background(), "sync_1", []string{"anna"}))

	anna, _ := repo.FindByPK(context.Background(), 10)
	assert.Equal(t, entity.StatusActive, anna.Status)
}

func TestClassifySetsTriState(t *testing.T) {
	repo := newMemLeadRepo(
		entity.Lead{PK: 10, Username: "anna", Bio: "aus Wien"},
		entity.Lead{PK: 11, Username: "bea", Bio: "from London"},
	)
	registry := jobs.NewRegistry()
	registry.Create("german_1", "", "")

	runner := scrape.NewRunner(&fakeSource{}, &fakeClassifier{german: true, reason: "bio is German"}, repo, &fakeTargets{}, registry)
	require.NoError(t, runner.Classify(context.Background(), "german_1", []string{"anna"}))

	anna, _ := repo.FindByPK(context.Background(), 10)
	assert.Equal(t, entity.GermanYes, anna.German)
	assert.Equal(t, "bio is German", anna.GermanCheckResult)

	// Leads outside the selection stay unscanned.
	bea, _ := repo.FindByPK(context.Background(), 11)
	assert.Equal(t, entity.GermanUnscanned, bea.German)

	job, _ := registry.Get("german_1")
	assert.Equal(t, entity.JobFinished, job.Status)
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "hi@web.de", scrape.ExtractEmail("Anfragen: hi@web.de bitte"))
	assert.Equal(t, "", scrape.ExtractEmail("no contact here"))
}
