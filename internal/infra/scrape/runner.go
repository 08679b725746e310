package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/jobs"
)

// ErrProfileNotFound is returned by a ProfileSource when the platform
// no longer knows the account.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is what the external platform reports about one account.
type Profile struct {
	PK             int64
	Username       string
	FullName       string
	Bio            string
	PublicEmail    string
	ExternalURL    string
	FollowersCount int
	IsPrivate      bool
}

// ProfileSource is the external profile API. The concrete client lives
// in infra/integration; everything here works against the interface.
type ProfileSource interface {
	ProfileByUsername(ctx context.Context, username string) (Profile, error)
	FollowingPage(ctx context.Context, userID int64, cursor string) ([]Profile, string, error)
}

// Classifier decides the DACH language classification for a lead. How
// the decision is computed is the classifier's business entirely.
type Classifier interface {
	Classify(ctx context.Context, username, bio, fullName string) (german bool, reason string, err error)
}

type LeadRepository interface {
	FindByPK(ctx context.Context, pk int64) (*entity.Lead, error)
	FindByUsername(ctx context.Context, username string) (*entity.Lead, error)
	Insert(ctx context.Context, lead *entity.Lead) error
	Update(ctx context.Context, lead *entity.Lead) error
}

type TargetRepository interface {
	Touch(ctx context.Context, username string, at time.Time) error
}

// Runner executes scan, sync and classify jobs, reporting progress to
// the registry as it goes.
type Runner struct {
	source     ProfileSource
	classifier Classifier
	leads      LeadRepository
	targets    TargetRepository
	registry   *jobs.Registry
}

func NewRunner(source ProfileSource, classifier Classifier, leads LeadRepository, targets TargetRepository, registry *jobs.Registry) *Runner {
	return &Runner{
		source:     source,
		classifier: classifier,
		leads:      leads,
		targets:    targets,
		registry:   registry,
	}
}

// Scan walks the target's followings and inserts every profile we have
// not seen before as a fresh lead. Blocked leads are never revisited.
func (r *Runner) Scan(ctx context.Context, jobID, target string) error {
	info, err := r.source.ProfileByUsername(ctx, target)
	if err != nil {
		r.registry.Fail(jobID, fmt.Sprintf("target lookup failed: %v", err))
		return err
	}
	r.registry.SetTotal(jobID, info.FollowersCount)
	r.registry.Progress(jobID, 0, "loading followings")

	found := 0
	cursor := ""
	for {
		page, next, err := r.source.FollowingPage(ctx, info.PK, cursor)
		if err != nil {
			log.Printf("[scrape] following page for %s: %v", target, err)
			break
		}
		if len(page) == 0 {
			break
		}

		for _, p := range page {
			existing, err := r.leads.FindByPK(ctx, p.PK)
			if err != nil {
				log.Printf("[scrape] lookup pk=%d: %v", p.PK, err)
				continue
			}
			if existing != nil {
				continue
			}

			details, err := r.source.ProfileByUsername(ctx, p.Username)
			if err != nil {
				log.Printf("[scrape] details for %s: %v", p.Username, err)
				continue
			}

			lead := newLead(details, target)
			if err := r.leads.Insert(ctx, lead); err != nil {
				log.Printf("[scrape] insert %s: %v", p.Username, err)
				continue
			}
			found++
			r.registry.Progress(jobID, found, fmt.Sprintf("%d new leads found", found))
		}

		if next == "" {
			break
		}
		cursor = next
	}

	if err := r.targets.Touch(ctx, target, time.Now()); err != nil {
		log.Printf("[scrape] touch target %s: %v", target, err)
	}
	r.registry.Finish(jobID, fmt.Sprintf("done, %d new leads", found))
	return nil
}

// Sync re-scrapes the named leads and records material changes.
func (r *Runner) Sync(ctx context.Context, jobID string, usernames []string) error {
	r.registry.SetTotal(jobID, len(usernames))

	processed := 0
	for _, username := range usernames {
		lead, err := r.leads.FindByUsername(ctx, username)
		if err != nil {
			log.Printf("[scrape] lookup %s: %v", username, err)
		}
		if lead != nil {
			r.syncOne(ctx, lead)
		}
		processed++
		r.registry.Progress(jobID, processed, fmt.Sprintf("checking %s (%d/%d)", username, processed, len(usernames)))
	}

	r.registry.Finish(jobID, "done")
	return nil
}

// Classify runs the language classifier over the named leads.
func (r *Runner) Classify(ctx context.Context, jobID string, usernames []string) error {
	r.registry.SetTotal(jobID, len(usernames))

	processed := 0
	for _, username := range usernames {
		lead, err := r.leads.FindByUsername(ctx, username)
		if err != nil || lead == nil {
			processed++
			continue
		}

		german, reason, err := r.classifier.Classify(ctx, lead.Username, lead.Bio, lead.FullName)
		if err != nil {
			log.Printf("[scrape] classify %s: %v", username, err)
			processed++
			continue
		}

		if german {
			lead.German = entity.GermanYes
		} else {
			lead.German = entity.GermanNo
		}
		lead.GermanCheckResult = reason
		if err := r.leads.Update(ctx, lead); err != nil {
			log.Printf("[scrape] update %s: %v", username, err)
		}

		processed++
		r.registry.Progress(jobID, processed, fmt.Sprintf("classified %s (%d/%d)", username, processed, len(usernames)))
	}

	r.registry.Finish(jobID, "done")
	return nil
}

// syncOne compares a fresh profile against the stored lead. Blocked
// leads keep their status no matter what changed; a vanished profile
// is marked not_found rather than deleted.
func (r *Runner) syncOne(ctx context.Context, lead *entity.Lead) {
	details, err := r.source.ProfileByUsername(ctx, lead.Username)
	if errors.Is(err, ErrProfileNotFound) {
		if lead.Status != entity.StatusBlocked {
			lead.Status = entity.StatusNotFound
		}
		now := time.Now()
		lead.LastScrapedDate = &now
		if err := r.leads.Update(ctx, lead); err != nil {
			log.Printf("[scrape] update %s: %v", lead.Username, err)
		}
		return
	}
	if err != nil {
		log.Printf("[scrape] sync %s: %v", lead.Username, err)
		return
	}

	var changes []string
	if details.Bio != lead.Bio {
		changes = append(changes, "bio changed")
	}
	if details.ExternalURL != lead.ExternalURL {
		changes = append(changes, "link changed")
	}
	if delta := details.FollowersCount - lead.FollowersCount; delta > 10 || delta < -10 {
		changes = append(changes, fmt.Sprintf("followers %d->%d", lead.FollowersCount, details.FollowersCount))
	}

	status := lead.Status
	if status == entity.StatusNotFound {
		status = entity.StatusActive
	}
	if len(changes) > 0 && status != entity.StatusBlocked {
		status = entity.StatusChanged
	}

	email := details.PublicEmail
	if email == "" {
		email = ExtractEmail(details.Bio)
	}

	now := time.Now()
	lead.Bio = details.Bio
	lead.FullName = details.FullName
	lead.Email = email
	lead.ExternalURL = details.ExternalURL
	lead.FollowersCount = details.FollowersCount
	lead.LastScrapedDate = &now
	lead.Status = status
	if len(changes) > 0 {
		lead.ChangeDetails = strings.Join(changes, ", ")
	}

	if err := r.leads.Update(ctx, lead); err != nil {
		log.Printf("[scrape] update %s: %v", lead.Username, err)
	}
}

func newLead(p Profile, source string) *entity.Lead {
	email := p.PublicEmail
	if email == "" {
		email = ExtractEmail(p.Bio)
	}
	now := time.Now()
	return &entity.Lead{
		PK:              p.PK,
		Username:        p.Username,
		FullName:        p.FullName,
		Bio:             p.Bio,
		Email:           email,
		ExternalURL:     p.ExternalURL,
		IsPrivate:       p.IsPrivate,
		FollowersCount:  p.FollowersCount,
		SourceAccount:   source,
		FoundDate:       &now,
		LastScrapedDate: &now,
		Status:          entity.StatusNew,
	}
}

var emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// ExtractEmail pulls the first email-looking token out of a bio.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}
