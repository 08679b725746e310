package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/scrape"
)

// AddLeadUseCase adds a single lead by hand, validated against the
// platform before anything is stored.
type AddLeadUseCase struct {
	Repo    LeadRepositoryInterface
	Profile ProfileFetcher
}

func NewAddLeadUseCase(repo LeadRepositoryInterface, profile ProfileFetcher) *AddLeadUseCase {
	return &AddLeadUseCase{Repo: repo, Profile: profile}
}

func (uc *AddLeadUseCase) Execute(ctx context.Context, username string) (*entity.Lead, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	profile, err := uc.Profile.ProfileByUsername(ctx, username)
	if errors.Is(err, scrape.ErrProfileNotFound) {
		return nil, &DomainError{Code: "PROFILE_NOT_FOUND", Message: "no such profile"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "PROFILE_API", Message: err.Error()}
	}

	existing, err := uc.Repo.FindByPK(ctx, profile.PK)
	if err != nil {
		return nil, &TechnicalError{Code: "DB", Message: err.Error()}
	}
	if existing != nil {
		return nil, &DomainError{Code: "DUPLICATE", Message: "lead already exists"}
	}

	email := profile.PublicEmail
	if email == "" {
		email = scrape.ExtractEmail(profile.Bio)
	}

	now := time.Now()
	lead := &entity.Lead{
		PK:              profile.PK,
		Username:        profile.Username,
		FullName:        profile.FullName,
		Bio:             profile.Bio,
		Email:           email,
		ExternalURL:     profile.ExternalURL,
		IsPrivate:       profile.IsPrivate,
		FollowersCount:  profile.FollowersCount,
		SourceAccount:   "manually_added",
		FoundDate:       &now,
		LastScrapedDate: &now,
		Status:          entity.StatusNew,
	}

	if err := uc.Repo.Insert(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DB", Message: err.Error()}
	}
	return lead, nil
}
