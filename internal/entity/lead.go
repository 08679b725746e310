package entity

import (
	"encoding/json"
	"time"
)

// Status is the single source of truth for which triage view a lead
// belongs to. The set is closed; nothing outside it is ever stored.
type Status string

const (
	StatusNew       Status = "new"
	StatusActive    Status = "active"
	StatusChanged   Status = "changed"
	StatusContacted Status = "contacted"
	StatusNotFound  Status = "not_found"
	StatusFavorite  Status = "favorite"
	StatusHidden    Status = "hidden"
	StatusBlocked   Status = "blocked"
	StatusEng       Status = "eng"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusActive, StatusChanged, StatusContacted,
		StatusNotFound, StatusFavorite, StatusHidden, StatusBlocked, StatusEng:
		return true
	}
	return false
}

// Unreviewed reports whether the lead still sits in the default view,
// i.e. the operator has not given it a final classification yet.
func (s Status) Unreviewed() bool {
	switch s {
	case StatusNew, StatusActive, StatusChanged, StatusContacted, StatusNotFound:
		return true
	}
	return false
}

// German is the tri-state language classification. Unscanned must stay
// distinguishable from scanned-and-negative, so this is not a bool.
type German int8

const (
	GermanUnscanned German = iota
	GermanYes
	GermanNo
)

// The dashboard wire format is true/false/null.
func (g German) MarshalJSON() ([]byte, error) {
	switch g {
	case GermanYes:
		return []byte("true"), nil
	case GermanNo:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (g *German) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch {
	case v == nil:
		*g = GermanUnscanned
	case *v:
		*g = GermanYes
	default:
		*g = GermanNo
	}
	return nil
}

// Lead is one discovered profile under triage. PK is the external
// platform id and the primary key for every set operation.
type Lead struct {
	PK                int64      `json:"pk"`
	Username          string     `json:"username"`
	FullName          string     `json:"fullName"`
	Bio               string     `json:"bio"`
	Email             string     `json:"email,omitempty"`
	ExternalURL       string     `json:"externalUrl,omitempty"`
	IsPrivate         bool       `json:"isPrivate"`
	FollowersCount    int        `json:"followersCount"`
	SourceAccount     string     `json:"sourceAccount"`
	FoundDate         *time.Time `json:"foundDate,omitempty"`
	LastScrapedDate   *time.Time `json:"lastScrapedDate,omitempty"`
	LastExported      *time.Time `json:"lastExported,omitempty"`
	German            German     `json:"isGerman"`
	GermanCheckResult string     `json:"germanCheckResult,omitempty"`
	Status            Status     `json:"status"`
	ChangeDetails     string     `json:"changeDetails,omitempty"`
}

// Target is a source account being monitored for new leads.
type Target struct {
	Username    string     `json:"username"`
	LastScraped *time.Time `json:"lastScraped"`
}
