package triage

import (
	"strings"

	"github.com/leadscope/leadscope/internal/entity"
)

// Tab is a named predicate selecting the base subset for display.
type Tab string

const (
	TabUnfiltered Tab = "unfiltered"
	TabFavorites  Tab = "favorites"
	TabHidden     Tab = "hidden"
	TabBlocked    Tab = "blocked"
	TabEng        Tab = "eng"
	TabDach       Tab = "dach"
	TabEmail      Tab = "email"
	TabExport     Tab = "export"
)

func (t Tab) Valid() bool {
	switch t {
	case TabUnfiltered, TabFavorites, TabHidden, TabBlocked, TabEng,
		TabDach, TabEmail, TabExport:
		return true
	}
	return false
}

// LangFilter is the auxiliary DACH classification filter. It only
// narrows the unfiltered tab.
type LangFilter string

const (
	LangAll       LangFilter = "all"
	LangDE        LangFilter = "de"
	LangNoDE      LangFilter = "no_de"
	LangUnscanned LangFilter = "unscanned"
)

// FilterOptions are the inputs of one filter pass over the collection.
type FilterOptions struct {
	Tab         Tab
	Query       string
	Lang        LangFilter
	HideEnglish bool          // email tab only: drop status=eng
	Selection   *SelectionSet // export tab only
}

// Filter derives the working set: tab predicate, then the language
// filter, then the free-text match. The chain is a strict AND; order
// within the result is a later concern.
func Filter(leads []entity.Lead, opts FilterOptions) []entity.Lead {
	query := strings.ToLower(opts.Query)

	var out []entity.Lead
	for _, lead := range leads {
		if !tabMatch(lead, opts) {
			continue
		}
		if opts.Tab == TabUnfiltered && !langMatch(lead, opts.Lang) {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(lead.Username + lead.Bio + lead.FullName)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, lead)
	}
	return out
}

func tabMatch(lead entity.Lead, opts FilterOptions) bool {
	switch opts.Tab {
	case TabFavorites:
		return lead.Status == entity.StatusFavorite
	case TabHidden:
		return lead.Status == entity.StatusHidden
	case TabBlocked:
		return lead.Status == entity.StatusBlocked
	case TabEng:
		return lead.Status == entity.StatusEng
	case TabDach:
		return lead.German == entity.GermanYes
	case TabEmail:
		if lead.Email == "" {
			return false
		}
		if lead.Status == entity.StatusBlocked || lead.Status == entity.StatusHidden {
			return false
		}
		if opts.HideEnglish && lead.Status == entity.StatusEng {
			return false
		}
		return true
	case TabExport:
		// Export never silently shows the unfiltered world: no
		// selection means no rows.
		return opts.Selection != nil && opts.Selection.Has(lead.PK)
	default:
		return lead.Status.Unreviewed()
	}
}

func langMatch(lead entity.Lead, lang LangFilter) bool {
	switch lang {
	case LangDE:
		return lead.German == entity.GermanYes
	case LangNoDE:
		return lead.German == entity.GermanNo
	case LangUnscanned:
		return lead.German == entity.GermanUnscanned
	default:
		return true
	}
}
