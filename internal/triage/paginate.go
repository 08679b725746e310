package triage

import "github.com/leadscope/leadscope/internal/entity"

// PageSizes are the only sizes the dashboard offers.
var PageSizes = []int{10, 20, 50, 100}

const DefaultPageSize = 20

func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// TotalPages is ceil(count/size) with a floor of one page, so an empty
// working set still renders page 1 of 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Page returns the 1-based page slice. Out-of-range pages clamp to the
// slice bounds; refusing navigation past the end is the caller's job.
func Page(leads []entity.Lead, page, size int) []entity.Lead {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(leads) {
		return nil
	}
	end := start + size
	if end > len(leads) {
		end = len(leads)
	}
	return leads[start:end]
}
