package models

import "time"

// BidFilter selects bids. Zero-valued fields match everything.
type BidFilter struct {
	ServiceRequestID string
	ContractorID     string
	Statuses         []BidStatus
	ExcludeBidID     string
	// ValidBefore matches bids whose ValidUntil is set and not after it.
	ValidBefore *time.Time
}

// Matches reports whether bid satisfies every set field of the filter
func (f BidFilter) Matches(bid Bid) bool {
	if f.ServiceRequestID != "" && bid.ServiceRequestID != f.ServiceRequestID {
		return false
	}
	if f.ContractorID != "" && bid.ContractorID != f.ContractorID {
		return false
	}
	if f.ExcludeBidID != "" && bid.BidID == f.ExcludeBidID {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, bid.Status) {
		return false
	}
	if f.ValidBefore != nil && (bid.ValidUntil == nil || bid.ValidUntil.After(*f.ValidBefore)) {
		return false
	}
	return true
}

func containsStatus(statuses []BidStatus, s BidStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ServiceRequestFilter selects service requests
type ServiceRequestFilter struct {
	CustomerID string
	Statuses   []ServiceRequestStatus
	// ClaimedOnly keeps requests holding an acceptance claim.
	ClaimedOnly bool
}

func (f ServiceRequestFilter) Matches(r ServiceRequest) bool {
	if f.CustomerID != "" && r.CustomerID != f.CustomerID {
		return false
	}
	if f.ClaimedOnly && !r.Claimed() {
		return false
	}
	if len(f.Statuses) > 0 {
		for _, s := range f.Statuses {
			if s == r.Status {
				return true
			}
		}
		return false
	}
	return true
}
