package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestContext identifies who is asking and on behalf of which project.
type RequestContext struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	ProjectID  uuid.UUID `json:"project_id" binding:"required"`
	AuthURL    string    `json:"auth_url"`
	RegionName string    `json:"region_name"`
}

// Reservation is one resource claim inside a lease. ResourceType selects the
// reservation kind; ResourceRequests carries the raw per-class amounts, which
// stay unparsed until demand computation so format errors can name the class.
type Reservation struct {
	ResourceType     string          `json:"resource_type" binding:"required"`
	Min              int             `json:"min"`
	Max              int             `json:"max"`
	ResourceRequests ResourceAmounts `json:"resource_requests" binding:"required"`
}

// Lease is the external reservation system's proposal: a window plus the
// resources wanted for it.
type Lease struct {
	LeaseID      uuid.UUID     `json:"lease_id" binding:"required"`
	LeaseName    string        `json:"lease_name"`
	StartDate    time.Time     `json:"start_date"`
	EndTime      time.Time     `json:"end_time"`
	Reservations []Reservation `json:"reservations"`
}

// DurationHours is the proposed window length in fractional hours.
func (l Lease) DurationHours() float64 {
	return l.EndTime.Sub(l.StartDate).Hours()
}

// ConsumerRequest is the full admission payload. CurrentLease is only
// informational on updates; the prior state of record is resolved from the
// ledger by lease uuid, never trusted from the caller.
type ConsumerRequest struct {
	Context      RequestContext `json:"context" binding:"required"`
	Lease        Lease          `json:"lease" binding:"required"`
	CurrentLease *Lease         `json:"current_lease,omitempty"`
}
