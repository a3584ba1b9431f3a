package model

import "time"

// Package mirrors the `packages` table.  Every date column is nullable and
// serialized as null until the matching status is reached.
type Package struct {
	ID            uint64     `json:"id"`
	TrackingID    string     `json:"trackingId"`
	UserID        uint64     `json:"userId"`
	Description   string     `json:"description"`
	Weight        string     `json:"weight"`
	Status        Status     `json:"status"`
	EstimatedDate *time.Time `json:"estimatedDate"`
	ReceivedDate  *time.Time `json:"receivedDate"`
	TransitDate   *time.Time `json:"transitDate"`
	ArrivedDate   *time.Time `json:"arrivedDate"`
	ReadyDate     *time.Time `json:"readyDate"`
	DeliveredDate *time.Time `json:"deliveredDate"`
	Cost          *string    `json:"cost"`
}

// NewPackage holds intake fields; TrackingID and ReceivedDate are assigned
// by the store.
type NewPackage struct {
	UserID        uint64
	Description   string
	Weight        string
	EstimatedDate *time.Time
	Cost          *string
}

// DateFor returns the timestamp recorded when the package reached s.
func (p *Package) DateFor(s Status) *time.Time {
	switch s {
	case StatusReceivedUS:
		return p.ReceivedDate
	case StatusTransit:
		return p.TransitDate
	case StatusArrived:
		return p.ArrivedDate
	case StatusReady:
		return p.ReadyDate
	case StatusDelivered:
		return p.DeliveredDate
	}
	return nil
}
