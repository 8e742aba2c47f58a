// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RejectReason is the failure kind reported for a single rejected push item.
type RejectReason string

const (
	RejectIdentityConflict  RejectReason = "IdentityConflict"
	RejectNotFound          RejectReason = "NotFound"
	RejectDanglingReference RejectReason = "DanglingReference"
	RejectInvalidRecord     RejectReason = "InvalidRecord"
)

// AppliedCounts counts the items of one collection accepted by a push.
type AppliedCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Rejection describes one push item that was not applied.
type Rejection struct {
	Collection Collection   `json:"collection"`
	Identifier string       `json:"identifier"`
	Operation  Operation    `json:"operation"`
	Reason     RejectReason `json:"reason"`
	Detail     string       `json:"detail,omitempty"`
}

// PushAck summarises the outcome of a push.
type PushAck struct {
	Applied  map[Collection]AppliedCounts `json:"applied"`
	Rejected []Rejection                  `json:"rejected"`
}

// NewPushAck returns an ack with zero counts for every collection.
func NewPushAck() PushAck {
	applied := make(map[Collection]AppliedCounts, len(Collections))
	for _, c := range Collections {
		applied[c] = AppliedCounts{}
	}
	return PushAck{Applied: applied, Rejected: []Rejection{}}
}

// MarkApplied increments the counter of op in collection c.
func (a *PushAck) MarkApplied(c Collection, op Operation) {
	counts := a.Applied[c]
	switch op {
	case OpCreated:
		counts.Created++
	case OpUpdated:
		counts.Updated++
	case OpDeleted:
		counts.Deleted++
	}
	a.Applied[c] = counts
}

// Reject records a rejected item.
func (a *PushAck) Reject(r Rejection) {
	a.Rejected = append(a.Rejected, r)
}
