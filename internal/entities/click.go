package entities

import "time"

// Click records one successful resolution of a Link. Clicks are written once
// and never updated.
type Click struct {
	ID        string    `json:"id"` // UUID
	LinkID    string    `json:"linkId"`
	TS        time.Time `json:"ts"`
	IPHash    string    `json:"ipHash,omitempty"` // sha256 hex of the client IP, never the raw IP
	UserAgent string    `json:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	Country   string    `json:"country,omitempty"`
}
