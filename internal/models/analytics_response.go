package models

// BasicAnalyticsResponse represents the click total for a single link
type BasicAnalyticsResponse struct {
	LinkID      string `json:"linkId"`
	TotalClicks int    `json:"totalClicks"`
}
