package models

import "time"

// Group markers tag an item's position within its room's displayed slice.
// An item that is both the opener and the closer carries MarkerFirstLast.
const (
	MarkerFirst     = "first"
	MarkerLast      = "last"
	MarkerFirstLast = "firstlast"
)

// FeedItem is one entry of the aggregated feed. Built once per qualifying
// raw message, then mutated in place by the enrichment and markup passes.
type FeedItem struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"-"`
	PersonID    string    `json:"personId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HTML        string    `json:"-"`
	Link        string    `json:"link"`
	Date        time.Time `json:"date"`
	DisplayName string    `json:"displayName,omitempty"`
	RoomName    string    `json:"roomName,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	RoomAvatar  string    `json:"roomAvatar,omitempty"`
	Initials    string    `json:"initials,omitempty"`
	GroupMarker string    `json:"gtype,omitempty"`
	HiddenCount int       `json:"hiddenCount,omitempty"`
	FileCount   int       `json:"fileCount,omitempty"`
	Matched     bool      `json:"matched,omitempty"`
	IsFirst     bool      `json:"isFirst,omitempty"`
	IsLast      bool      `json:"isLast,omitempty"`
}

// Stream is one of the two halves of the feed. Count covers everything kept
// by the time window, not just the capped display slice.
type Stream struct {
	Count int        `json:"count"`
	Items []FeedItem `json:"items"`
}

// Feed is the aggregated output for the notification widget
type Feed struct {
	Messages Stream `json:"messages"`
	Mentions Stream `json:"mentions"`
}
