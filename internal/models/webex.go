package models

import "time"

// Room types as reported by the Webex API
const (
	RoomTypeDirect = "direct"
	RoomTypeGroup  = "group"
)

// Room is a conversation space snapshot. Immutable for the length of a run.
type Room struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	LastActivity time.Time `json:"lastActivity"`
}

// RawMessage is a message exactly as the API returned it. Never mutated;
// feed items are built from it and own their own copies of every field.
type RawMessage struct {
	ID              string    `json:"id"`
	RoomID          string    `json:"roomId"`
	RoomType        string    `json:"roomType"`
	PersonID        string    `json:"personId"`
	Text            string    `json:"text"`
	HTML            string    `json:"html,omitempty"`
	URL             string    `json:"url,omitempty"`
	Created         time.Time `json:"created"`
	MentionedPeople []string  `json:"mentionedPeople,omitempty"`
	Files           []string  `json:"files,omitempty"`
}

// Person is a user record from the people API
type Person struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}
