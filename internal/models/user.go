package models

import "strings"

type UserProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	JoinedDate string `json:"joinedDate"` // RFC3339 timestamp
}

// SameUsername compares usernames the way the user directory does (case-insensitive).
func (u UserProfile) SameUsername(name string) bool {
	return strings.EqualFold(u.Username, name)
}
