// Package models defines the bulletin board data model shared by the local
// cache, the remote store adapter and the services.
package models

import (
	"time"
)

// Source tells which store produced a post or a listing.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Category is embedded by value in every post, so later taxonomy changes
// never rewrite historical posts.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type Post struct {
	ID           string    `json:"id"`
	AuthorName   string    `json:"fullName"`
	CompanyName  string    `json:"companyName"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"email"`
	ContactPhone string    `json:"phone"`
	Category     Category  `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Owner        Owner     `json:"creatorId"`
	Source       Source    `json:"source,omitempty"`
}

// Expired reports whether the post is no longer valid at now.
// The boundary instant itself counts as expired.
func (p Post) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Live returns the posts that are not expired at now, in their original order.
// The input slice is never modified.
func Live(posts []Post, now time.Time) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if !p.Expired(now) {
			out = append(out, p)
		}
	}
	return out
}

// WithSource returns a copy of posts stamped with s.
func WithSource(posts []Post, s Source) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		p.Source = s
		out[i] = p
	}
	return out
}

// IndexOf returns the position of the post with id, or -1.
func IndexOf(posts []Post, id string) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Without returns a copy of posts with the post id removed.
func Without(posts []Post, id string) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
