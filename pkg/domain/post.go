package domain

import (
	"fmt"
	"time"
)

// CreatedAtLayout is the timestamp layout of the created_at field, the day may be zero padded
const CreatedAtLayout = "Mon Jan 2 15:04:05 -0700 2006"

// ProfileBaseURL is the prefix of author and post links
const ProfileBaseURL = "https://twitter.com/"

// User is the author of a post
type User struct {
	Name       string `json:"name"`
	ScreenName string `json:"screen_name,omitempty"`
}

// Post is a single status fetched from the timeline API
type Post struct {
	ID        string `json:"id_str"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	User      User   `json:"user"`
}

// Created parses CreatedAt
func (p Post) Created() (time.Time, error) {
	t, err := time.Parse(CreatedAtLayout, p.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", p.CreatedAt, err)
	}
	return t, nil
}

// Handle returns the screen name used in profile links, the name if the API didn't send one
func (u User) Handle() string {
	if u.ScreenName != "" {
		return u.ScreenName
	}
	return u.Name
}

// AuthorURL returns the profile link of the post's author
func (p Post) AuthorURL() string {
	return ProfileBaseURL + p.User.Handle()
}

// URL returns the link to the post itself
func (p Post) URL() string {
	return ProfileBaseURL + p.User.Handle() + "/status/" + p.ID
}
