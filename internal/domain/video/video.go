// Package video provides the Video domain entity.
package video

import "strings"

// DefaultFlagReason is used when a video is flagged without a reason.
const DefaultFlagReason = "Not supplied"

// Video represents a playable catalog item.
// The catalog owns every Video; other components share the pointer.
type Video struct {
	ID         string    // Unique, stable identifier
	Title      string    // Display title (not unique)
	Tags       []string  // Tags in insertion order, duplicates allowed
	Flagged    bool      // Moderation flag
	FlagReason string    // Reason for the flag (empty when not flagged)
	Ratings    []float64 // Every rating ever submitted
}

// New creates a video with the given identity and tags.
func New(id, title string, tags []string) *Video {
	t := make([]string, len(tags))
	copy(t, tags)
	return &Video{
		ID:    id,
		Title: title,
		Tags:  t,
	}
}

// Flag marks the video as flagged.
// An empty reason is replaced with DefaultFlagReason.
func (v *Video) Flag(reason string) {
	if reason == "" {
		reason = DefaultFlagReason
	}
	v.Flagged = true
	v.FlagReason = reason
}

// Allow clears the moderation flag.
func (v *Video) Allow() {
	v.Flagged = false
	v.FlagReason = ""
}

// AddRating appends a rating. Range checks are the caller's job.
func (v *Video) AddRating(r float64) {
	v.Ratings = append(v.Ratings, r)
}

// AverageRating returns the mean of all ratings, or 0 if unrated.
func (v *Video) AverageRating() float64 {
	if len(v.Ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range v.Ratings {
		sum += r
	}
	return sum / float64(len(v.Ratings))
}

// IsRated reports whether the video has at least one rating.
func (v *Video) IsRated() bool {
	return len(v.Ratings) > 0
}

// HasTag checks whether any tag contains the given text, case-insensitively.
func (v *Video) HasTag(tag string) bool {
	needle := strings.ToLower(tag)
	for _, t := range v.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// TitleContains checks whether the title contains term, case-insensitively.
func (v *Video) TitleContains(term string) bool {
	return strings.Contains(strings.ToLower(v.Title), strings.ToLower(term))
}
