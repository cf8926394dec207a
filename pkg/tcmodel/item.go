// Package tcmodel defines the canonical display objects this server returns
// to callers and the conversion from raw Teamcenter item records.
package tcmodel

import "time"

// Status is the fixed release-status enumeration of a canonical item.
type Status string

const (
	StatusReleased Status = "Released"
	StatusInWork   Status = "In Work"
	StatusInReview Status = "In Review"
	StatusObsolete Status = "Obsolete"
)

// Item is the normalized representation of a Teamcenter entity (item,
// revision or dataset). Constructed fresh on every conversion pass and
// never mutated afterwards.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Revision     string    `json:"revision"`
	Owner        string    `json:"owner"`
	LastModified time.Time `json:"last_modified"`
	Status       Status    `json:"status"`
	Description  string    `json:"description,omitempty"`
	Title        string    `json:"title,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}
