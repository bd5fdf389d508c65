package model

import "time"

type Commit struct {
	ID             string `json:"commit"`
	AbbrevID       string `json:"abbrev,omitempty"`
	Author         string
	AuthorEmail    string
	AuthorDate     time.Time
	Committer      string
	CommitterEmail string
	CommitterDate  time.Time
	Subject        string
	Body           string
}

// ShortID returns the abbreviated hash git reported, or the first seven
// characters of the full hash.
func (c *Commit) ShortID() string {
	if c.AbbrevID != "" {
		return c.AbbrevID
	}
	if len(c.ID) < 7 {
		return c.ID
	}
	return c.ID[:7]
}

// Email returns the author email, falling back to the committer's.
func (c *Commit) Email() string {
	if c.AuthorEmail != "" {
		return c.AuthorEmail
	}
	return c.CommitterEmail
}
