package postings

import (
	"time"

	jobmodel "careermatch-backend/job/model"
)

// Posting is a job posting submitted by a user, stored with its parsed
// snapshot so analyses never re-parse historical postings.
type Posting struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Title     string             `json:"title"`
	Company   string             `json:"company"`
	RawText   string             `json:"rawText"`
	SourceURL string             `json:"sourceUrl,omitempty"`
	Parsed    jobmodel.ParsedJob `json:"parsed"`
	CreatedAt time.Time          `json:"createdAt"`
}
