package models

import (
	"time"

	"github.com/dmitrijs2005/goinglive/internal/course"
)

// Media describes an uploaded object. The bytes live in object storage
// under Key.
type Media struct {
	Key         string
	CourseID    string
	OwnerID     string
	FileName    string
	Public      bool
	URL         string
	Disposition course.Disposition
	CreatedAt   time.Time
}
