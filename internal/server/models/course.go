package models

import (
	"time"

	"github.com/dmitrijs2005/goinglive/internal/course"
)

// Course is the ownership record of a course. It is created on the first
// commit of its content.
type Course struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time
}

// CourseContent is the latest committed snapshot of a course.
type CourseContent struct {
	CourseID string
	Snapshot course.Snapshot
	// Version increases by one with every commit.
	Version   int64
	UpdatedBy string
	UpdatedAt time.Time
}
