package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GrievanceCategory enum
type GrievanceCategory string

const (
	Academic       GrievanceCategory = "Academic"
	Administration GrievanceCategory = "Administration"
	Infrastructure GrievanceCategory = "Infrastructure"
	Hostel         GrievanceCategory = "Hostel"
	General        GrievanceCategory = "General"
)

// GrievanceStatus enum
type GrievanceStatus string

const (
	Pending    GrievanceStatus = "Pending"
	InProgress GrievanceStatus = "In Progress"
	Resolved   GrievanceStatus = "Resolved"
	Rejected   GrievanceStatus = "Rejected"
)

// GrievancePriority enum
type GrievancePriority string

const (
	Low    GrievancePriority = "Low"
	Medium GrievancePriority = "Medium"
	High   GrievancePriority = "High"
)

// TitleMaxLength bounds the grievance title.
const TitleMaxLength = 100

// categoryDepartments maps each category to the departmentId code that
// handles it. Fixed table, never mutated at runtime.
var categoryDepartments = map[GrievanceCategory]string{
	Academic:       "ACAD001",
	Administration: "ADMIN001",
	Infrastructure: "INFRA001",
	Hostel:         "HOSTEL001",
	General:        "GEN001",
}

// DepartmentCodeForCategory returns the departmentId code responsible for a
// category, or "" when the category is unknown.
func DepartmentCodeForCategory(category GrievanceCategory) string {
	return categoryDepartments[category]
}

func ValidCategory(category string) bool {
	_, ok := categoryDepartments[GrievanceCategory(category)]
	return ok
}

func ValidStatus(status string) bool {
	switch GrievanceStatus(status) {
	case Pending, InProgress, Resolved, Rejected:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch GrievancePriority(priority) {
	case Low, Medium, High:
		return true
	}
	return false
}

// Attachment is a stored file reference on a grievance.
type Attachment struct {
	URL        string    `bson:"url" json:"url"`
	PublicID   string    `bson:"public_id" json:"public_id"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Comment is a discussion entry on a grievance. Comments are append-only.
type Comment struct {
	Text      string             `bson:"text" json:"text"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Grievance represents a complaint ticket submitted by a user
type Grievance struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Category    GrievanceCategory   `bson:"category" json:"category"`
	Status      GrievanceStatus     `bson:"status" json:"status"`
	Priority    GrievancePriority   `bson:"priority" json:"priority"`
	Attachments []Attachment        `bson:"attachments" json:"attachments"`
	Comments    []Comment           `bson:"comments" json:"comments"`
	SubmittedBy primitive.ObjectID  `bson:"submittedBy" json:"submittedBy"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Department  *primitive.ObjectID `bson:"department,omitempty" json:"department,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
