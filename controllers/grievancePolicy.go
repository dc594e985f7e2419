package controllers

import (
	"fmt"
	"time"

	"grievance-portal-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the authenticated principal acting on a grievance.
type Caller struct {
	ID   primitive.ObjectID
	Role models.UserRole
}

// UpdateInput carries the multipart update payload. Empty string means the
// field was omitted (or explicitly left blank, which the legacy API treats
// the same way): the stored value is kept.
type UpdateInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	Department  string
	Attachment  *models.Attachment
}

// UpdateDecision tags the outcome of the update policy.
type UpdateDecision int

const (
	DecisionForbidden UpdateDecision = iota
	// DecisionRejectPurge deletes the record outright: an admin rejection is
	// data destruction, not a status at rest.
	DecisionRejectPurge
	DecisionUpdated
)

// ResolveUpdate applies the role-based update rules to the grievance in
// place and reports what the handler should do with it. Branches evaluate in
// a fixed order; the admin-reject purge and the department status change are
// early returns that exclude everything after them.
//
// Department principals authenticate with an id equal to their department
// record's id, so assignment is checked against the caller id directly.
func ResolveUpdate(caller Caller, g *models.Grievance, in UpdateInput, now time.Time) (UpdateDecision, error) {
	isAdmin := caller.Role == models.RoleAdmin
	isDepartment := caller.Role == models.RoleDepartmentUser

	// Ownership: plain users may only touch their own grievances. Admins
	// triage anything; department principals are checked against the
	// assignment below instead.
	if !isAdmin && !isDepartment && g.SubmittedBy != caller.ID {
		return DecisionForbidden, nil
	}

	if isAdmin && in.Status == string(models.Rejected) {
		return DecisionRejectPurge, nil
	}

	if isDepartment {
		if g.Department == nil || *g.Department != caller.ID {
			return DecisionForbidden, nil
		}
		// Status is the only field a department may change; everything else
		// in the payload is ignored.
		if in.Status != "" {
			if !models.ValidStatus(in.Status) {
				return DecisionForbidden, fmt.Errorf("invalid status %q", in.Status)
			}
			g.Status = models.GrievanceStatus(in.Status)
		}
		g.UpdatedAt = now
		return DecisionUpdated, nil
	}

	if isAdmin && in.Department != "" {
		deptID, err := primitive.ObjectIDFromHex(in.Department)
		if err != nil {
			return DecisionForbidden, fmt.Errorf("invalid department id %q", in.Department)
		}
		g.Department = &deptID
	}

	if !isAdmin {
		if in.Title != "" {
			g.Title = in.Title
		}
		if in.Description != "" {
			g.Description = in.Description
		}
		if in.Category != "" {
			if !models.ValidCategory(in.Category) {
				return DecisionForbidden, fmt.Errorf("invalid category %q", in.Category)
			}
			g.Category = models.GrievanceCategory(in.Category)
		}
		if in.Priority != "" {
			if !models.ValidPriority(in.Priority) {
				return DecisionForbidden, fmt.Errorf("invalid priority %q", in.Priority)
			}
			g.Priority = models.GrievancePriority(in.Priority)
		}
	}

	// Attachments are append-only; a new upload never replaces earlier ones.
	if in.Attachment != nil {
		g.Attachments = append(g.Attachments, *in.Attachment)
	}

	g.UpdatedAt = now
	return DecisionUpdated, nil
}
