package models

import "time"

type JobApplicationStatus string

const (
	ApplicationApplied      JobApplicationStatus = "Applied"
	ApplicationInterviewing JobApplicationStatus = "Interviewing"
	ApplicationHired        JobApplicationStatus = "Hired"
)

const (
	PositionCateringSupervisor = "Catering Supervisor"
	PositionDecorStylist       = "Lead Decor Stylist"
	PositionEventCoordinator   = "Event Coordinator"
)

type JobApplication struct {
	ID        int                  `json:"id"`
	FullName  string               `json:"full_name"`
	Email     string               `json:"email"`
	Phone     string               `json:"phone"`
	Portfolio *string              `json:"portfolio,omitempty"`
	Message   *string              `json:"message,omitempty"`
	Position  string               `json:"position"`
	Status    JobApplicationStatus `json:"status"`
	IsDeleted bool                 `json:"is_deleted"`
	AppliedAt time.Time            `json:"applied_at"`
}
