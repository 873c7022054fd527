package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType classifies a leave request per the BCEA categories the
// practice recognizes.
type LeaveType string

const (
	LeaveAnnual                LeaveType = "Annual"
	LeaveSick                  LeaveType = "Sick"
	LeaveFamilyResponsibility  LeaveType = "Family Responsibility"
	LeaveMaternity             LeaveType = "Maternity"
	LeaveParental              LeaveType = "Parental"
	LeaveAdoption              LeaveType = "Adoption"
	LeaveCommissioningParental LeaveType = "Commissioning Parental"
	LeaveUnpaid                LeaveType = "Unpaid"
	LeaveStudy                 LeaveType = "Study"
	LeaveOther                 LeaveType = "Other"
)

// ValidLeaveTypes contains all recognized leave types.
var ValidLeaveTypes = []LeaveType{
	LeaveAnnual, LeaveSick, LeaveFamilyResponsibility, LeaveMaternity,
	LeaveParental, LeaveAdoption, LeaveCommissioningParental,
	LeaveUnpaid, LeaveStudy, LeaveOther,
}

// Valid reports whether t is a recognized leave type.
func (t LeaveType) Valid() bool {
	for _, v := range ValidLeaveTypes {
		if t == v {
			return true
		}
	}
	return false
}

// LeaveStatus is the lifecycle state of a leave request.
// Pending transitions exactly once to Approved or Rejected.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// LeaveRequest is a request for time off over an inclusive date range.
type LeaveRequest struct {
	ID            uuid.UUID   `json:"id"`
	StaffID       uuid.UUID   `json:"staff_id"`
	Type          LeaveType   `json:"leave_type"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       time.Time   `json:"end_date"`
	Reason        string      `json:"reason,omitempty"`
	Status        LeaveStatus `json:"status"`
	DecidedBy     *uuid.UUID  `json:"decided_by,omitempty"`
	DecisionNotes string      `json:"decision_notes,omitempty"`
	DecidedAt     *time.Time  `json:"decided_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Covers reports whether day falls within the request's inclusive range.
func (l *LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(l.StartDate) && !day.After(l.EndDate)
}
