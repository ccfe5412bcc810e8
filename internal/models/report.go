package models

import (
	"time"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
)

type ReportTarget string

const (
	TargetJob  ReportTarget = "job"
	TargetUser ReportTarget = "user"
)

type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is a user complaint about a job or another user, handled by admins
type Report struct {
	ID         string       `json:"id" bson:"_id"`
	ReporterID string       `json:"reporterId" bson:"reporterId"`
	TargetType ReportTarget `json:"targetType" bson:"targetType"`
	TargetID   string       `json:"targetId" bson:"targetId"`
	Reason     string       `json:"reason" bson:"reason"`
	Status     ReportStatus `json:"status" bson:"status"`
	Note       string       `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time    `json:"createdAt" bson:"createdAt"`
	ResolvedAt *time.Time   `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

func (r Report) Validate() error {
	fields := map[string]string{}
	if blank(r.ID) {
		fields["id"] = "id is required"
	}
	if blank(r.ReporterID) {
		fields["reporterId"] = "reporterId is required"
	}
	switch r.TargetType {
	case TargetJob, TargetUser:
	default:
		fields["targetType"] = "targetType must be job or user"
	}
	if blank(r.TargetID) {
		fields["targetId"] = "targetId is required"
	}
	if blank(r.Reason) {
		fields["reason"] = "reason is required"
	}
	switch r.Status {
	case ReportOpen, ReportResolved, ReportDismissed:
	default:
		fields["status"] = "status must be open, resolved, or dismissed"
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid report", fields)
	}
	return nil
}
