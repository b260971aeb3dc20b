package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus is the closed set of status tags a record can carry.
type AttendanceStatus string

const (
	// StatusPresent marks a day as attended without the check-in/check-out
	// pair, e.g. an administrative correction. The state machine itself
	// writes checked_in/late/checked_out; reports honor this tag via
	// Attended.
	StatusPresent    AttendanceStatus = "present"
	StatusAbsent     AttendanceStatus = "absent"
	StatusLate       AttendanceStatus = "late"
	StatusCheckedIn  AttendanceStatus = "checked_in"
	StatusCheckedOut AttendanceStatus = "checked_out"
)

// AttendanceSource tells how a record was produced.
type AttendanceSource string

const (
	SourceFace   AttendanceSource = "face"
	SourceManual AttendanceSource = "manual"
	SourceAuto   AttendanceSource = "auto"
)

// AttendanceRecord - one row per member per calendar day (org timezone).
// Date is the local calendar date formatted as YYYY-MM-DD so records bucket
// by Kathmandu midnight regardless of the server host timezone.
type AttendanceRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	UserName   string             `bson:"userName" json:"userName"`
	Date       string             `bson:"date" json:"date"`
	CheckIn    *time.Time         `bson:"checkIn,omitempty" json:"checkIn,omitempty"`
	CheckOut   *time.Time         `bson:"checkOut,omitempty" json:"checkOut,omitempty"`
	Status     AttendanceStatus   `bson:"status" json:"status"`
	Source     AttendanceSource   `bson:"source" json:"source"`
	Confidence float64            `bson:"confidence" json:"confidence"`
}

// Open reports whether the record represents "currently checked in".
func (r *AttendanceRecord) Open() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// Attended reports whether the record counts as a present day: a check-in
// happened, or the record was tagged present by an administrative
// correction.
func (r *AttendanceRecord) Attended() bool {
	return r.CheckIn != nil || r.Status == StatusPresent
}
