package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration links one student to one event (and optionally a section).
//
// StudentID and EventID are plain strings, not references. (StudentID, EventID)
// is the natural key for delete, attendance and status lookups; it is not
// unique, so a student may hold several registrations for the same event.
type Registration struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StudentID       string             `bson:"student_id" json:"student_id"`
	EventID         string             `bson:"event_id" json:"event_id"`
	SelectedSession string             `bson:"selectedSession,omitempty" json:"selectedSession,omitempty"`
	MultipleSection string             `bson:"multipleSection,omitempty" json:"multipleSection,omitempty"`
	SectionData     any                `bson:"sectionData,omitempty" json:"sectionData,omitempty"`
	EventDateFrom   string             `bson:"eventDateFrom,omitempty" json:"eventDateFrom,omitempty"`
	EventName       string             `bson:"eventName,omitempty" json:"eventName,omitempty"`
	PaymentMethod   string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	FPSPaymentPhoto string             `bson:"fpsPaymentPhoto,omitempty" json:"fpsPaymentPhoto,omitempty"`

	Attendance bool   `bson:"attendance" json:"attendance"`
	Confirm    bool   `bson:"confirm" json:"confirm"`
	QRCode     string `bson:"qrCode,omitempty" json:"qrCode,omitempty"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
}
