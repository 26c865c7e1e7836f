package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MultipleSectionYes is the form value that turns on per-section registration.
const MultipleSectionYes = "yes"

// Section is a parallel offering of an event with its own capacity.
type Section struct {
	Name            string `bson:"name" json:"name"`
	MaxRegistration int    `bson:"maxRegistration" json:"maxRegistration"`
}

// Event is a club activity that members can register for.
//
// Date and time fields are kept as ISO strings (YYYY-MM-DD, HH:MM) because
// the upcoming-events query compares them lexically.
type Event struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventName        string             `bson:"eventName" json:"eventName"`
	EventDescription string             `bson:"eventDescription" json:"eventDescription"`
	EventDateFrom    string             `bson:"eventDateFrom" json:"eventDateFrom"`
	EventDateTo      string             `bson:"eventDateTo" json:"eventDateTo"`
	EventTimeStart   string             `bson:"eventTimeStart" json:"eventTimeStart"`
	EventTimeEnd     string             `bson:"eventTimeEnd" json:"eventTimeEnd"`
	EventType        string             `bson:"eventType" json:"eventType"`
	EventPrice       float64            `bson:"eventPrice" json:"eventPrice"`
	EventVenue       string             `bson:"eventVenue" json:"eventVenue"`

	MultipleSection      string    `bson:"multipleSection" json:"multipleSection"`
	SectionNumber        string    `bson:"sectionNumber,omitempty" json:"sectionNumber,omitempty"`
	Sections             []Section `bson:"sections,omitempty" json:"sections,omitempty"`
	CanRegister          bool      `bson:"canRegister" json:"canRegister"`
	TotalMaxRegistration int       `bson:"totalmaxRegistration" json:"totalmaxRegistration"`

	// Poster is stored through the file storage backend; EventPoster is the storage path.
	EventPoster string `bson:"eventPoster" json:"eventPoster"`
	FilePath    string `bson:"filePath,omitempty" json:"filePath,omitempty"`
	FileType    string `bson:"fileType,omitempty" json:"fileType,omitempty"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
}
