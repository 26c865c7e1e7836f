package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Club is the descriptive profile shown on the public site. A deployment
// normally has exactly one.
//
// Image fields hold storage paths; empty means not uploaded.
type Club struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ClubName    string             `bson:"clubName" json:"clubName"`
	Description string             `bson:"description" json:"description"`
	Philosophy  string             `bson:"philosophy" json:"philosophy"`
	LogoMeaning string             `bson:"logomeaning" json:"logomeaning"`

	EventPoster1    string `bson:"eventPoster1,omitempty" json:"eventPoster1"`
	EventPoster2    string `bson:"eventPoster2,omitempty" json:"eventPoster2"`
	EventPoster3    string `bson:"eventPoster3,omitempty" json:"eventPoster3"`
	WebIcon         string `bson:"webIcon,omitempty" json:"webIcon"`
	BackgroundImage string `bson:"backgroundImage,omitempty" json:"backgroundImage"`
	LogoImage       string `bson:"logoImage,omitempty" json:"logoImage"`
	AboutImage      string `bson:"aboutImage,omitempty" json:"aboutImage"`

	FPSPaymentNumber string `bson:"fpsPaymentNumber" json:"fpsPaymentNumber"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
}
