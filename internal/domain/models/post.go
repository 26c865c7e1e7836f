package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a social feed entry with embedded likes and comments.
//
// LikesCount and CommentsCount are denormalized; every write path adjusts the
// array and the counter in the same update so they stay equal to the array
// lengths.
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	StudentID    string             `bson:"student_id" json:"student_id"`
	EventPoster1 string             `bson:"eventPoster1,omitempty" json:"eventPoster1,omitempty"`
	EventPoster2 string             `bson:"eventPoster2,omitempty" json:"eventPoster2,omitempty"`
	EventPoster3 string             `bson:"eventPoster3,omitempty" json:"eventPoster3,omitempty"`

	Likes         []Like    `bson:"likes" json:"likes"`
	LikesCount    int       `bson:"likesCount" json:"likesCount"`
	Comments      []Comment `bson:"comments" json:"comments"`
	CommentsCount int       `bson:"commentsCount" json:"commentsCount"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
}

// Like records one student's like on a post.
type Like struct {
	StudentID string `bson:"studentId" json:"studentId"`
}

// Comment is an entry in a post's embedded comments array.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	StudentID  string             `bson:"studentId" json:"studentId"`
	Comment    string             `bson:"comment" json:"comment"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	ModifiedAt *time.Time         `bson:"modifiedAt,omitempty" json:"modifiedAt,omitempty"`
}

// FeedPost is a post joined with its author's public card.
// User is nil when the author no longer exists.
type FeedPost struct {
	Post `bson:",inline"`
	User *MemberCard `bson:"user,omitempty" json:"user,omitempty"`
}
