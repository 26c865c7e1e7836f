package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FinanceRecord is an income or expenditure entry. Income and expenditure
// live in separate collections; the receipt fields are only used for income.
type FinanceRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title          string             `bson:"title" json:"title"`
	Date           time.Time          `bson:"date" json:"date"`
	Category       string             `bson:"category" json:"category"`
	PersonInCharge string             `bson:"personInCharge" json:"personInCharge"`
	FeeItems       any                `bson:"feeItems,omitempty" json:"feeItems,omitempty"`
	Remarks        string             `bson:"remarks" json:"remarks"`
	TotalAmount    float64            `bson:"totalAmount" json:"totalAmount"`

	// Income receipt fields.
	CreateReceipt bool       `bson:"createReceipt,omitempty" json:"createReceipt,omitempty"`
	IssueDate     *time.Time `bson:"issueDate,omitempty" json:"issueDate,omitempty"`
	BillTo        string     `bson:"billTo,omitempty" json:"billTo,omitempty"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
}

// Category is a finance or inventory taxonomy entry.
// Code and Category are each unique within their collection.
type Category struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code       string             `bson:"code" json:"code"`
	Category   string             `bson:"category" json:"category"`
	ClubID     string             `bson:"clubId,omitempty" json:"clubId,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	ModifiedAt time.Time          `bson:"modifiedAt" json:"modifiedAt"`
}
