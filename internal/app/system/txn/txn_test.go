package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/strataclub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"code 20", mongo.CommandError{Code: 20, Message: "x"}, true},
		{"code 263", mongo.CommandError{Code: 263, Message: "x"}, true},
		{"wrapped code 20", fmt.Errorf("create category: %w", mongo.CommandError{Code: 20}), true},
		{"other code", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"replica set message", errors.New("Transaction numbers are only allowed on a replica set member or mongos"), true},
		{"unrelated", errors.New("connection refused"), false},
		{"single keyword", errors.New("session expired"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		_, err := db.Collection("finance_categories").InsertOne(ctx, bson.M{"code": "EVT", "category": "Events"})
		return err
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	n, err := db.Collection("finance_categories").CountDocuments(ctx, bson.M{"code": "EVT"})
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestRun_PropagatesError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sentinel := errors.New("duplicate category")
	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("Run() error = %v, want %v", err, sentinel)
	}
}
