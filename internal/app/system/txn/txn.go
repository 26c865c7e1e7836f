// Package txn runs groups of MongoDB writes in a transaction when the
// deployment supports one. Standalone servers (a common local setup for the
// club backend) have no transactions, so Run falls back to plain execution
// and relies on unique indexes for the last word on conflicts.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Func receives the context to use for every database call in the group.
// Inside a transaction it is a mongo.SessionContext.
type Func func(ctx context.Context) error

// Server error codes meaning "no transactions here".
var unsupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation: not a replica set member or mongos
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

// Run calls fn inside a transaction. If the server cannot start one, fn runs
// again without it and the fallback is logged at warn (log may be nil).
// Any other error from fn or the commit is returned as is.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn Func) error {
	session, err := db.Client().StartSession()
	if err != nil {
		warn(log, "could not start session; running without transaction", err)
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warn(log, "transactions unavailable; running without transaction", err)
		return fn(ctx)
	}
	return err
}

func warn(log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Warn(msg, zap.Error(err))
	}
}

// IsNotSupported reports whether err says the deployment has no
// multi-document transactions. Command errors are matched by code; other
// errors need at least two of the telltale phrases so that an unrelated
// "session expired" does not trigger a rerun.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && unsupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	hits := 0
	for _, phrase := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, phrase) {
			hits++
		}
	}
	return hits >= 2
}
