// Package txn runs multi-document work inside a MongoDB transaction when
// the deployment supports it (replica set / mongos), and falls back to
// plain sequential writes on standalone servers. Callers structure their
// writes so the primary document is authoritative and secondary writes
// are denormalizations, which keeps the fallback safe.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction executes fn inside a transaction on client. If the
// server does not support transactions, fn runs once without one.
func WithTransaction(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions unsupported, running without one", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}

// Server error codes that indicate the deployment cannot run
// transactions (standalone server or illegal operation).
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation wording on older servers
	51:  true, // illegal operation
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err means the MongoDB deployment cannot
// run transactions, as opposed to the transaction itself failing.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && notSupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") {
		if strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "session") ||
			strings.Contains(msg, "illegal operation") {
			return true
		}
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
