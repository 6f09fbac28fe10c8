package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrInvalidDocument = errors.New("db: invalid document")
	ErrUnsupportedOp   = errors.New("db: unsupported query operator")
)

// IDField is the internal identifier field excluded from every projection.
const IDField = "_id"

// Op constants name the backend operation for error context.
const (
	OpPing      = "PING"
	OpFind      = "FIND"
	OpInsertOne = "INSERT_ONE"
	OpLRange    = "LRANGE"
	OpRPush     = "RPUSH"
	OpConnect   = "CONNECT"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
