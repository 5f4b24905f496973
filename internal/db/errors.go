package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrClosed      = errors.New("db: engine closed")
)

// Op constants name the engine request or Redis command for error context.
const (
	OpAdd     = "ADD"
	OpCommit  = "COMMIT"
	OpDelete  = "DELETE"
	OpSelect  = "SELECT"
	OpPing    = "PING"
	OpDel     = "DEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
)

// Error wraps an underlying error with the operation name for diagnostics.
// Code and Msg carry the engine's structured error when it returned one.
type Error struct {
	Op   string
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Op + ": " + e.Msg
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Err }
