// Package corerr defines the single error taxonomy shared by storage,
// upstream, and pipeline code: Db, Network, Parse, NotFound, Other.
package corerr

import (
	"database/sql"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
)

type Kind string

const (
	KindDb       Kind = "db"
	KindNetwork  Kind = "network"
	KindParse    Kind = "parse"
	KindNotFound Kind = "not_found"
	KindOther    Kind = "other"
)

// CoreError is the one error type every core package returns. Callers
// compare against a Kind with errors.As, not string matching.
type CoreError struct {
	Kind Kind
	msg  string
	err  error
}

func (e *CoreError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *CoreError) Unwrap() error { return e.err }

func newErr(kind Kind, msg string, cause error) *CoreError {
	return &CoreError{Kind: kind, msg: msg, err: cause}
}

func Db(msg string, cause error) *CoreError       { return newErr(KindDb, msg, cause) }
func Network(msg string, cause error) *CoreError  { return newErr(KindNetwork, msg, cause) }
func Parse(msg string, cause error) *CoreError    { return newErr(KindParse, msg, cause) }
func NotFound(msg string, cause error) *CoreError { return newErr(KindNotFound, msg, cause) }
func Other(msg string, cause error) *CoreError    { return newErr(KindOther, msg, cause) }

// Is reports whether err is a CoreError of the given kind.
func Is(err error, kind Kind) bool {
	var ce *CoreError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Kind == kind
}

// FromStorageErr maps a generic backend failure onto the Db kind, except for
// sql.ErrNoRows, which maps to NotFound, matching spec §7 ("StorageError
// from any backend maps to Db"). Other "absent key" signals (io.EOF and the
// like) are not special-cased and map to Db.
func FromStorageErr(msg string, cause error) *CoreError {
	if errors.Is(cause, sql.ErrNoRows) {
		return NotFound(msg, cause)
	}
	return Db(msg, cause)
}

// FromJSONErr maps JSON decode failures onto the Parse kind.
func FromJSONErr(msg string, cause error) *CoreError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(cause, &syntaxErr) || errors.As(cause, &typeErr) || errors.Is(cause, io.ErrUnexpectedEOF) {
		return Parse(msg, cause)
	}
	return Parse(msg, cause)
}
