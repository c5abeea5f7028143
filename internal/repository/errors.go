// Package repository holds the raw-SQL persistence layer.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateURL means an insert hit the articles.url unique
	// constraint. The unique index is the cross-run arbiter when
	// concurrent runs race on the same URL; callers treat this as a
	// duplicate, not a failure.
	ErrDuplicateURL = errors.New("duplicate url")

	// ErrRunClosed means a crawl run was already moved to a terminal
	// status. Runs close exactly once.
	ErrRunClosed = errors.New("crawl run already closed")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
