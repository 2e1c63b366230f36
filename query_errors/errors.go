// Provides common query engine error definitions.
package query_errors

import "errors"

var (
	// physical scan or proximity search failed
	ErrScan = errors.New("query: scan failed")

	// a cursor was requested for an id the iterator never produced
	// while its scan still has data; the query tree is wired wrong
	ErrIterationConsistency = errors.New("query: iteration consistency violated")

	ErrMalformedCursor = errors.New("query: malformed cursor")
	ErrUnsupported     = errors.New("query: unsupported operation")
	ErrFieldLoad       = errors.New("query: entity field load failed")
	ErrNoPage          = errors.New("query: no page available, check HasNext first")
	ErrUnknownNode     = errors.New("query: unknown query node")
	ErrBadQuery        = errors.New("query: bad query")
)
