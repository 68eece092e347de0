// Package store writes seed documents into a schema-less document store.
//
// A Store commits one atomic batch of operations at a time. The Writer on top
// of it splits arbitrarily long document lists and collection erasures into
// batches no larger than the configured limit and commits them in order.
package store

import "context"

// Collection names.
const (
	Customers           = "customers"
	Helpers             = "helpers"
	ServiceTypes        = "service_types"
	Orders              = "orders"
	TravelTimes         = "travel_times"
	StaffUnavailability = "staff_unavailability"
)

// Collections lists every collection the seed tool owns, in import order.
var Collections = []string{Customers, Helpers, ServiceTypes, Orders, TravelTimes, StaffUnavailability}

// Document is a keyed document ready to be written.
type Document struct {
	ID   string
	Data map[string]any
}

// OpKind is the kind of a batched operation.
type OpKind int

const (
	OpSet OpKind = iota
	OpDelete
)

func (k OpKind) String() string {
	if k == OpDelete {
		return "delete"
	}
	return "set"
}

// Op is one document operation inside a batch.
type Op struct {
	Kind OpKind
	ID   string
	Data map[string]any // nil for deletes
}

// Store is a document store with atomic batched writes.
type Store interface {
	// Commit applies ops to collection atomically: either all are applied or none.
	Commit(ctx context.Context, collection string, ops []Op) error

	// ListIDs returns the ids of every document in collection.
	ListIDs(ctx context.Context, collection string) ([]string, error)

	Close() error
}
