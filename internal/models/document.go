package models

import "time"

// Document is the behavior every persisted resource exposes to the record
// store adapters. It is satisfied by *Product and *Category.
type Document[T any] interface {
	*T
	DocumentID() string
	AssignID(id string)
	SearchName() string
	CreatedTime() time.Time
	Stamp(created, updated time.Time)
	SortValue(field string) (any, bool)
}

// Payload is a typed request body that can be turned into a stored T.
type Payload[T any] interface {
	Document() T
}
