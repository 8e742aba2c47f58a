// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Collection is the wire name of a synced entity collection.
type Collection string

const (
	Sessions     Collection = "sessions"
	Hands        Collection = "hands"
	Transactions Collection = "transactions"
)

// Collections lists every synced collection in apply order: collections that
// other rows reference come first, so a hand created in the same push as its
// session always finds it.
var Collections = []Collection{Sessions, Transactions, Hands}

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	_, ok := schemas[c]
	return ok
}

// String implements [fmt.Stringer].
func (c Collection) String() string {
	return string(c)
}

// Operation names one of the three change buckets of a ChangeSet.
type Operation string

const (
	OpCreated Operation = "created"
	OpUpdated Operation = "updated"
	OpDeleted Operation = "deleted"
)

// Operations lists the buckets in the order a push applies them.
var Operations = []Operation{OpCreated, OpUpdated, OpDeleted}
