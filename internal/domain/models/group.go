// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a named reading group with exactly one admin.
//
// Invariants:
//   - NameCI (folded Name) is unique across all groups.
//   - Admin is always present in Members; a group never has fewer than
//     one member while it exists.
type Group struct {
	ID      primitive.ObjectID   `bson:"_id" json:"id"`
	Name    string               `bson:"name" json:"name"`
	NameCI  string               `bson:"name_ci" json:"-"`
	Admin   primitive.ObjectID   `bson:"admin" json:"admin"`
	Members []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether user is the group's admin. Every mutating
// operation that requires admin authority goes through this predicate.
func (g Group) IsAdmin(user primitive.ObjectID) bool {
	return g.Admin == user
}

// IsMember reports whether user is in the group's member set.
func (g Group) IsMember(user primitive.ObjectID) bool {
	for _, m := range g.Members {
		if m == user {
			return true
		}
	}
	return false
}
