// internal/domain/models/readinglist.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadingList is a user-owned, named collection of books. NameCI is
// unique per owner, so two users may both have a "to read" list.
type ReadingList struct {
	ID     primitive.ObjectID   `bson:"_id" json:"id"`
	Name   string               `bson:"name" json:"name"`
	NameCI string               `bson:"name_ci" json:"-"`
	Owner  primitive.ObjectID   `bson:"owner" json:"owner"`
	Books  []primitive.ObjectID `bson:"books" json:"books"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
