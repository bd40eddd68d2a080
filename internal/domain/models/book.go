// internal/domain/models/book.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a title in the club catalog. Groups lists the reading groups
// currently reading it; TitleCI carries the unique index.
type Book struct {
	ID      primitive.ObjectID   `bson:"_id" json:"id"`
	Title   string               `bson:"title" json:"title"`
	TitleCI string               `bson:"title_ci" json:"-"`
	AddedBy primitive.ObjectID   `bson:"added_by" json:"added_by"`
	Groups  []primitive.ObjectID `bson:"groups" json:"groups"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
