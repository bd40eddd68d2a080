// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a top-of-feed item authored by a user. Content is sanitized
// before storage.
type Post struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Author  primitive.ObjectID `bson:"author" json:"author"`
	Content string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
