// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is one node in a group's comment forest.
//
// Parent is nil for a top-level comment and otherwise references another
// comment in the same group. Group is set once at creation. Deleting a
// comment removes its whole subtree, so a surviving comment's Parent
// always resolves (absent interrupted cascades, which are an accepted
// partial-failure mode).
type Comment struct {
	ID     primitive.ObjectID  `bson:"_id" json:"id"`
	Author primitive.ObjectID  `bson:"author" json:"author"`
	Body   string              `bson:"body" json:"body"`
	Group  primitive.ObjectID  `bson:"group" json:"group"`
	Parent *primitive.ObjectID `bson:"parent" json:"parent"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
