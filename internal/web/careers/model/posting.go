package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Posting is one job opening. Unpublished postings are only visible
// through the admin surface.
type Posting struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Team        string             `bson:"team" json:"team"`
	Location    string             `bson:"location" json:"location"`
	Description string             `bson:"description" json:"description"`
	Published   bool               `bson:"published" json:"published"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
