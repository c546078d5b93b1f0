package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessCode is a single-use token granting one investor a deck session.
// It flips from redeemed=false to redeemed=true exactly once; after that
// the hash never grants fresh access again (only the session cookie issued
// at redemption does).
type AccessCode struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvestorName string             `bson:"investor_name" json:"investor_name"`
	HashCode     string             `bson:"hash_code" json:"hash_code"`
	Redeemed     bool               `bson:"redeemed" json:"redeemed"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	RedeemedAt   *time.Time         `bson:"redeemed_at,omitempty" json:"redeemed_at,omitempty"`
}
