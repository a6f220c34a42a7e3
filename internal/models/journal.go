package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Journal represents a private journaling entry for a patient
type Journal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	PatientID string             `bson:"patient_id" json:"patient_id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
}
