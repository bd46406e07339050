package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment records an uploaded image; the bytes themselves live in the
// blob store under BlobKey.
type Attachment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	Extension    string             `bson:"extension"`
	OriginalName string             `bson:"original_name"`
	RegDate      time.Time          `bson:"reg_date"`
}

func (a *Attachment) BlobKey() string {
	return fmt.Sprintf("%s.%s", a.ID.Hex(), a.Extension)
}

// StaticData is an operator-managed content document (help entries and the
// like), served read-only.
type StaticData struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Details string             `bson:"details"`
	Type    string             `bson:"type"`
}

func (d *StaticData) Marshal() map[string]interface{} {
	return map[string]interface{}{
		"id":      d.ID.Hex(),
		"title":   d.Title,
		"details": d.Details,
		"type":    d.Type,
	}
}
