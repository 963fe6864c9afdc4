// Package models holds the rows stored by the mirror server.
package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Document is one mirrored ledger record. Body is the JSON object the client
// sent; the server never interprets it beyond checking it is an object.
type Document struct {
	OwnerID    string
	Collection string
	DocID      string
	Body       json.RawMessage
	UpdatedAt  time.Time
}
