package models

import "time"

// Room represents a physical teaching space that can be assigned to periods.
type Room struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Capacity    int       `db:"capacity" json:"capacity"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter defines filter criteria for listing rooms.
type RoomFilter struct {
	Search    string
	Available *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
