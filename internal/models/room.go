package models

import "time"

// Room models a physical classroom or lab. RoomNo is the label printed on
// the routine and is unique across the building.
type Room struct {
	ID        string    `db:"id" json:"id"`
	RoomNo    string    `db:"room_no" json:"room_no"`
	Building  string    `db:"building" json:"building"`
	Capacity  int       `db:"capacity" json:"capacity"`
	IsLab     bool      `db:"is_lab" json:"is_lab"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter defines filters supported by list endpoints.
type RoomFilter struct {
	RoomNo    string
	Building  string
	IsLab     *bool
	IsActive  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
