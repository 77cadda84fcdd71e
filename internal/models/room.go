package models

import "time"

// RoomKind distinguishes lecture halls from lab rooms.
type RoomKind string

const (
	RoomLectureHall RoomKind = "Lecture Hall"
	RoomLab         RoomKind = "Lab"
)

// RoomKindForCourse returns the room kind a course kind requires.
func RoomKindForCourse(kind CourseKind) RoomKind {
	if kind == CourseLab {
		return RoomLab
	}
	return RoomLectureHall
}

// Room represents a teaching room.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Kind      RoomKind  `db:"kind" json:"kind"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering criteria for listing rooms.
type RoomFilter struct {
	Kind        string
	MinCapacity int
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
