package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ConstraintKind enumerates the scheduling rules known to the engine. Only a
// subset is actively evaluated; the remainder are registered extension
// points for soft-score accumulation.
type ConstraintKind string

const (
	ConstraintNoRoomConflict         ConstraintKind = "NoRoomConflict"
	ConstraintNoInstructorConflict   ConstraintKind = "NoInstructorConflict"
	ConstraintRoomTypeMatch          ConstraintKind = "RoomTypeMatch"
	ConstraintRoomCapacity           ConstraintKind = "RoomCapacity"
	ConstraintInstructorAvailability ConstraintKind = "InstructorAvailability"
	ConstraintInstructorMaxHours     ConstraintKind = "InstructorMaxHours"
	ConstraintConsecutiveCourses     ConstraintKind = "ConsecutiveCourses"
	ConstraintMinimizeGaps           ConstraintKind = "MinimizeGaps"
	ConstraintPreferredTimeSlots     ConstraintKind = "PreferredTimeSlots"
	ConstraintBalancedDistribution   ConstraintKind = "BalancedDistribution"
)

// KnownConstraintKinds lists every registrable kind.
var KnownConstraintKinds = []ConstraintKind{
	ConstraintNoRoomConflict,
	ConstraintNoInstructorConflict,
	ConstraintRoomTypeMatch,
	ConstraintRoomCapacity,
	ConstraintInstructorAvailability,
	ConstraintInstructorMaxHours,
	ConstraintConsecutiveCourses,
	ConstraintMinimizeGaps,
	ConstraintPreferredTimeSlots,
	ConstraintBalancedDistribution,
}

// ValidConstraintKind reports whether the kind is registrable.
func ValidConstraintKind(kind ConstraintKind) bool {
	for _, k := range KnownConstraintKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ConstraintDefinition configures one scheduling rule. Hard constraints block
// commits; soft ones accumulate weighted penalties.
type ConstraintDefinition struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Kind       ConstraintKind `db:"kind" json:"kind"`
	IsHard     bool           `db:"is_hard" json:"is_hard"`
	Weight     int            `db:"weight" json:"weight"`
	Parameters types.JSONText `db:"parameters" json:"parameters,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}
