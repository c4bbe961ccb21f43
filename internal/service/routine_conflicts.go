package service

import (
	"regexp"

	"github.com/campusworks/routine-api/internal/models"
)

// Conflict messages in classification priority order. The checker reports
// every rule that fires, not only the first.
const (
	msgSameRoomSameSection      = "Overlapping class slot in the same room for the same section."
	msgSameRoomOtherSection     = "Overlapping class slot in the same room for a different section."
	msgSameTeacherSameSection   = "Overlapping class slot with the same teacher for the same section."
	msgSameTeacherOtherSection  = "Overlapping class slot with the same teacher for a different section."
	msgSameSectionDifferentRoom = "Overlapping class slot for the same section in different rooms."
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// validTime reports whether s is a zero-padded 24-hour HH:MM string.
func validTime(s string) bool {
	return timePattern.MatchString(s)
}

// overlaps applies the half-open interval test: two slots clash when one
// starts before the other ends. Slots that merely touch (10:00-11:00 and
// 11:00-12:00) do not overlap. HH:MM strings compare lexicographically in
// chronological order, so plain string comparison suffices.
func overlaps(a, b models.RoutineEntry) bool {
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// classifyConflict returns the ordered conflict messages produced by the
// candidate against one overlapping existing entry. Both entries are in the
// same semester and day scope by construction.
func classifyConflict(candidate, existing models.RoutineEntry) []string {
	var messages []string

	sameRoom := candidate.RoomNo == existing.RoomNo
	sameTeacher := candidate.TeacherID == existing.TeacherID
	sameSection := candidate.Section == existing.Section

	if sameRoom && sameSection {
		messages = append(messages, msgSameRoomSameSection)
	}
	if sameRoom && !sameSection {
		messages = append(messages, msgSameRoomOtherSection)
	}
	if sameTeacher && sameSection {
		messages = append(messages, msgSameTeacherSameSection)
	}
	if sameTeacher && !sameSection {
		messages = append(messages, msgSameTeacherOtherSection)
	}
	if sameSection && !sameRoom {
		messages = append(messages, msgSameSectionDifferentRoom)
	}

	return messages
}

// detectConflicts runs the candidate against every entry in scope and
// collects each fired rule as a conflict record. Entries matching excludeID
// are skipped so an update does not clash with itself.
func detectConflicts(candidate models.RoutineEntry, scope []models.RoutineEntry, excludeID string) []models.RoutineConflict {
	var conflicts []models.RoutineConflict
	for _, existing := range scope {
		if excludeID != "" && existing.ID == excludeID {
			continue
		}
		if !overlaps(candidate, existing) {
			continue
		}
		for _, msg := range classifyConflict(candidate, existing) {
			conflicts = append(conflicts, models.RoutineConflict{
				EntryID:   existing.ID,
				CourseID:  existing.CourseID,
				TeacherID: existing.TeacherID,
				RoomNo:    existing.RoomNo,
				Section:   existing.Section,
				StartTime: existing.StartTime,
				EndTime:   existing.EndTime,
				Message:   msg,
			})
		}
	}
	return conflicts
}

// findDuplicate returns the existing entry whose scheduling fields all match
// the candidate, or nil when none does.
func findDuplicate(candidate models.RoutineEntry, scope []models.RoutineEntry, excludeID string) *models.RoutineEntry {
	for i := range scope {
		if excludeID != "" && scope[i].ID == excludeID {
			continue
		}
		if scope[i].SameSlotAs(candidate) {
			return &scope[i]
		}
	}
	return nil
}
