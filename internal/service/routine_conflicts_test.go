package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/routine-api/internal/models"
)

func slot(id, start, end, teacherID, roomNo, section string) models.RoutineEntry {
	return models.RoutineEntry{
		ID:           id,
		SemesterName: "Fall 2026",
		Day:          "MONDAY",
		StartTime:    start,
		EndTime:      end,
		CourseID:     "CSE-2101",
		TeacherID:    teacherID,
		RoomNo:       roomNo,
		Section:      section,
		ClassType:    models.ClassTypeTheory,
	}
}

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "13:05", "23:59"}
	for _, s := range valid {
		assert.True(t, validTime(s), s)
	}
	invalid := []string{"24:00", "9:30", "10:60", "10:5", "1000", "10-00", ""}
	for _, s := range invalid {
		assert.False(t, validTime(s), s)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name    string
		aStart  string
		aEnd    string
		bStart  string
		bEnd    string
		overlap bool
	}{
		{"partial overlap", "10:00", "11:30", "11:00", "12:00", true},
		{"contained", "10:00", "12:00", "10:30", "11:00", true},
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"touching boundaries", "10:00", "11:00", "11:00", "12:00", false},
		{"touching reversed", "11:00", "12:00", "10:00", "11:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := slot("a", tc.aStart, tc.aEnd, "T1", "R1", "A")
			b := slot("b", tc.bStart, tc.bEnd, "T2", "R2", "B")
			assert.Equal(t, tc.overlap, overlaps(a, b))
			assert.Equal(t, tc.overlap, overlaps(b, a))
		})
	}
}

func TestClassifyConflict(t *testing.T) {
	tests := []struct {
		name     string
		existing models.RoutineEntry
		want     []string
	}{
		{
			name:     "same room same section",
			existing: slot("e", "10:00", "11:00", "T2", "R1", "A"),
			want:     []string{msgSameRoomSameSection},
		},
		{
			name:     "same room different section",
			existing: slot("e", "10:00", "11:00", "T2", "R1", "B"),
			want:     []string{msgSameRoomOtherSection},
		},
		{
			name:     "same teacher same section",
			existing: slot("e", "10:00", "11:00", "T1", "R2", "A"),
			want:     []string{msgSameTeacherSameSection, msgSameSectionDifferentRoom},
		},
		{
			name:     "same teacher different section",
			existing: slot("e", "10:00", "11:00", "T1", "R2", "B"),
			want:     []string{msgSameTeacherOtherSection},
		},
		{
			name:     "same section different rooms",
			existing: slot("e", "10:00", "11:00", "T2", "R2", "A"),
			want:     []string{msgSameSectionDifferentRoom},
		},
		{
			name:     "same room teacher and section",
			existing: slot("e", "10:00", "11:00", "T1", "R1", "A"),
			want:     []string{msgSameRoomSameSection, msgSameTeacherSameSection},
		},
		{
			name:     "no shared resource",
			existing: slot("e", "10:00", "11:00", "T2", "R2", "B"),
			want:     nil,
		},
	}

	candidate := slot("c", "10:30", "11:30", "T1", "R1", "A")
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyConflict(candidate, tc.existing))
		})
	}
}

func TestDetectConflictsCollectsEveryRule(t *testing.T) {
	candidate := slot("c", "10:00", "12:00", "T1", "R1", "A")
	scope := []models.RoutineEntry{
		slot("e1", "10:00", "11:00", "T9", "R1", "A"),
		slot("e2", "11:00", "12:00", "T1", "R9", "B"),
		slot("e3", "08:00", "09:00", "T1", "R1", "A"),
	}

	conflicts := detectConflicts(candidate, scope, "")
	require.Len(t, conflicts, 2)
	assert.Equal(t, "e1", conflicts[0].EntryID)
	assert.Equal(t, msgSameRoomSameSection, conflicts[0].Message)
	assert.Equal(t, "e2", conflicts[1].EntryID)
	assert.Equal(t, msgSameTeacherOtherSection, conflicts[1].Message)
}

func TestDetectConflictsExcludesOwnEntry(t *testing.T) {
	candidate := slot("e1", "10:00", "11:00", "T1", "R1", "A")
	scope := []models.RoutineEntry{
		slot("e1", "10:00", "11:00", "T1", "R1", "A"),
	}

	assert.Empty(t, detectConflicts(candidate, scope, "e1"))
	assert.Len(t, detectConflicts(candidate, scope, ""), 2)
}

func TestFindDuplicate(t *testing.T) {
	candidate := slot("", "10:00", "11:00", "T1", "R1", "A")
	existing := slot("e1", "10:00", "11:00", "T1", "R1", "A")
	scope := []models.RoutineEntry{existing}

	dup := findDuplicate(candidate, scope, "")
	require.NotNil(t, dup)
	assert.Equal(t, "e1", dup.ID)

	assert.Nil(t, findDuplicate(candidate, scope, "e1"))

	other := candidate
	other.ClassType = models.ClassTypeLab
	assert.Nil(t, findDuplicate(other, scope, ""))
}
