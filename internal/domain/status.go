package domain

// Attendance day statuses, shared between the attendance workflow and
// the scoring engine.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
)
