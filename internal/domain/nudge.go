package domain

import "fmt"

// NudgeEventName is the analytics event consumed by the email automation.
const NudgeEventName = "edx.bi.program.course-enrollment.nudge"

// NudgeEvent is the payload of one suggestion notification.
type NudgeEvent struct {
	User               User
	Program            Program
	CompletedRun       CourseRun
	SuggestedRun       CourseRun
	SuggestedCourseURL string
}

// Properties renders the event in the shape the downstream automation
// expects. Property names are part of the wire contract.
func (e NudgeEvent) Properties() map[string]string {
	return map[string]string{
		"COURSE_ONE_NAME":              e.CompletedRun.Title,
		"PROGRAM_TYPE":                 e.Program.Type,
		"PROGRAM_TITLE":                e.Program.Title,
		"COURSE_TWO_NAME":              e.SuggestedRun.Title,
		"COURSE_TWO_SHORT_DESCRIPTION": e.SuggestedRun.ShortDescription,
		"COURSE_TWO_LINK":              e.SuggestedCourseURL,
		"COURSE_TWO_IMAGE_LINK":        e.SuggestedRun.Image.Src,
	}
}

// AuditRecord is the operator-visible trace of one sent (or would-send) nudge.
type AuditRecord struct {
	Username        string
	CompletedCourse string
	SuggestedCourse string
}

func (r AuditRecord) String() string {
	return fmt.Sprintf("User: %s, Completed Course: %s, Suggested Course: %s",
		r.Username, r.CompletedCourse, r.SuggestedCourse)
}
