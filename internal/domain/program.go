package domain

import "github.com/google/uuid"

// Program type constants as published by the catalog service.
const (
	TypeMicroMasters            = "MicroMasters"
	TypeProfessionalProgram     = "Professional Program"
	TypeProfessionalCertificate = "Professional Certificate"
	TypeXSeries                 = "XSeries"
	TypeMasters                 = "Masters"
	TypeMicroBachelors          = "MicroBachelors"
)

// StatusPublished marks a course run visible on the marketing site.
const StatusPublished = "published"

// Program is a bundled credential composed of multiple courses.
type Program struct {
	UUID    uuid.UUID
	Type    string
	Title   string
	Courses []Course
}

// Course groups the scheduled runs of a single course inside a program.
type Course struct {
	Key        string
	Title      string
	CourseRuns []CourseRun
}

// CourseRun is one scheduled offering of a course.
type CourseRun struct {
	Key              string
	Title            string
	ShortDescription string
	MarketingURL     string
	Image            Image
	Status           string
	IsEnrollable     bool
	IsMarketable     bool
}

// Image holds the marketing banner reference of a course run.
type Image struct {
	Src string
}

// Suggestible reports whether the run can be offered as a next step after
// completing completedKey. All five marketing conditions must hold and the
// run must not be the course just finished.
func (r CourseRun) Suggestible(completedKey string) bool {
	return r.IsEnrollable &&
		r.IsMarketable &&
		r.MarketingURL != "" &&
		r.Image.Src != "" &&
		r.Status == StatusPublished &&
		r.Key != completedKey
}

// FindCourseRun locates a run by key anywhere in the program.
func (p Program) FindCourseRun(key string) (CourseRun, bool) {
	for _, course := range p.Courses {
		for _, run := range course.CourseRuns {
			if run.Key == key {
				return run, true
			}
		}
	}
	return CourseRun{}, false
}

// ProgramProgress partitions a program's courses by one learner's progress.
// The partition is computed by the external progress service; this job only
// reads it.
type ProgramProgress struct {
	ProgramUUID uuid.UUID
	Completed   []Course
	InProgress  []Course
	NotStarted  []Course
}
