// Package selection implements the next-course suggestion algorithm: given
// the programs containing a just-completed course and the learner's progress
// through them, pick the first enrollable run the learner has not started.
package selection

import (
	"sort"

	"github.com/google/uuid"

	"course-nudge/internal/domain"
)

// revenueRank orders program types by expected revenue. Unknown types sort
// after every known one.
var revenueRank = map[string]int{
	domain.TypeMicroMasters:            1,
	domain.TypeProfessionalProgram:     2,
	domain.TypeProfessionalCertificate: 3,
	domain.TypeXSeries:                 4,
	domain.TypeMasters:                 5,
	domain.TypeMicroBachelors:          6,
}

const unknownTypeRank = 7

// RankPrograms returns the programs sorted by revenue priority. The sort is
// stable: programs of equal rank keep their input order.
func RankPrograms(programs []domain.Program) []domain.Program {
	ranked := make([]domain.Program, len(programs))
	copy(ranked, programs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankOf(ranked[i].Type) < rankOf(ranked[j].Type)
	})
	return ranked
}

func rankOf(programType string) int {
	if rank, ok := revenueRank[programType]; ok {
		return rank
	}
	return unknownTypeRank
}

// Match is the selected next step: the program it comes from, the not-started
// course, and the concrete run to enroll in.
type Match struct {
	Program domain.Program
	Course  domain.Course
	Run     domain.CourseRun
}

// NextCourse walks the ranked progress partitions and returns the first
// suggestible course run, scanning only courses the learner has not started.
// Iteration order is fixed: program order, then course order, then run order;
// the first hit wins. A false result means nothing to suggest, which is a
// normal outcome rather than an error.
func NextCourse(progress []domain.ProgramProgress, programs map[uuid.UUID]domain.Program, completedKey string) (Match, bool) {
	for _, partition := range progress {
		program, ok := programs[partition.ProgramUUID]
		if !ok {
			continue
		}
		for _, course := range partition.NotStarted {
			for _, run := range course.CourseRuns {
				if run.Suggestible(completedKey) {
					return Match{Program: program, Course: course, Run: run}, true
				}
			}
		}
	}
	return Match{}, false
}
