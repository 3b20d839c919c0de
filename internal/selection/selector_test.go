package selection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-nudge/internal/domain"
)

func eligibleRun(key string) domain.CourseRun {
	return domain.CourseRun{
		Key:          key,
		Title:        "Run " + key,
		MarketingURL: "course/" + key,
		Image:        domain.Image{Src: "https://cdn.example.com/" + key + ".jpg"},
		Status:       domain.StatusPublished,
		IsEnrollable: true,
		IsMarketable: true,
	}
}

func TestRankPrograms(t *testing.T) {
	t.Parallel()

	programs := []domain.Program{
		{Title: "masters", Type: domain.TypeMasters},
		{Title: "bootcamp", Type: "Bootcamp"},
		{Title: "xseries", Type: domain.TypeXSeries},
		{Title: "micromasters", Type: domain.TypeMicroMasters},
		{Title: "certificate", Type: domain.TypeProfessionalCertificate},
	}

	ranked := RankPrograms(programs)

	var titles []string
	for _, p := range ranked {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"micromasters", "certificate", "xseries", "masters", "bootcamp"}, titles)
}

func TestRankProgramsStableWithinRank(t *testing.T) {
	t.Parallel()

	programs := []domain.Program{
		{Title: "first-unknown", Type: "Career Track"},
		{Title: "mm", Type: domain.TypeMicroMasters},
		{Title: "second-unknown", Type: "Nanodegree"},
	}

	ranked := RankPrograms(programs)

	require.Len(t, ranked, 3)
	assert.Equal(t, "mm", ranked[0].Title)
	assert.Equal(t, "first-unknown", ranked[1].Title)
	assert.Equal(t, "second-unknown", ranked[2].Title)
}

func TestRankProgramsDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	programs := []domain.Program{
		{Title: "xseries", Type: domain.TypeXSeries},
		{Title: "mm", Type: domain.TypeMicroMasters},
	}

	_ = RankPrograms(programs)

	assert.Equal(t, "xseries", programs[0].Title)
}

func TestNextCourseNothingEligible(t *testing.T) {
	t.Parallel()

	programUUID := uuid.New()
	tests := []struct {
		name string
		run  domain.CourseRun
	}{
		{"not enrollable", func() domain.CourseRun {
			r := eligibleRun("CS200")
			r.IsEnrollable = false
			return r
		}()},
		{"not marketable", func() domain.CourseRun {
			r := eligibleRun("CS200")
			r.IsMarketable = false
			return r
		}()},
		{"no marketing url", func() domain.CourseRun {
			r := eligibleRun("CS200")
			r.MarketingURL = ""
			return r
		}()},
		{"no image", func() domain.CourseRun {
			r := eligibleRun("CS200")
			r.Image.Src = ""
			return r
		}()},
		{"unpublished", func() domain.CourseRun {
			r := eligibleRun("CS200")
			r.Status = "unpublished"
			return r
		}()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			progress := []domain.ProgramProgress{{
				ProgramUUID: programUUID,
				NotStarted:  []domain.Course{{Key: "CS200x", CourseRuns: []domain.CourseRun{tt.run}}},
			}}
			programs := map[uuid.UUID]domain.Program{
				programUUID: {UUID: programUUID, Type: domain.TypeXSeries},
			}

			_, found := NextCourse(progress, programs, "CS101")
			assert.False(t, found)
		})
	}
}

func TestNextCourseSkipsCompletedCourseKey(t *testing.T) {
	t.Parallel()

	programUUID := uuid.New()
	progress := []domain.ProgramProgress{{
		ProgramUUID: programUUID,
		NotStarted: []domain.Course{{
			Key:        "CS101x",
			CourseRuns: []domain.CourseRun{eligibleRun("CS101"), eligibleRun("CS102")},
		}},
	}}
	programs := map[uuid.UUID]domain.Program{
		programUUID: {UUID: programUUID, Type: domain.TypeMicroMasters},
	}

	match, found := NextCourse(progress, programs, "CS101")

	require.True(t, found)
	assert.Equal(t, "CS102", match.Run.Key)
}

func TestNextCourseFallsThroughToSecondProgram(t *testing.T) {
	t.Parallel()

	certUUID := uuid.New()
	xseriesUUID := uuid.New()

	unmarketable := eligibleRun("CS150")
	unmarketable.IsMarketable = false

	progress := []domain.ProgramProgress{
		{
			ProgramUUID: certUUID,
			NotStarted:  []domain.Course{{Key: "CS150x", CourseRuns: []domain.CourseRun{unmarketable}}},
		},
		{
			ProgramUUID: xseriesUUID,
			NotStarted:  []domain.Course{{Key: "CS202x", CourseRuns: []domain.CourseRun{eligibleRun("CS202")}}},
		},
	}
	programs := map[uuid.UUID]domain.Program{
		certUUID:    {UUID: certUUID, Type: domain.TypeProfessionalCertificate, Title: "Cert"},
		xseriesUUID: {UUID: xseriesUUID, Type: domain.TypeXSeries, Title: "Series"},
	}

	match, found := NextCourse(progress, programs, "CS101")

	require.True(t, found)
	assert.Equal(t, domain.TypeXSeries, match.Program.Type)
	assert.Equal(t, "CS202", match.Run.Key)
	assert.Equal(t, "CS202x", match.Course.Key)
}

func TestNextCourseIgnoresInProgressCourses(t *testing.T) {
	t.Parallel()

	programUUID := uuid.New()
	progress := []domain.ProgramProgress{{
		ProgramUUID: programUUID,
		InProgress:  []domain.Course{{Key: "CS300x", CourseRuns: []domain.CourseRun{eligibleRun("CS300")}}},
	}}
	programs := map[uuid.UUID]domain.Program{
		programUUID: {UUID: programUUID, Type: domain.TypeMicroMasters},
	}

	_, found := NextCourse(progress, programs, "CS101")
	assert.False(t, found)
}

func TestNextCourseSkipsUnknownProgramUUID(t *testing.T) {
	t.Parallel()

	progress := []domain.ProgramProgress{{
		ProgramUUID: uuid.New(),
		NotStarted:  []domain.Course{{Key: "CS400x", CourseRuns: []domain.CourseRun{eligibleRun("CS400")}}},
	}}

	_, found := NextCourse(progress, map[uuid.UUID]domain.Program{}, "CS101")
	assert.False(t, found)
}
