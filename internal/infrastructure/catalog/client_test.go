package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-nudge/internal/domain"
)

const programsPayload = `{
  "results": [
    {
      "uuid": "7f1b2d3c-0a4e-4a0f-9a1b-2c3d4e5f6a7b",
      "type": "XSeries",
      "title": "Data Basics",
      "courses": [
        {
          "key": "TestX+CS202",
          "title": "Algorithms",
          "course_runs": [
            {
              "key": "course-v1:TestX+CS202+2023",
              "title": "Algorithms 2023",
              "short_description": "Sorting and searching.",
              "marketing_url": "course/algorithms",
              "image": {"src": "https://cdn.example.com/cs202.jpg"},
              "status": "published",
              "is_enrollable": true,
              "is_marketable": true
            }
          ]
        }
      ]
    }
  ]
}`

func TestProgramsByCourse(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(programsPayload))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-42")
	programs, err := client.ProgramsByCourse(context.Background(), "course-v1:TestX+CS101+2023")

	require.NoError(t, err)
	assert.Equal(t, "/programs/", gotPath)
	assert.Contains(t, gotQuery, "course=course-v1%3ATestX%2BCS101%2B2023")
	assert.Contains(t, gotQuery, "status=active")
	assert.Equal(t, "Bearer tok-42", gotAuth)

	require.Len(t, programs, 1)
	program := programs[0]
	assert.Equal(t, "7f1b2d3c-0a4e-4a0f-9a1b-2c3d4e5f6a7b", program.UUID.String())
	assert.Equal(t, domain.TypeXSeries, program.Type)
	require.Len(t, program.Courses, 1)
	require.Len(t, program.Courses[0].CourseRuns, 1)

	run := program.Courses[0].CourseRuns[0]
	assert.Equal(t, "course-v1:TestX+CS202+2023", run.Key)
	assert.Equal(t, "https://cdn.example.com/cs202.jpg", run.Image.Src)
	assert.True(t, run.Suggestible("course-v1:TestX+CS101+2023"))
}

func TestProgramsByCourseEmptyResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	programs, err := NewClient(server.URL, "").ProgramsByCourse(context.Background(), "course-v1:TestX+CS101+2023")

	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestProgramsByCourseServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").ProgramsByCourse(context.Background(), "course-v1:TestX+CS101+2023")
	assert.Error(t, err)
}

func TestProgramsByCourseBadUUID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"uuid": "nope", "type": "XSeries", "title": "Broken"}]}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").ProgramsByCourse(context.Background(), "course-v1:TestX+CS101+2023")
	assert.Error(t, err)
}
