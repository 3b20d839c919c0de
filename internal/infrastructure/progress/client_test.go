package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-nudge/internal/domain"
)

func TestPartitionPreservesRequestedOrder(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		// respond in reverse order on purpose
		fmt.Fprintf(w, `[
			{"uuid": %q, "not_started": [{"key": "B", "course_runs": []}]},
			{"uuid": %q, "not_started": [{"key": "A", "course_runs": []}]}
		]`, second, first)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	partitions, err := client.Partition(context.Background(), domain.User{Username: "alice"}, []uuid.UUID{first, second})

	require.NoError(t, err)
	assert.Equal(t, "alice", gotBody["username"])

	require.Len(t, partitions, 2)
	assert.Equal(t, first, partitions[0].ProgramUUID)
	assert.Equal(t, "A", partitions[0].NotStarted[0].Key)
	assert.Equal(t, second, partitions[1].ProgramUUID)
}

func TestPartitionDecodesBuckets(t *testing.T) {
	t.Parallel()

	programUUID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{
			"uuid": %q,
			"completed": [{"key": "CS100x", "course_runs": []}],
			"in_progress": [{"key": "CS101x", "course_runs": []}],
			"not_started": [{
				"key": "CS202x",
				"title": "Algorithms",
				"course_runs": [{
					"key": "course-v1:TestX+CS202+2023",
					"title": "Algorithms 2023",
					"marketing_url": "course/algorithms",
					"image": {"src": "https://cdn.example.com/cs202.jpg"},
					"status": "published",
					"is_enrollable": true,
					"is_marketable": true
				}]
			}]
		}]`, programUUID)
	}))
	defer server.Close()

	partitions, err := NewClient(server.URL).Partition(context.Background(), domain.User{Username: "alice"}, []uuid.UUID{programUUID})

	require.NoError(t, err)
	require.Len(t, partitions, 1)

	partition := partitions[0]
	assert.Len(t, partition.Completed, 1)
	assert.Len(t, partition.InProgress, 1)
	require.Len(t, partition.NotStarted, 1)

	run := partition.NotStarted[0].CourseRuns[0]
	assert.Equal(t, domain.StatusPublished, run.Status)
	assert.True(t, run.IsEnrollable)
}

func TestPartitionServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Partition(context.Background(), domain.User{Username: "alice"}, nil)
	assert.Error(t, err)
}
