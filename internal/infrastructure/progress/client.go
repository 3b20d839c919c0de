package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"course-nudge/internal/domain"
	"course-nudge/internal/ports"
)

// Client talks to the progress-computation service, which partitions a
// program's courses into completed / in progress / not started for a learner.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.ProgressMeter = (*Client)(nil)

// NewClient creates a reusable HTTP client for the progress API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type courseDTO struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	CourseRuns []struct {
		Key              string `json:"key"`
		Title            string `json:"title"`
		ShortDescription string `json:"short_description"`
		MarketingURL     string `json:"marketing_url"`
		Image            struct {
			Src string `json:"src"`
		} `json:"image"`
		Status       string `json:"status"`
		IsEnrollable bool   `json:"is_enrollable"`
		IsMarketable bool   `json:"is_marketable"`
	} `json:"course_runs"`
}

type partitionDTO struct {
	UUID       string      `json:"uuid"`
	Completed  []courseDTO `json:"completed"`
	InProgress []courseDTO `json:"in_progress"`
	NotStarted []courseDTO `json:"not_started"`
}

// Partition requests the learner's progress over the given programs. The
// response is re-ordered locally to match the requested UUID order, so the
// caller's ranking survives the round trip.
func (c *Client) Partition(ctx context.Context, user domain.User, programUUIDs []uuid.UUID) ([]domain.ProgramProgress, error) {
	uuids := make([]string, 0, len(programUUIDs))
	for _, id := range programUUIDs {
		uuids = append(uuids, id.String())
	}

	body, err := json.Marshal(map[string]any{
		"username":      user.Username,
		"program_uuids": uuids,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal progress request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/progress/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("progress service returned %s", resp.Status)
	}

	var payload []partitionDTO
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}

	byUUID := make(map[uuid.UUID]domain.ProgramProgress, len(payload))
	for _, dto := range payload {
		partition, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		byUUID[partition.ProgramUUID] = partition
	}

	ordered := make([]domain.ProgramProgress, 0, len(programUUIDs))
	for _, id := range programUUIDs {
		if partition, ok := byUUID[id]; ok {
			ordered = append(ordered, partition)
		}
	}

	return ordered, nil
}

func (p partitionDTO) toDomain() (domain.ProgramProgress, error) {
	id, err := uuid.Parse(p.UUID)
	if err != nil {
		return domain.ProgramProgress{}, fmt.Errorf("parse progress uuid %q: %w", p.UUID, err)
	}

	return domain.ProgramProgress{
		ProgramUUID: id,
		Completed:   toCourses(p.Completed),
		InProgress:  toCourses(p.InProgress),
		NotStarted:  toCourses(p.NotStarted),
	}, nil
}

func toCourses(dtos []courseDTO) []domain.Course {
	courses := make([]domain.Course, 0, len(dtos))
	for _, dto := range dtos {
		course := domain.Course{
			Key:        dto.Key,
			Title:      dto.Title,
			CourseRuns: make([]domain.CourseRun, 0, len(dto.CourseRuns)),
		}
		for _, run := range dto.CourseRuns {
			course.CourseRuns = append(course.CourseRuns, domain.CourseRun{
				Key:              run.Key,
				Title:            run.Title,
				ShortDescription: run.ShortDescription,
				MarketingURL:     run.MarketingURL,
				Image:            domain.Image{Src: run.Image.Src},
				Status:           run.Status,
				IsEnrollable:     run.IsEnrollable,
				IsMarketable:     run.IsMarketable,
			})
		}
		courses = append(courses, course)
	}
	return courses
}
