package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"course-nudge/internal/domain"
	"course-nudge/internal/ports"
)

// Client talks to the program discovery service.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
}

var _ ports.Catalog = (*Client)(nil)

// NewClient creates a reusable HTTP client for the catalog API.
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type courseRunDTO struct {
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
}

type courseDTO struct {
	Key        string         `json:"key"`
	Title      string         `json:"title"`
	CourseRuns []courseRunDTO `json:"course_runs"`
}

type programDTO struct {
	UUID    string      `json:"uuid"`
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Courses []courseDTO `json:"courses"`
}

type programListDTO struct {
	Results []programDTO `json:"results"`
}

// ProgramsByCourse returns the active programs containing the course, with
// all nested courses and runs materialized so selection can iterate them.
func (c *Client) ProgramsByCourse(ctx context.Context, courseKey string) ([]domain.Program, error) {
	endpoint, err := url.Parse(c.baseURL + "/programs/")
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %s: %w", c.baseURL, err)
	}

	query := endpoint.Query()
	query.Set("course", courseKey)
	query.Set("status", "active")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch programs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %s", resp.Status)
	}

	var payload programListDTO
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode programs: %w", err)
	}

	programs := make([]domain.Program, 0, len(payload.Results))
	for _, dto := range payload.Results {
		program, err := dto.toDomain()
		if err != nil {
			return nil, fmt.Errorf("program %s: %w", dto.Title, err)
		}
		programs = append(programs, program)
	}

	return programs, nil
}

func (p programDTO) toDomain() (domain.Program, error) {
	id, err := uuid.Parse(p.UUID)
	if err != nil {
		return domain.Program{}, fmt.Errorf("parse uuid %q: %w", p.UUID, err)
	}

	program := domain.Program{
		UUID:    id,
		Type:    p.Type,
		Title:   p.Title,
		Courses: make([]domain.Course, 0, len(p.Courses)),
	}
	for _, course := range p.Courses {
		program.Courses = append(program.Courses, course.toDomain())
	}
	return program, nil
}

func (c courseDTO) toDomain() domain.Course {
	course := domain.Course{
		Key:        c.Key,
		Title:      c.Title,
		CourseRuns: make([]domain.CourseRun, 0, len(c.CourseRuns)),
	}
	for _, run := range c.CourseRuns {
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
	return course
}
