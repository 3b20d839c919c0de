package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"course-nudge/internal/domain"
	"course-nudge/internal/ports"
)

// GradeRepository reads persistent course grades from Postgres.
type GradeRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.GradeStore = (*GradeRepository)(nil)

// NewGradeRepository wires a sql.DB implementation.
func NewGradeRepository(db *sql.DB) *GradeRepository {
	return &GradeRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// PassedCourses returns each course passed on the given calendar day mapped
// to the distinct users who passed it. The day comparison is an exact date
// match against the persisted pass timestamp.
func (r *GradeRepository) PassedCourses(ctx context.Context, day time.Time) (map[string][]domain.User, error) {
	if r.db == nil {
		return map[string][]domain.User{}, nil
	}

	query, args, err := r.builder.
		Select("user_id", "course_id").
		From("grades_persistentcoursegrade").
		Where(sq.Expr("passed_timestamp::date = ?", day.Format("2006-01-02"))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build grades query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query passed grades: %w", err)
	}

	type gradeRow struct {
		userID   int64
		courseID string
	}

	var grades []gradeRow
	seen := map[int64]struct{}{}
	var userIDs []int64
	for rows.Next() {
		var g gradeRow
		if err := rows.Scan(&g.userID, &g.courseID); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		grades = append(grades, g)
		if _, ok := seen[g.userID]; !ok {
			seen[g.userID] = struct{}{}
			userIDs = append(userIDs, g.userID)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	users, err := r.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]domain.User)
	for _, g := range grades {
		user, ok := users[g.userID]
		if !ok {
			continue
		}
		result[g.courseID] = append(result[g.courseID], user)
	}

	return result, nil
}

func (r *GradeRepository) usersByID(ctx context.Context, ids []int64) (map[int64]domain.User, error) {
	if len(ids) == 0 {
		return map[int64]domain.User{}, nil
	}

	query, args, err := r.builder.
		Select("id", "username", "email").
		From("auth_user").
		Where(sq.Expr("id = ANY(?)", pq.Array(ids))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build users query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	result := make(map[int64]domain.User)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		result[user.ID] = user
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}
