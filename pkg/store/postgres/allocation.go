package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightpath/platform/pkg/allocengine"
	"github.com/brightpath/platform/pkg/platformerr"
)

const (
	allocationTable       = "allocations"
	sessionTable          = "sessions"
	uniqueActiveAllocation = "allocations_student_course_active"
)

// AllocationStore is an allocengine.Store backed by Postgres, following the teacher's
// squirrel-built-query repository shape (see the teacher's operation repository, DESIGN.md)
// adapted to pgx's native pool.
type AllocationStore struct {
	pool *Pool
}

// NewAllocationStore returns an allocengine.Store backed by pool.
func NewAllocationStore(pool *Pool) *AllocationStore {
	return &AllocationStore{pool: pool}
}

// FindActiveAllocation implements allocengine.Store.
func (s *AllocationStore) FindActiveAllocation(ctx context.Context, studentID, courseID string) (*allocengine.Allocation, error) {
	query, args, err := squirrel.Select("id", "student_id", "course_id", "trainer_id", "status", "metadata", "created_at", "updated_at").
		From(allocationTable).
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		Where(squirrel.Eq{"status": []string{string(allocengine.AllocationApproved), string(allocengine.AllocationActive)}}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := s.pool.DB().QueryRow(ctx, query, args...)

	var (
		a        allocengine.Allocation
		trainer  *string
		metaJSON []byte
	)

	err = row.Scan(&a.ID, &a.StudentID, &a.CourseID, &trainer, &a.Status, &metaJSON, &a.CreatedAt, &a.UpdatedAt)

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	default:
		return nil, err
	}

	if trainer != nil {
		a.TrainerID = *trainer
	}

	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &a.Metadata); err != nil {
			return nil, err
		}
	}

	return &a, nil
}

// CreateAllocation implements allocengine.Store.
func (s *AllocationStore) CreateAllocation(ctx context.Context, allocation allocengine.Allocation) error {
	metaJSON, err := json.Marshal(allocation.Metadata)
	if err != nil {
		return err
	}

	query, args, err := squirrel.Insert(allocationTable).
		Columns("id", "student_id", "course_id", "trainer_id", "status", "metadata", "created_at", "updated_at").
		Values(allocation.ID, allocation.StudentID, allocation.CourseID, nullableString(allocation.TrainerID), allocation.Status, metaJSON, allocation.CreatedAt, allocation.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.pool.DB().Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return platformerr.UniquenessConflict{Constraint: uniqueActiveAllocation}
		}

		return err
	}

	return nil
}

// CreateSessions implements allocengine.Store.
func (s *AllocationStore) CreateSessions(ctx context.Context, sessions []allocengine.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	builder := squirrel.Insert(sessionTable).
		Columns("id", "allocation_id", "student_id", "trainer_id", "scheduled_date", "status", "session_type", "session_number").
		PlaceholderFormat(squirrel.Dollar)

	for _, sess := range sessions {
		builder = builder.Values(sess.ID, sess.AllocationID, sess.StudentID, sess.TrainerID, sess.ScheduledDate, sess.Status, sess.SessionType, sess.SessionNumber)
	}

	query, args, err := builder.Suffix("ON CONFLICT (id) DO NOTHING").ToSql()
	if err != nil {
		return err
	}

	_, err = s.pool.DB().Exec(ctx, query, args...)
	return err
}

// EligibleTrainers implements allocengine.Store, pushing the specialty and approval hard filters
// into SQL and leaving capacity/geography to the caller (they need per-date counts and
// haversine distance the query layer shouldn't compute).
func (s *AllocationStore) EligibleTrainers(ctx context.Context, course allocengine.Course) ([]allocengine.Trainer, error) {
	builder := squirrel.Select("id", "specialties", "approval_status", "base_lat", "base_lng", "gender", "approved_at").
		From("trainers").
		Where(squirrel.Eq{"approval_status": "approved"}).
		PlaceholderFormat(squirrel.Dollar)

	if len(course.Specialties) > 0 {
		builder = builder.Where(squirrel.Expr("specialties @> ?", course.Specialties))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.DB().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainers []allocengine.Trainer

	for rows.Next() {
		var t allocengine.Trainer

		if err := rows.Scan(&t.ID, &t.Specialties, &t.ApprovalStatus, &t.Base.Lat, &t.Base.Lng, &t.Gender, &t.ApprovedAt); err != nil {
			return nil, err
		}

		trainers = append(trainers, t)
	}

	return trainers, rows.Err()
}

// CountTrainerSessionsOnDate implements allocengine.Store.
func (s *AllocationStore) CountTrainerSessionsOnDate(ctx context.Context, trainerID string, date time.Time) (int, error) {
	query, args, err := squirrel.Select("count(*)").
		From(sessionTable).
		Where(squirrel.Eq{"trainer_id": trainerID}).
		Where(squirrel.Expr("scheduled_date::date = ?::date", date)).
		Where(squirrel.NotEq{"status": string(allocengine.SessionCancelled)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.pool.DB().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// CountActiveWorkload implements allocengine.Store.
func (s *AllocationStore) CountActiveWorkload(ctx context.Context, trainerID string) (int, error) {
	query, args, err := squirrel.Select("count(*)").
		From(allocationTable).
		Where(squirrel.Eq{"trainer_id": trainerID}).
		Where(squirrel.Eq{"status": []string{string(allocengine.AllocationApproved), string(allocengine.AllocationActive)}}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.pool.DB().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// HasSlotAvailable implements allocengine.Store by checking the trainer's declared availability
// table, owned by an external collaborator (trainer-profile service) but mirrored into this
// store's read model for the scoring query to stay a single round trip.
func (s *AllocationStore) HasSlotAvailable(ctx context.Context, trainerID, slot string) (bool, error) {
	if slot == "" {
		return false, nil
	}

	query, args, err := squirrel.Select("1").
		From("trainer_availability").
		Where(squirrel.Eq{"trainer_id": trainerID, "slot": slot}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var exists int

	err = s.pool.DB().QueryRow(ctx, query, args...).Scan(&exists)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}
