package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var allocationInspectCmd = &cobra.Command{
	Use:   "allocation-inspect",
	Short: "Inspect an allocation and its generated sessions",
	Long: `Looks up an allocation by id, or by (student, course), and prints its status, trainer and
generated sessions — the state C3 produced for one purchase (spec §3, §4.3).`,
	RunE: runAllocationInspect,
}

func init() {
	allocationInspectCmd.Flags().String("allocation-id", "", "Allocation id to look up")
	allocationInspectCmd.Flags().String("student-id", "", "Student id (use with --course-id instead of --allocation-id)")
	allocationInspectCmd.Flags().String("course-id", "", "Course id (use with --student-id instead of --allocation-id)")
}

type allocationRow struct {
	ID        string
	StudentID string
	CourseID  string
	TrainerID *string
	Status    string
	Metadata  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func runAllocationInspect(cmd *cobra.Command, args []string) error {
	allocationID, _ := cmd.Flags().GetString("allocation-id")
	studentID, _ := cmd.Flags().GetString("student-id")
	courseID, _ := cmd.Flags().GetString("course-id")

	if allocationID == "" && (studentID == "" || courseID == "") {
		return fmt.Errorf("must pass --allocation-id, or both --student-id and --course-id")
	}

	ctx := context.Background()

	pool, err := connectPool(ctx, cmd)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	builder := squirrel.Select("id", "student_id", "course_id", "trainer_id", "status", "metadata", "created_at", "updated_at").
		From("allocations").
		PlaceholderFormat(squirrel.Dollar)

	if allocationID != "" {
		builder = builder.Where(squirrel.Eq{"id": allocationID})
	} else {
		builder = builder.Where(squirrel.Eq{"student_id": studentID, "course_id": courseID})
	}

	query, args2, err := builder.ToSql()
	if err != nil {
		return err
	}

	var a allocationRow

	row := pool.DB().QueryRow(ctx, query, args2...)
	if err := row.Scan(&a.ID, &a.StudentID, &a.CourseID, &a.TrainerID, &a.Status, &a.Metadata, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			fmt.Println("no matching allocation")
			return nil
		}

		return fmt.Errorf("query allocation: %w", err)
	}

	trainer := "(none)"
	if a.TrainerID != nil {
		trainer = *a.TrainerID
	}

	fmt.Printf("allocationId: %s\n", a.ID)
	fmt.Printf("studentId:    %s\n", a.StudentID)
	fmt.Printf("courseId:     %s\n", a.CourseID)
	fmt.Printf("trainerId:    %s\n", trainer)
	fmt.Printf("status:       %s\n", a.Status)
	fmt.Printf("createdAt:    %s\n", a.CreatedAt.Format(time.RFC3339))
	fmt.Printf("updatedAt:    %s\n", a.UpdatedAt.Format(time.RFC3339))

	if len(a.Metadata) > 0 {
		var meta map[string]any
		if err := json.Unmarshal(a.Metadata, &meta); err == nil && len(meta) > 0 {
			fmt.Printf("metadata:     %v\n", meta)
		}
	}

	return printSessions(ctx, pool.DB(), a.ID)
}

func printSessions(ctx context.Context, q *pgxpool.Pool, allocationID string) error {
	query, args, err := squirrel.Select("id", "scheduled_date", "status", "session_type", "session_number").
		From("sessions").
		Where(squirrel.Eq{"allocation_id": allocationID}).
		OrderBy("session_number").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	fmt.Println("\nsessions:")

	var count int

	for rows.Next() {
		var (
			id            string
			scheduledDate time.Time
			status        string
			sessionType   string
			sessionNumber int
		)

		if err := rows.Scan(&id, &scheduledDate, &status, &sessionType, &sessionNumber); err != nil {
			return err
		}

		count++
		fmt.Printf("  #%d  %s  %s  %s  scheduled=%s\n", sessionNumber, id, sessionType, status, scheduledDate.Format("2006-01-02"))
	}

	if count == 0 {
		fmt.Println("  (none)")
	}

	return rows.Err()
}
