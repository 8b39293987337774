package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/domain"
	portsrepo "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/repositories"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/models"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStudentRepository struct {
	BaseRepository
}

func newPgxStudentRepository(pool *pgxpool.Pool) *PgxStudentRepository {
	return &PgxStudentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StudentRepositoryFacade = (*PgxStudentRepository)(nil)

const studentColumns = `student_id, name, email, prn, total_credits, created_at, created_by, last_updated_at, last_updated_by, version`

func scanStudent(row pgx.Row) (*domain.StudentAccount, error) {
	var m models.Student
	err := row.Scan(&m.StudentID, &m.Name, &m.Email, &m.PRN, &m.TotalCredits,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := mapping.ToDomainStudent(m)
	return &d, nil
}

func (r *PgxStudentRepository) SaveStudent(ctx context.Context, student domain.StudentAccount) error {
	m := mapping.ToModelStudent(student)
	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query, m.StudentID, m.Name, m.Email, m.PRN, m.TotalCredits,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return fmt.Errorf("%w: student violates %s", apperrors.ErrDuplicate, constraint)
		}
		return apperrors.NewAppError(500, "failed to insert student "+m.StudentID, err)
	}
	return nil
}

func (r *PgxStudentRepository) FindStudentByID(ctx context.Context, studentID string) (*domain.StudentAccount, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1;`
	s, err := scanStudent(r.Pool.QueryRow(ctx, query, studentID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewAppError(500, "failed to find student "+studentID, err)
	}
	return s, err
}

func (r *PgxStudentRepository) FindStudentByPRN(ctx context.Context, prn string) (*domain.StudentAccount, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE prn = $1;`
	s, err := scanStudent(r.Pool.QueryRow(ctx, query, prn))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewAppError(500, "failed to find student by prn", err)
	}
	return s, err
}
