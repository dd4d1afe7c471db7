package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskhub/helpdesk/internal/domain"
)

// EmployeeFilter captures staff directory query parameters.
type EmployeeFilter struct {
	ClientID       *string
	EmploymentType *domain.StaffScope
	ManagerID      *string
	Role           *domain.Role
	Limit          int
	Offset         int
}

// EmployeeWithUser joins a staff profile with its owning login identity.
type EmployeeWithUser struct {
	Employee domain.Employee
	UserID   string
	ClientID *string
	Email    string
	Username *string
	Role     domain.Role
}

// AssigneeRow resolves an employee id to the fields assignment validation
// needs.
type AssigneeRow struct {
	EmployeeID     string
	UserID         string
	ClientID       *string
	EmploymentType domain.StaffScope
	ManagerID      *string
}

// StaffingCount is one cell of the platform staffing breakdown.
type StaffingCount struct {
	Role  domain.Role
	Pool  domain.StaffScope
	Count int
}

// EmployeeRepository handles persistence for staff profiles.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Employee, error)
	UpdateProfile(ctx context.Context, employee *domain.Employee) error
	List(ctx context.Context, filter EmployeeFilter) ([]EmployeeWithUser, error)
	ResolveAssignee(ctx context.Context, employeeID string) (*AssigneeRow, error)
	StaffingCounts(ctx context.Context) ([]StaffingCount, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (user_id, first_name, last_name, position, manager_id, employment_type, date_of_joining)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		employee.UserID,
		employee.FirstName,
		employee.LastName,
		employee.Position,
		employee.ManagerID,
		employee.EmploymentType,
		employee.DateOfJoining,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `
        SELECT id, user_id, first_name, last_name, position, manager_id, employment_type, date_of_joining, created_at, updated_at
        FROM employees WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID string) (*domain.Employee, error) {
	const query = `
        SELECT id, user_id, first_name, last_name, position, manager_id, employment_type, date_of_joining, created_at, updated_at
        FROM employees WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&employee.ID,
		&employee.UserID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Position,
		&employee.ManagerID,
		&employee.EmploymentType,
		&employee.DateOfJoining,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) UpdateProfile(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees
        SET first_name=$1, last_name=$2, position=$3, date_of_joining=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Position,
		employee.DateOfJoining,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]EmployeeWithUser, error) {
	base := `SELECT e.id, e.user_id, e.first_name, e.last_name, e.position, e.manager_id,
                    e.employment_type, e.date_of_joining, e.created_at, e.updated_at,
                    u.id, u.client_id, u.email, u.username, u.role
             FROM employees e
             JOIN users u ON u.id = e.user_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("u.client_id=$%d", len(args)))
	}
	if filter.EmploymentType != nil {
		args = append(args, *filter.EmploymentType)
		clauses = append(clauses, fmt.Sprintf("e.employment_type=$%d", len(args)))
	}
	if filter.ManagerID != nil {
		args = append(args, *filter.ManagerID)
		clauses = append(clauses, fmt.Sprintf("e.manager_id=$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("u.role=$%d", len(args)))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY COALESCE(e.first_name,''), COALESCE(e.last_name,''), u.email ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EmployeeWithUser
	for rows.Next() {
		var row EmployeeWithUser
		if err := rows.Scan(
			&row.Employee.ID,
			&row.Employee.UserID,
			&row.Employee.FirstName,
			&row.Employee.LastName,
			&row.Employee.Position,
			&row.Employee.ManagerID,
			&row.Employee.EmploymentType,
			&row.Employee.DateOfJoining,
			&row.Employee.CreatedAt,
			&row.Employee.UpdatedAt,
			&row.UserID,
			&row.ClientID,
			&row.Email,
			&row.Username,
			&row.Role,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *employeeRepository) ResolveAssignee(ctx context.Context, employeeID string) (*AssigneeRow, error) {
	const query = `
        SELECT e.id, e.user_id, u.client_id, e.employment_type, e.manager_id
        FROM employees e
        JOIN users u ON u.id = e.user_id
        WHERE e.id=$1`
	var row AssigneeRow
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(
		&row.EmployeeID,
		&row.UserID,
		&row.ClientID,
		&row.EmploymentType,
		&row.ManagerID,
	); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *employeeRepository) StaffingCounts(ctx context.Context) ([]StaffingCount, error) {
	const query = `
        SELECT u.role, e.employment_type, COUNT(*)
        FROM employees e
        JOIN users u ON u.id = e.user_id
        GROUP BY u.role, e.employment_type`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StaffingCount
	for rows.Next() {
		var count StaffingCount
		if err := rows.Scan(&count.Role, &count.Pool, &count.Count); err != nil {
			return nil, err
		}
		result = append(result, count)
	}
	return result, rows.Err()
}
