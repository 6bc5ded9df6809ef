package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"talentx/internal/common"
	"talentx/internal/database"
	"talentx/internal/domain/job"
)

const jobSelect = `SELECT j.id, j.posted_by, COALESCE(u.name, ''), j.title, j.company, j.tech_stack, j.application_deadline,
	j.location, j.description, j.requirements, j.salary_min, j.salary_max, j.status, j.created_at, j.updated_at
	FROM jobs j LEFT JOIN users u ON u.id = j.posted_by`

type JobRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewJobRepository(db *sql.DB, dialect database.Dialect) *JobRepository {
	return &JobRepository{db: db, dialect: dialect}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	j.CreatedAt = stamp(j.CreatedAt)
	j.UpdatedAt = j.CreatedAt
	if j.Status == "" {
		j.Status = job.StatusActive
	}
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO jobs (id, posted_by, title, company, tech_stack, application_deadline,
		location, description, requirements, salary_min, salary_max, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		j.ID, j.PostedBy, j.Title, j.Company, j.TechStack, nullTime(j.ApplicationDeadline),
		j.Location, j.Description, j.Requirements, nullInt(j.SalaryMin), nullInt(j.SalaryMax), j.Status, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return &j, nil
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	j.UpdatedAt = stamp(j.UpdatedAt)
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE jobs SET title = ?, company = ?, tech_stack = ?, application_deadline = ?,
		location = ?, description = ?, requirements = ?, salary_min = ?, salary_max = ?, status = ?, updated_at = ?
		WHERE id = ? AND posted_by = ?`),
		j.Title, j.Company, j.TechStack, nullTime(j.ApplicationDeadline),
		j.Location, j.Description, j.Requirements, nullInt(j.SalaryMin), nullInt(j.SalaryMax), j.Status, j.UpdatedAt,
		j.ID, j.PostedBy)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) Delete(ctx context.Context, id, postedBy common.UUID) error {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM jobs WHERE id = ? AND posted_by = ?`), id, postedBy)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete job", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(jobSelect+` WHERE j.id = ?`), id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return j, nil
}

func (r *JobRepository) Search(ctx context.Context, filter job.Filter) ([]job.Job, error) {
	like := r.dialect.Like()
	var where []string
	args := []any{job.StatusActive}
	if q := strings.TrimSpace(filter.Query); q != "" {
		where = append(where, `(j.title `+like+` ? ESCAPE '\' OR j.company `+like+` ? ESCAPE '\' OR j.description `+like+` ? ESCAPE '\')`)
		pattern := database.Contains(q)
		args = append(args, pattern, pattern, pattern)
	}
	if company := strings.TrimSpace(filter.Company); company != "" {
		where = append(where, `j.company `+like+` ? ESCAPE '\'`)
		args = append(args, database.Contains(company))
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		where = append(where, `j.location `+like+` ? ESCAPE '\'`)
		args = append(args, database.Contains(location))
	}

	query := jobSelect + ` WHERE j.status = ?`
	for _, clause := range where {
		query += ` AND ` + clause
	}
	query += ` ORDER BY j.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to search jobs", err)
	}
	defer rows.Close()
	items := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to search jobs", err)
	}
	return items, nil
}

func (r *JobRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) FROM jobs WHERE status = ?`), job.StatusActive).Scan(&total)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count jobs", err)
	}
	return total, nil
}

func scanJob(row rowScanner) (*job.Job, error) {
	var (
		j         job.Job
		deadline  sql.NullTime
		salaryMin sql.NullInt64
		salaryMax sql.NullInt64
	)
	if err := row.Scan(&j.ID, &j.PostedBy, &j.PostedByName, &j.Title, &j.Company, &j.TechStack, &deadline,
		&j.Location, &j.Description, &j.Requirements, &salaryMin, &salaryMax, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	j.ApplicationDeadline = timePtr(deadline)
	j.SalaryMin = intPtr(salaryMin)
	j.SalaryMax = intPtr(salaryMax)
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()
	return &j, nil
}
