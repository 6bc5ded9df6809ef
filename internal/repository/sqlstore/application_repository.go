package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"talentx/internal/common"
	"talentx/internal/database"
	"talentx/internal/domain/application"
)

const applicationColumns = `id, job_id, talent_id, source, status, cover_letter, created_at`

type ApplicationRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewApplicationRepository(db *sql.DB, dialect database.Dialect) *ApplicationRepository {
	return &ApplicationRepository{db: db, dialect: dialect}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	app.CreatedAt = stamp(app.CreatedAt)
	if app.Status == "" {
		app.Status = application.StatusPending
	}
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO applications (`+applicationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		app.ID, app.JobID, app.TalentID, app.Source, app.Status, app.CoverLetter, app.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "already applied", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByJobAndTalent(ctx context.Context, jobID, talentID common.UUID) (*application.Application, error) {
	return findApplication(ctx, r.db, r.dialect, jobID, talentID)
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID common.UUID) ([]application.View, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`SELECT a.id, a.job_id, a.talent_id, a.source, a.status, a.cover_letter, a.created_at,
		u.name, u.email
		FROM applications a
		JOIN users u ON u.id = a.talent_id
		WHERE a.job_id = ?
		ORDER BY a.created_at DESC`), jobID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	items := make([]application.View, 0)
	for rows.Next() {
		var v application.View
		if err := rows.Scan(&v.ID, &v.JobID, &v.TalentID, &v.Source, &v.Status, &v.CoverLetter, &v.CreatedAt,
			&v.TalentName, &v.TalentEmail); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		v.CreatedAt = v.CreatedAt.UTC()
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

func findApplication(ctx context.Context, q queryer, dialect database.Dialect, jobID, talentID common.UUID) (*application.Application, error) {
	row := q.QueryRowContext(ctx, dialect.Rebind(`SELECT `+applicationColumns+` FROM applications WHERE job_id = ? AND talent_id = ?`), jobID, talentID)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	if err := row.Scan(&app.ID, &app.JobID, &app.TalentID, &app.Source, &app.Status, &app.CoverLetter, &app.CreatedAt); err != nil {
		return nil, err
	}
	app.CreatedAt = app.CreatedAt.UTC()
	return &app, nil
}
