package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"talentx/internal/common"
	"talentx/internal/database"
	"talentx/internal/domain/application"
	"talentx/internal/domain/invitation"
)

const invitationColumns = `id, job_id, talent_id, employer_id, message, status, created_at`

// errNotPending covers missing invitations, foreign ones and ones already answered.
const errNotPending = "invitation not found or already responded"

type InvitationRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewInvitationRepository(db *sql.DB, dialect database.Dialect) *InvitationRepository {
	return &InvitationRepository{db: db, dialect: dialect}
}

func (r *InvitationRepository) Create(ctx context.Context, inv invitation.Invitation) (*invitation.Invitation, error) {
	inv.ID = common.NewUUID()
	inv.CreatedAt = stamp(inv.CreatedAt)
	inv.Status = invitation.StatusPending
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`INSERT INTO invitations (`+invitationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		inv.ID, inv.JobID, inv.TalentID, inv.EmployerID, inv.Message, inv.Status, inv.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "already invited", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create invitation", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) GetPending(ctx context.Context, id, talentID common.UUID) (*invitation.Invitation, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+invitationColumns+` FROM invitations
		WHERE id = ? AND talent_id = ? AND status = ?`), id, talentID, invitation.StatusPending)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, errNotPending, err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load invitation", err)
	}
	return inv, nil
}

// Accept moves a pending invitation to accepted and records app in the same
// transaction. When the (job, talent) pair already has an application it is
// returned unchanged with AlreadyApplied set. Any failure leaves the invitation pending.
func (r *InvitationRepository) Accept(ctx context.Context, id, talentID common.UUID, app application.Application) (*invitation.AcceptResult, error) {
	var result invitation.AcceptResult
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		inv, err := r.respond(ctx, tx, id, talentID, invitation.StatusAccepted)
		if err != nil {
			return err
		}
		result.Invitation = *inv

		app.ID = common.NewUUID()
		app.JobID = inv.JobID
		app.TalentID = inv.TalentID
		app.CreatedAt = stamp(app.CreatedAt)
		if app.Status == "" {
			app.Status = application.StatusPending
		}
		row := tx.QueryRowContext(ctx, r.dialect.Rebind(`INSERT INTO applications (`+applicationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (job_id, talent_id) DO NOTHING
			RETURNING `+applicationColumns),
			app.ID, app.JobID, app.TalentID, app.Source, app.Status, app.CoverLetter, app.CreatedAt)
		created, err := scanApplication(row)
		switch {
		case err == nil:
			result.Application = *created
			return nil
		case errors.Is(err, sql.ErrNoRows):
			existing, err := findApplication(ctx, tx, r.dialect, inv.JobID, inv.TalentID)
			if err != nil {
				return err
			}
			result.Application = *existing
			result.AlreadyApplied = true
			return nil
		default:
			return common.NewError(common.CodeInternal, "failed to create application", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *InvitationRepository) Decline(ctx context.Context, id, talentID common.UUID) (*invitation.Invitation, error) {
	var inv *invitation.Invitation
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		inv, err = r.respond(ctx, tx, id, talentID, invitation.StatusDeclined)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvitationRepository) ListByTalent(ctx context.Context, talentID common.UUID) ([]invitation.View, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`SELECT i.id, i.job_id, i.talent_id, i.employer_id, i.message, i.status, i.created_at,
		j.title, j.company, j.application_deadline, u.name
		FROM invitations i
		JOIN jobs j ON j.id = i.job_id
		JOIN users u ON u.id = i.employer_id
		WHERE i.talent_id = ?
		ORDER BY i.created_at DESC`), talentID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list invitations", err)
	}
	defer rows.Close()
	items := make([]invitation.View, 0)
	for rows.Next() {
		var (
			v        invitation.View
			deadline sql.NullTime
		)
		if err := rows.Scan(&v.ID, &v.JobID, &v.TalentID, &v.EmployerID, &v.Message, &v.Status, &v.CreatedAt,
			&v.JobTitle, &v.Company, &deadline, &v.EmployerName); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan invitation", err)
		}
		v.CreatedAt = v.CreatedAt.UTC()
		v.ApplicationDeadline = timePtr(deadline)
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list invitations", err)
	}
	return items, nil
}

// respond applies the pending -> status transition. A zero row count means the
// invitation is missing, not the caller's, or another request answered it first.
func (r *InvitationRepository) respond(ctx context.Context, tx *sql.Tx, id, talentID common.UUID, status invitation.Status) (*invitation.Invitation, error) {
	result, err := tx.ExecContext(ctx, r.dialect.Rebind(`UPDATE invitations SET status = ? WHERE id = ? AND talent_id = ? AND status = ?`),
		status, id, talentID, invitation.StatusPending)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update invitation", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update invitation", err)
	}
	if rows == 0 {
		return nil, common.NewError(common.CodeNotFound, errNotPending, sql.ErrNoRows)
	}
	row := tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`), id)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load invitation", err)
	}
	return inv, nil
}

func scanInvitation(row rowScanner) (*invitation.Invitation, error) {
	var inv invitation.Invitation
	if err := row.Scan(&inv.ID, &inv.JobID, &inv.TalentID, &inv.EmployerID, &inv.Message, &inv.Status, &inv.CreatedAt); err != nil {
		return nil, err
	}
	inv.CreatedAt = inv.CreatedAt.UTC()
	return &inv, nil
}
