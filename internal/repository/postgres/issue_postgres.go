package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"toonranks/internal/model"
	"toonranks/internal/repository"
)

// IssuePostgres is a PostgreSQL implementation of repository.IssueRepository.
type IssuePostgres struct {
	db *sql.DB
}

// NewIssuePostgres creates a new IssuePostgres repository.
func NewIssuePostgres(db *sql.DB) *IssuePostgres {
	return &IssuePostgres{db: db}
}

var _ repository.IssueRepository = (*IssuePostgres)(nil)

const issueColumns = `id, type, title, description, page_url, email, screenshot_url,
	user_id, user_agent, status, admin_notes, created_at, updated_at`

func scanIssue(row scanner) (*model.Issue, error) {
	var (
		is                                  model.Issue
		typ, status                         string
		pageURL, email, shot, ua, adminNote sql.NullString
		userID                              sql.NullInt64
	)
	if err := row.Scan(&is.ID, &typ, &is.Title, &is.Description, &pageURL, &email, &shot,
		&userID, &ua, &status, &adminNote, &is.CreatedAt, &is.UpdatedAt); err != nil {
		return nil, err
	}
	is.Type = model.IssueType(typ)
	is.Status = model.IssueStatus(status)
	is.PageURL = stringPtr(pageURL)
	is.Email = stringPtr(email)
	is.ScreenshotURL = stringPtr(shot)
	is.UserID = int64Ptr(userID)
	is.UserAgent = stringPtr(ua)
	is.AdminNotes = stringPtr(adminNote)
	return &is, nil
}

// Create inserts a new issue with status OPEN unless another status is set.
func (r *IssuePostgres) Create(ctx context.Context, is *model.Issue) (*model.Issue, error) {
	const q = `
		INSERT INTO issues (type, title, description, page_url, email, screenshot_url, user_id, user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE(NULLIF($9, ''), 'OPEN'))
		RETURNING ` + issueColumns
	return scanIssue(r.db.QueryRowContext(ctx, q,
		string(is.Type), is.Title, is.Description,
		nullString(is.PageURL), nullString(is.Email), nullString(is.ScreenshotURL),
		nullInt64(is.UserID), nullString(is.UserAgent), string(is.Status),
	))
}

// FindByID fetches a single issue by its ID.
func (r *IssuePostgres) FindByID(ctx context.Context, id int64) (*model.Issue, error) {
	const q = `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`
	return scanIssue(r.db.QueryRowContext(ctx, q, id))
}

// List returns a filtered page of issues newest first with the total match count.
func (r *IssuePostgres) List(ctx context.Context, f repository.IssueFilter, pq repository.PageQuery) (*repository.PageResult[model.Issue], error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", len(args)))
	}
	if f.Type != nil {
		args = append(args, string(*f.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM issues`+clause, args...).Scan(&total); err != nil {
		return nil, err
	}

	listArgs := append(args, pq.Limit, pq.Offset)
	qList := fmt.Sprintf(`SELECT %s FROM issues%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		issueColumns, clause, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Issue, 0)
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *is)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Issue]{Items: items, Total: total}, nil
}

// UpdateStatus sets the triage status and, when given, the admin notes. An
// empty note clears the stored one.
func (r *IssuePostgres) UpdateStatus(ctx context.Context, id int64, status model.IssueStatus, adminNotes *string) (*model.Issue, error) {
	const q = `
		UPDATE issues
		SET status = $2, admin_notes = CASE WHEN $3::text IS NULL THEN admin_notes ELSE NULLIF($3, '') END, updated_at = now()
		WHERE id = $1
		RETURNING ` + issueColumns
	return scanIssue(r.db.QueryRowContext(ctx, q, id, string(status), nullString(adminNotes)))
}

// Delete removes an issue.
func (r *IssuePostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM issues WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
