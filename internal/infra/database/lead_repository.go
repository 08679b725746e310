package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/leadscope/leadscope/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `pk, username, full_name, bio, email, external_url, is_private,
	followers_count, source_account, found_date, last_scraped_date, last_exported,
	is_german, german_check_result, status, change_details`

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByPK(ctx context.Context, pk int64) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE pk = $1`, pk)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) FindByUsername(ctx context.Context, username string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE username = $1`, username)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.PK, lead.Username, lead.FullName, lead.Bio,
		nullString(lead.Email), nullString(lead.ExternalURL), lead.IsPrivate,
		lead.FollowersCount, lead.SourceAccount,
		lead.FoundDate, lead.LastScrapedDate, lead.LastExported,
		germanBool(lead.German), nullString(lead.GermanCheckResult),
		string(lead.Status), nullString(lead.ChangeDetails),
	)
	return err
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			username = $2, full_name = $3, bio = $4, email = $5,
			external_url = $6, is_private = $7, followers_count = $8,
			source_account = $9, found_date = $10, last_scraped_date = $11,
			last_exported = $12, is_german = $13, german_check_result = $14,
			status = $15, change_details = $16
		WHERE pk = $1
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.PK, lead.Username, lead.FullName, lead.Bio,
		nullString(lead.Email), nullString(lead.ExternalURL), lead.IsPrivate,
		lead.FollowersCount, lead.SourceAccount,
		lead.FoundDate, lead.LastScrapedDate, lead.LastExported,
		germanBool(lead.German), nullString(lead.GermanCheckResult),
		string(lead.Status), nullString(lead.ChangeDetails),
	)
	return err
}

// Upsert is the import path: existing rows are overwritten, the
// import wins.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (pk) DO UPDATE SET
			username = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			bio = EXCLUDED.bio,
			email = EXCLUDED.email,
			external_url = EXCLUDED.external_url,
			is_private = EXCLUDED.is_private,
			followers_count = EXCLUDED.followers_count,
			source_account = EXCLUDED.source_account,
			found_date = EXCLUDED.found_date,
			last_scraped_date = EXCLUDED.last_scraped_date,
			last_exported = EXCLUDED.last_exported,
			is_german = EXCLUDED.is_german,
			german_check_result = EXCLUDED.german_check_result,
			status = EXCLUDED.status,
			change_details = EXCLUDED.change_details
	`
	_, err := r.DB.ExecContext(ctx, query,
		lead.PK, lead.Username, lead.FullName, lead.Bio,
		nullString(lead.Email), nullString(lead.ExternalURL), lead.IsPrivate,
		lead.FollowersCount, lead.SourceAccount,
		lead.FoundDate, lead.LastScrapedDate, lead.LastExported,
		germanBool(lead.German), nullString(lead.GermanCheckResult),
		string(lead.Status), nullString(lead.ChangeDetails),
	)
	return err
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, pk int64, status entity.Status) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $2 WHERE pk = $1`, pk, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *LeadRepository) MarkExported(ctx context.Context, usernames []string, at time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET last_exported = $2 WHERE username = ANY($1)`,
		pq.Array(usernames), at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *LeadRepository) Delete(ctx context.Context, pks []int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM leads WHERE pk = ANY($1)`, pq.Array(pks))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (entity.Lead, error) {
	var lead entity.Lead
	var email, externalURL, checkResult, changeDetails sql.NullString
	var german sql.NullBool
	var status string

	err := row.Scan(
		&lead.PK, &lead.Username, &lead.FullName, &lead.Bio,
		&email, &externalURL, &lead.IsPrivate,
		&lead.FollowersCount, &lead.SourceAccount,
		&lead.FoundDate, &lead.LastScrapedDate, &lead.LastExported,
		&german, &checkResult, &status, &changeDetails,
	)
	if err != nil {
		return entity.Lead{}, err
	}

	lead.Email = email.String
	lead.ExternalURL = externalURL.String
	lead.GermanCheckResult = checkResult.String
	lead.ChangeDetails = changeDetails.String
	lead.Status = entity.Status(status)
	switch {
	case !german.Valid:
		lead.German = entity.GermanUnscanned
	case german.Bool:
		lead.German = entity.GermanYes
	default:
		lead.German = entity.GermanNo
	}
	return lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// The tri-state maps to a nullable boolean column; unscanned is NULL.
func germanBool(g entity.German) *bool {
	switch g {
	case entity.GermanYes:
		v := true
		return &v
	case entity.GermanNo:
		v := false
		return &v
	}
	return nil
}
