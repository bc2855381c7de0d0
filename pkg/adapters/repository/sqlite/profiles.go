package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

// --- Profile Repository Implementation ---

const profileColumns = `id, owner_email, username, display_name, bio, profile_image_url, background_image_url,
	theme_id, template_name, custom_colors, created_at, updated_at`

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var owner, display, bio, img, bg, tmpl sql.NullString
	var colors []byte
	if err := row.Scan(&p.ID, &owner, &p.Username, &display, &bio, &img, &bg,
		&p.ThemeID, &tmpl, &colors, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.OwnerEmail = owner.String
	p.DisplayName = display.String
	p.Bio = bio.String
	p.ProfileImageURL = img.String
	p.BackgroundImageURL = bg.String
	p.TemplateName = tmpl.String
	if len(colors) > 0 {
		_ = json.Unmarshal(colors, &p.CustomColors)
	}
	return &p, nil
}

func (r *SQLiteRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	colors, err := json.Marshal(p.CustomColors)
	if err != nil {
		return err
	}
	now := r.now()
	p.CreatedAt, p.UpdatedAt = now, now

	query := `INSERT INTO profiles (id, owner_email, username, display_name, bio, profile_image_url, background_image_url,
			  theme_id, template_name, custom_colors, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, p.ID, p.OwnerEmail, p.Username, p.DisplayName, p.Bio, p.ProfileImageURL,
		p.BackgroundImageURL, p.ThemeID, p.TemplateName, string(colors), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "profile", ID: id}
	}
	return p, err
}

func (r *SQLiteRepository) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "profile", ID: username}
	}
	return p, err
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	colors, err := json.Marshal(p.CustomColors)
	if err != nil {
		return err
	}
	p.UpdatedAt = r.now()

	query := `UPDATE profiles SET username = ?, display_name = ?, bio = ?, profile_image_url = ?, background_image_url = ?,
			  theme_id = ?, template_name = ?, custom_colors = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, p.Username, p.DisplayName, p.Bio, p.ProfileImageURL, p.BackgroundImageURL,
		p.ThemeID, p.TemplateName, string(colors), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return expectRow(res, "profile", p.ID)
}

// DeleteProfile removes the profile and its links. Click events are kept.
func (r *SQLiteRepository) DeleteProfile(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE profile_id = ?`, id); err != nil {
		return fmt.Errorf("delete profile links: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := expectRow(res, "profile", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListProfiles lists profiles newest first. An empty ownerEmail lists all of them.
func (r *SQLiteRepository) ListProfiles(ctx context.Context, ownerEmail string) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	args := []any{}
	if ownerEmail != "" {
		query += " WHERE owner_email = ?"
		args = append(args, ownerEmail)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
