package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

var defaultTemplates = []domain.Template{
	{ID: "tpl-minimal", Name: "minimal", DisplayName: "Minimal", Description: "Clean single column", LayoutType: "stack",
		DefaultColors: domain.Palette{Background: "#ffffff", Text: "#111827", Primary: "#2563eb", Secondary: "#e5e7eb", Accent: "#f59e0b"}},
	{ID: "tpl-gradient", Name: "gradient", DisplayName: "Gradient", Description: "Bold gradient backdrop", LayoutType: "stack",
		DefaultColors: domain.Palette{Background: "#4f46e5", Text: "#ffffff", Primary: "#ec4899", Secondary: "#a855f7", Accent: "#facc15"}},
	{ID: "tpl-dark", Name: "dark", DisplayName: "Dark", Description: "Low light, high contrast", LayoutType: "stack",
		DefaultColors: domain.Palette{Background: "#0f172a", Text: "#f8fafc", Primary: "#38bdf8", Secondary: "#1e293b", Accent: "#22c55e"}},
	{ID: "tpl-cards", Name: "cards", DisplayName: "Cards", Description: "Links as a card grid", LayoutType: "grid",
		DefaultColors: domain.Palette{Background: "#f3f4f6", Text: "#1f2937", Primary: "#10b981", Secondary: "#ffffff", Accent: "#ef4444"}},
}

var defaultThemes = []domain.Theme{
	{ID: 1, Name: "Classic", BackgroundColor: "#ffffff", ButtonColor: "#111827", ButtonTextColor: "#ffffff", TextColor: "#111827", FontFamily: "Inter", ButtonStyle: "rounded"},
	{ID: 2, Name: "Ocean", BackgroundColor: "#0ea5e9", ButtonColor: "#ffffff", ButtonTextColor: "#0369a1", TextColor: "#ffffff", FontFamily: "Inter", ButtonStyle: "pill"},
	{ID: 3, Name: "Midnight", BackgroundColor: "#020617", ButtonColor: "#334155", ButtonTextColor: "#f8fafc", TextColor: "#e2e8f0", FontFamily: "Space Grotesk", ButtonStyle: "square"},
}

func seedCatalog(db *sql.DB) error {
	for _, t := range defaultTemplates {
		colors, err := json.Marshal(t.DefaultColors)
		if err != nil {
			return err
		}
		if _, err := db.Exec(`INSERT OR IGNORE INTO templates (id, name, display_name, description, layout_type, default_colors)
			VALUES (?, ?, ?, ?, ?, ?)`, t.ID, t.Name, t.DisplayName, t.Description, t.LayoutType, string(colors)); err != nil {
			return err
		}
	}
	for _, th := range defaultThemes {
		if _, err := db.Exec(`INSERT OR IGNORE INTO themes (id, name, background_color, button_color, button_text_color, text_color, font_family, button_style)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, th.ID, th.Name, th.BackgroundColor, th.ButtonColor, th.ButtonTextColor, th.TextColor, th.FontFamily, th.ButtonStyle); err != nil {
			return err
		}
	}
	return nil
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	var display, desc, layout sql.NullString
	var colors []byte
	if err := row.Scan(&t.ID, &t.Name, &display, &desc, &layout, &colors, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.DisplayName = display.String
	t.Description = desc.String
	t.LayoutType = layout.String
	if len(colors) > 0 {
		_ = json.Unmarshal(colors, &t.DefaultColors)
	}
	return &t, nil
}

const templateColumns = `id, name, display_name, description, layout_type, default_colors, created_at`

func (r *SQLiteRepository) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []domain.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *SQLiteRepository) GetTemplateByName(ctx context.Context, name string) (*domain.Template, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "template", ID: name}
	}
	return t, err
}

func (r *SQLiteRepository) ListThemes(ctx context.Context) ([]domain.Theme, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, background_color, button_color, button_text_color, text_color, font_family, button_style
		FROM themes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	themes := []domain.Theme{}
	for rows.Next() {
		var th domain.Theme
		if err := rows.Scan(&th.ID, &th.Name, &th.BackgroundColor, &th.ButtonColor, &th.ButtonTextColor, &th.TextColor, &th.FontFamily, &th.ButtonStyle); err != nil {
			return nil, err
		}
		themes = append(themes, th)
	}
	return themes, rows.Err()
}

func (r *SQLiteRepository) GetTheme(ctx context.Context, id int64) (*domain.Theme, error) {
	var th domain.Theme
	err := r.db.QueryRowContext(ctx, `SELECT id, name, background_color, button_color, button_text_color, text_color, font_family, button_style
		FROM themes WHERE id = ?`, id).
		Scan(&th.ID, &th.Name, &th.BackgroundColor, &th.ButtonColor, &th.ButtonTextColor, &th.TextColor, &th.FontFamily, &th.ButtonStyle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "theme", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, err
	}
	return &th, nil
}
