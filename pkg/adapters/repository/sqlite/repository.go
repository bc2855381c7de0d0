package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}

	if driverName == "sqlite" {
		// One writer at a time; shared-cache memory databases otherwise report SQLITE_LOCKED.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already migrated database handle.
func NewWithDB(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		owner_email TEXT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT,
		bio TEXT,
		profile_image_url TEXT,
		background_image_url TEXT,
		theme_id INTEGER DEFAULT 1,
		template_name TEXT DEFAULT 'minimal',
		custom_colors JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_owner ON profiles(owner_email);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		icon TEXT DEFAULT 'Link',
		order_index INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		click_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_links_profile_order ON links(profile_id, order_index);

	CREATE TABLE IF NOT EXISTS link_clicks (
		id TEXT PRIMARY KEY,
		link_id TEXT NOT NULL,
		clicked_at DATETIME NOT NULL,
		user_agent TEXT,
		referrer TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_link_clicks_link_time ON link_clicks(link_id, clicked_at);

	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		display_name TEXT,
		description TEXT,
		layout_type TEXT,
		default_colors JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS themes (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		background_color TEXT,
		button_color TEXT,
		button_text_color TEXT,
		text_color TEXT,
		font_family TEXT,
		button_style TEXT
	);
	`
	if _, err := db.Exec(query); err != nil {
		return err
	}

	return seedCatalog(db)
}

// --- Links ---

const linkColumns = `id, profile_id, title, url, icon, order_index, is_active, click_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (domain.Link, error) {
	var l domain.Link
	var icon string
	err := row.Scan(&l.ID, &l.ProfileID, &l.Title, &l.URL, &icon, &l.OrderIndex, &l.IsActive, &l.ClickCount, &l.CreatedAt, &l.UpdatedAt)
	l.Icon = domain.ParseIcon(icon)
	return l, err
}

func (r *SQLiteRepository) queryLinks(ctx context.Context, query string, args ...any) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) List(ctx context.Context, profileID string) ([]domain.Link, error) {
	return r.queryLinks(ctx, `SELECT `+linkColumns+` FROM links WHERE profile_id = ? ORDER BY order_index ASC, created_at ASC`, profileID)
}

func (r *SQLiteRepository) ListActive(ctx context.Context, profileID string) ([]domain.Link, error) {
	return r.queryLinks(ctx, `SELECT `+linkColumns+` FROM links WHERE profile_id = ? AND is_active = 1 ORDER BY order_index ASC, created_at ASC`, profileID)
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*domain.Link, error) {
	l, err := scanLink(r.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "link", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, link *domain.Link) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = r.now()
	}
	link.UpdatedAt = link.CreatedAt

	query := `INSERT INTO links (id, profile_id, title, url, icon, order_index, is_active, click_count, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, link.ID, link.ProfileID, link.Title, link.URL, string(link.Icon),
		link.OrderIndex, link.IsActive, link.CreatedAt, link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	link.ClickCount = 0
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, patch ports.LinkPatch) (*domain.Link, error) {
	sets := []string{}
	args := []any{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, *patch.URL)
	}
	if patch.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, string(*patch.Icon))
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}
	if patch.OrderIndex != nil {
		sets = append(sets, "order_index = ?")
		args = append(args, *patch.OrderIndex)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now(), id)

	res, err := r.db.ExecContext(ctx, `UPDATE links SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}
	if err := expectRow(res, "link", id); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *SQLiteRepository) UpdateOrder(ctx context.Context, id string, orderIndex int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE links SET order_index = ?, updated_at = ? WHERE id = ?`, orderIndex, r.now(), id)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return expectRow(res, "link", id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return expectRow(res, "link", id)
}

// --- Click events ---

const insertClick = `INSERT INTO link_clicks (id, link_id, clicked_at, user_agent, referrer) VALUES (?, ?, ?, ?, ?)`

func (r *SQLiteRepository) AppendEvent(ctx context.Context, event *domain.ClickEvent) error {
	_, err := r.db.ExecContext(ctx, insertClick, event.ID, event.LinkID, event.ClickedAt.UTC(), event.UserAgent, event.Referrer)
	if err != nil {
		return fmt.Errorf("insert click: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) IncrementCounter(ctx context.Context, linkID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE links SET click_count = click_count + 1 WHERE id = ?`, linkID)
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	return expectRow(res, "link", linkID)
}

// AppendAndIncrement inserts the event and bumps the counter in one transaction.
func (r *SQLiteRepository) AppendAndIncrement(ctx context.Context, event *domain.ClickEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertClick, event.ID, event.LinkID, event.ClickedAt.UTC(), event.UserAgent, event.Referrer); err != nil {
		return fmt.Errorf("insert click: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE links SET click_count = click_count + 1 WHERE id = ?`, event.LinkID)
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	if err := expectRow(res, "link", event.LinkID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, linkIDs []string, since time.Time) ([]domain.ClickEvent, error) {
	if len(linkIDs) == 0 {
		return []domain.ClickEvent{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(linkIDs)), ", ")
	args := make([]any, 0, len(linkIDs)+1)
	for _, id := range linkIDs {
		args = append(args, id)
	}
	args = append(args, since.UTC())

	rows, err := r.db.QueryContext(ctx, `SELECT id, link_id, clicked_at, user_agent, referrer FROM link_clicks
		WHERE link_id IN (`+placeholders+`) AND clicked_at >= ?
		ORDER BY clicked_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.ClickEvent{}
	for rows.Next() {
		var e domain.ClickEvent
		var ua, ref sql.NullString
		if err := rows.Scan(&e.ID, &e.LinkID, &e.ClickedAt, &ua, &ref); err != nil {
			return nil, err
		}
		e.UserAgent = ua.String
		e.Referrer = ref.String
		events = append(events, e)
	}
	return events, rows.Err()
}

func expectRow(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// Ensure interface compliance
var (
	_ ports.LinkStore               = (*SQLiteRepository)(nil)
	_ ports.TransactionalEventStore = (*SQLiteRepository)(nil)
	_ ports.EventReader             = (*SQLiteRepository)(nil)
	_ ports.ProfileStore            = (*SQLiteRepository)(nil)
	_ ports.TemplateStore           = (*SQLiteRepository)(nil)
)
