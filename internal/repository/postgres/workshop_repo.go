package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"workshopsite/internal/domain"
)

type workshopRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewWorkshopRepository(db *sql.DB) domain.WorkshopRepository {
	return &workshopRepository{
		DB:  db,
		now: time.Now,
	}
}

func (r *workshopRepository) Get(ctx context.Context, slug string) (*domain.Workshop, error) {
	query := `
		SELECT slug, title, date, location, abstract, questions,
			image_url, image_author, image_author_url, image_license, image_license_url,
			materials_base_url, drafts, updated_at
		FROM workshops
		WHERE slug = $1
	`
	w := &domain.Workshop{}
	var drafts []byte
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(
		&w.Slug, &w.Title, &w.Date, &w.Location, pq.Array(&w.Abstract), pq.Array(&w.Questions),
		&w.Image.URL, &w.Image.Author, &w.Image.AuthorURL, &w.Image.License, &w.Image.LicenseURL,
		&w.MaterialsBaseURL, &drafts, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(drafts) > 0 {
		if err := json.Unmarshal(drafts, &w.Drafts); err != nil {
			return nil, fmt.Errorf("decode drafts: %w", err)
		}
	}
	if w.Organizers, err = r.listOrganizers(ctx, slug); err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	if w.Schedule, err = r.listSchedule(ctx, slug); err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	if w.Papers, err = r.listPapers(ctx, slug); err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return w, nil
}

func (r *workshopRepository) listOrganizers(ctx context.Context, slug string) ([]domain.Organizer, error) {
	query := `SELECT name, url FROM organizers WHERE workshop_slug = $1 ORDER BY position`
	rows, err := r.DB.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Organizer
	for rows.Next() {
		var o domain.Organizer
		if err := rows.Scan(&o.Name, &o.URL); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// listSchedule loads sessions in order, then attaches their slots. Sessions
// without slots are kept.
func (r *workshopRepository) listSchedule(ctx context.Context, slug string) ([]domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT position, name FROM schedule_sessions WHERE workshop_slug = $1 ORDER BY position`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Session
	index := map[int]int{}
	for rows.Next() {
		var (
			pos  int
			name string
		)
		if err := rows.Scan(&pos, &name); err != nil {
			return nil, err
		}
		index[pos] = len(out)
		out = append(out, domain.Session{Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	query := `
		SELECT session_position, start_minute, end_minute, label, material
		FROM schedule_slots
		WHERE workshop_slug = $1
		ORDER BY session_position, position
	`
	slotRows, err := r.DB.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, err
	}
	defer slotRows.Close()
	for slotRows.Next() {
		var (
			sessionPos int
			start, end int
			slot       domain.ScheduleSlot
		)
		if err := slotRows.Scan(&sessionPos, &start, &end, &slot.Label, &slot.Material); err != nil {
			return nil, err
		}
		i, ok := index[sessionPos]
		if !ok {
			return nil, fmt.Errorf("slot %q references missing session %d", slot.Label, sessionPos)
		}
		slot.Start, slot.End = domain.ClockTime(start), domain.ClockTime(end)
		out[i].Slots = append(out[i].Slots, slot)
	}
	return out, slotRows.Err()
}

func (r *workshopRepository) listPapers(ctx context.Context, slug string) ([]domain.Paper, error) {
	query := `SELECT authors, title, url FROM papers WHERE workshop_slug = $1 ORDER BY position`
	rows, err := r.DB.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Paper
	for rows.Next() {
		var p domain.Paper
		if err := rows.Scan(pq.Array(&p.Authors), &p.Title, &p.URL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Save replaces the stored content of w.Slug in a single transaction.
func (r *workshopRepository) Save(ctx context.Context, w *domain.Workshop) (err error) {
	if w.Slug == "" {
		return fmt.Errorf("workshop slug is required")
	}
	drafts, err := json.Marshal(w.Drafts)
	if err != nil {
		return fmt.Errorf("encode drafts: %w", err)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	w.UpdatedAt = r.now().UTC()
	upsert := `
		INSERT INTO workshops (slug, title, date, location, abstract, questions,
			image_url, image_author, image_author_url, image_license, image_license_url,
			materials_base_url, drafts, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title, date = EXCLUDED.date, location = EXCLUDED.location,
			abstract = EXCLUDED.abstract, questions = EXCLUDED.questions,
			image_url = EXCLUDED.image_url, image_author = EXCLUDED.image_author,
			image_author_url = EXCLUDED.image_author_url, image_license = EXCLUDED.image_license,
			image_license_url = EXCLUDED.image_license_url, materials_base_url = EXCLUDED.materials_base_url,
			drafts = EXCLUDED.drafts, updated_at = EXCLUDED.updated_at
	`
	if _, err = tx.ExecContext(ctx, upsert,
		w.Slug, w.Title, w.Date, w.Location, textArray(w.Abstract), textArray(w.Questions),
		w.Image.URL, w.Image.Author, w.Image.AuthorURL, w.Image.License, w.Image.LicenseURL,
		w.MaterialsBaseURL, drafts, w.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert workshop: %w", err)
	}

	for _, table := range []string{"organizers", "schedule_slots", "schedule_sessions", "papers"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE workshop_slug = $1`, w.Slug); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for i, o := range w.Organizers {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO organizers (workshop_slug, position, name, url) VALUES ($1, $2, $3, $4)`,
			w.Slug, i, o.Name, o.URL,
		); err != nil {
			return fmt.Errorf("insert organizer %s: %w", o.Name, err)
		}
	}
	for i, s := range w.Schedule {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO schedule_sessions (workshop_slug, position, name) VALUES ($1, $2, $3)`,
			w.Slug, i, s.Name,
		); err != nil {
			return fmt.Errorf("insert session %q: %w", s.Name, err)
		}
		for j, slot := range s.Slots {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO schedule_slots (workshop_slug, session_position, position, start_minute, end_minute, label, material)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				w.Slug, i, j, int(slot.Start), int(slot.End), slot.Label, slot.Material,
			); err != nil {
				return fmt.Errorf("insert slot %s: %w", slot.Range(), err)
			}
		}
	}
	for i, p := range w.Papers {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO papers (workshop_slug, position, authors, title, url) VALUES ($1, $2, $3, $4, $5)`,
			w.Slug, i, textArray(p.Authors), p.Title, p.URL,
		); err != nil {
			return fmt.Errorf("insert paper %q: %w", p.Title, err)
		}
	}
	return tx.Commit()
}

// textArray binds a string slice as a TEXT[]; nil becomes '{}' rather than NULL.
func textArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func (r *workshopRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT slug FROM workshops ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		out = append(out, slug)
	}
	return out, rows.Err()
}
