package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsclub/backend/internal/domain"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, title, sport_name, date, place, rules, poster, prizes, uploaded_by, view_count, viewed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.Title, event.SportName, event.Date, event.Place,
		event.Rules, event.Poster, event.Prizes, event.UploadedBy,
		event.ViewCount, event.ViewedBy, event.CreatedAt,
	)
	return err
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.sport_name, e.date, e.place, e.rules, e.poster, e.prizes,
			e.uploaded_by, e.view_count, e.viewed_by, e.created_at, u.name
		FROM events e
		JOIN users u ON e.uploaded_by = u.id
		WHERE e.id = $1`

	var e domain.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.SportName, &e.Date, &e.Place, &e.Rules,
		&e.Poster, &e.Prizes, &e.UploadedBy, &e.ViewCount, &e.ViewedBy,
		&e.CreatedAt, &e.UploaderName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepo) ListAll(ctx context.Context) ([]domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.sport_name, e.date, e.place, e.rules, e.poster, e.prizes,
			e.uploaded_by, e.view_count, e.viewed_by, e.created_at, u.name
		FROM events e
		JOIN users u ON e.uploaded_by = u.id
		ORDER BY e.created_at DESC`

	return r.scanEvents(ctx, query)
}

func (r *EventRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.sport_name, e.date, e.place, e.rules, e.poster, e.prizes,
			e.uploaded_by, e.view_count, e.viewed_by, e.created_at, u.name
		FROM events e
		JOIN users u ON e.uploaded_by = u.id
		WHERE e.uploaded_by = $1
		ORDER BY e.created_at DESC`

	return r.scanEvents(ctx, query, userID)
}

// TrackView counts each viewer once, with the same conditional-update shape
// as post likes. A repeat view falls through to reading the current count.
func (r *EventRepo) TrackView(ctx context.Context, eventID, userID uuid.UUID) (int, bool, error) {
	query := `
		UPDATE events
		SET view_count = view_count + 1, viewed_by = array_append(viewed_by, $2)
		WHERE id = $1 AND NOT (viewed_by @> ARRAY[$2]::uuid[])
		RETURNING view_count`

	var count int
	err := r.pool.QueryRow(ctx, query, eventID, userID).Scan(&count)
	if err == nil {
		return count, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	err = r.pool.QueryRow(ctx, `SELECT view_count FROM events WHERE id = $1`, eventID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (r *EventRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE uploaded_by = $1`, userID).Scan(&count)
	return count, err
}

func (r *EventRepo) scanEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.SportName, &e.Date, &e.Place, &e.Rules,
			&e.Poster, &e.Prizes, &e.UploadedBy, &e.ViewCount, &e.ViewedBy,
			&e.CreatedAt, &e.UploaderName,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
