package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsclub/backend/internal/domain"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, media_url, title, media_type, likes, liked_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		post.ID, post.UserID, post.MediaURL, post.Title,
		post.MediaType, post.Likes, post.LikedBy, post.CreatedAt,
	)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.media_url, p.title, p.media_type, p.likes, p.liked_by, p.created_at,
			u.name, u.profile_picture_url
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1`

	var p domain.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.MediaURL, &p.Title, &p.MediaType,
		&p.Likes, &p.LikedBy, &p.CreatedAt, &p.UserName, &p.UserPicture,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.media_url, p.title, p.media_type, p.likes, p.liked_by, p.created_at,
			u.name, u.profile_picture_url
		FROM posts p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.created_at DESC`

	return r.scanPosts(ctx, query)
}

func (r *PostRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.media_url, p.title, p.media_type, p.likes, p.liked_by, p.created_at,
			u.name, u.profile_picture_url
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC`

	return r.scanPosts(ctx, query, userID)
}

// LikeToggle mutates the counter and the liked_by set in one conditional
// UPDATE so likes always equals the set size, even under concurrent calls.
func (r *PostRepo) LikeToggle(ctx context.Context, postID, userID uuid.UUID, like bool) (*domain.LikeResult, error) {
	var query string
	if like {
		query = `
			UPDATE posts
			SET likes = likes + 1, liked_by = array_append(liked_by, $2)
			WHERE id = $1 AND NOT (liked_by @> ARRAY[$2]::uuid[])
			RETURNING likes`
	} else {
		query = `
			UPDATE posts
			SET likes = likes - 1, liked_by = array_remove(liked_by, $2)
			WHERE id = $1 AND liked_by @> ARRAY[$2]::uuid[]
			RETURNING likes`
	}

	var likes int
	err := r.pool.QueryRow(ctx, query, postID, userID).Scan(&likes)
	if err == nil {
		return &domain.LikeResult{Likes: likes, Liked: like, Applied: true}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Condition failed: either the post is gone or the toggle is a no-op.
	var liked bool
	err = r.pool.QueryRow(ctx,
		`SELECT likes, liked_by @> ARRAY[$2]::uuid[] FROM posts WHERE id = $1`,
		postID, userID,
	).Scan(&likes, &liked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.LikeResult{Likes: likes, Liked: liked, Applied: false}, nil
}

func (r *PostRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *PostRepo) TotalLikesByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(likes), 0) FROM posts WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

func (r *PostRepo) scanPosts(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.MediaURL, &p.Title, &p.MediaType,
			&p.Likes, &p.LikedBy, &p.CreatedAt, &p.UserName, &p.UserPicture,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}
