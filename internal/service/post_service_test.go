package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsclub/backend/internal/domain"
)

// fakePostRepo mirrors the store's atomic conditional update: the
// check-and-mutate runs under one lock, like the single UPDATE statement.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]*domain.Post)}
}

func (f *fakePostRepo) Create(ctx context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (f *fakePostRepo) ListAll(ctx context.Context) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Post
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePostRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Post
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) LikeToggle(ctx context.Context, postID, userID uuid.UUID, like bool) (*domain.LikeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return nil, nil
	}

	idx := -1
	for i, id := range post.LikedBy {
		if id == userID {
			idx = i
			break
		}
	}

	if like {
		if idx >= 0 {
			return &domain.LikeResult{Likes: post.Likes, Liked: true, Applied: false}, nil
		}
		post.LikedBy = append(post.LikedBy, userID)
		post.Likes++
		return &domain.LikeResult{Likes: post.Likes, Liked: true, Applied: true}, nil
	}

	if idx < 0 {
		return &domain.LikeResult{Likes: post.Likes, Liked: false, Applied: false}, nil
	}
	post.LikedBy = append(post.LikedBy[:idx], post.LikedBy[idx+1:]...)
	post.Likes--
	return &domain.LikeResult{Likes: post.Likes, Liked: false, Applied: true}, nil
}

func (f *fakePostRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	posts, _ := f.ListByUser(ctx, userID)
	return len(posts), nil
}

func (f *fakePostRepo) TotalLikesByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	posts, _ := f.ListByUser(ctx, userID)
	total := 0
	for _, p := range posts {
		total += p.Likes
	}
	return total, nil
}

type recordingNotifier struct {
	mu         sync.Mutex
	postsSeen  int
	likesSeen  int
	eventsSeen int
}

func (n *recordingNotifier) NotifyPostCreated(post *domain.Post) {
	n.mu.Lock()
	n.postsSeen++
	n.mu.Unlock()
}

func (n *recordingNotifier) NotifyPostLiked(postID uuid.UUID, likes int) {
	n.mu.Lock()
	n.likesSeen++
	n.mu.Unlock()
}

func (n *recordingNotifier) NotifyEventCreated(event *domain.Event) {
	n.mu.Lock()
	n.eventsSeen++
	n.mu.Unlock()
}

func newTestPost(t *testing.T, svc *PostService) *domain.Post {
	t.Helper()
	post, err := svc.Create(context.Background(), uuid.New(), CreatePostInput{
		MediaURL:  "/uploads/media-1.mp4",
		Title:     "match highlights",
		MediaType: "video/mp4",
	})
	require.NoError(t, err)
	return post
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, nil)
	post := newTestPost(t, svc)
	account := uuid.New()

	liked, err := svc.Like(context.Background(), post.ID, account)
	require.NoError(t, err)
	assert.Equal(t, &LikeStatus{Likes: 1, Liked: true}, liked)

	unliked, err := svc.Unlike(context.Background(), post.ID, account)
	require.NoError(t, err)
	assert.Equal(t, &LikeStatus{Likes: 0, Liked: false}, unliked)

	stored, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Likes)
	assert.Empty(t, stored.LikedBy)
}

func TestLikeTwiceFailsWithoutDoubleCounting(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, nil)
	post := newTestPost(t, svc)
	account := uuid.New()

	_, err := svc.Like(context.Background(), post.ID, account)
	require.NoError(t, err)

	_, err = svc.Like(context.Background(), post.ID, account)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	stored, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Likes)
	assert.Len(t, stored.LikedBy, 1)
}

func TestUnlikeWithoutLikeFails(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, nil)
	post := newTestPost(t, svc)

	_, err := svc.Unlike(context.Background(), post.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotLiked)

	stored, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Likes)
}

func TestLikeUnknownPost(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), nil)

	_, err := svc.Like(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Unlike(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestConcurrentLikesConverge(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, nil)
	post := newTestPost(t, svc)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Like(context.Background(), post.ID, uuid.New())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, n, stored.Likes)
	assert.Len(t, stored.LikedBy, n)
}

func TestPostActivityReachesFeed(t *testing.T) {
	repo := newFakePostRepo()
	notifier := &recordingNotifier{}
	svc := NewPostService(repo, notifier)
	post := newTestPost(t, svc)
	account := uuid.New()

	_, err := svc.Like(context.Background(), post.ID, account)
	require.NoError(t, err)
	_, err = svc.Unlike(context.Background(), post.ID, account)
	require.NoError(t, err)

	assert.Equal(t, 1, notifier.postsSeen)
	assert.Equal(t, 2, notifier.likesSeen)
}
