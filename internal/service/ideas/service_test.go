package ideas_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gheider394-beep/2-sub000/internal/app"
	"github.com/gheider394-beep/2-sub000/internal/cache"
	"github.com/gheider394-beep/2-sub000/internal/config"
	"github.com/gheider394-beep/2-sub000/internal/db"
	"github.com/gheider394-beep/2-sub000/internal/repository"
	"github.com/gheider394-beep/2-sub000/internal/service/ideas"
	"github.com/gheider394-beep/2-sub000/internal/session"
)

//
// Test helpers
//

type dispatcherSpy struct {
	mu         sync.Mutex
	dispatched []db.Notification
}

func (s *dispatcherSpy) Dispatch(n db.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched = append(s.dispatched, n)
}

func (s *dispatcherSpy) all() []db.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]db.Notification(nil), s.dispatched...)
}

type testEnv struct {
	svc   *ideas.Service
	db    *gorm.DB
	guard *session.Guard
	spy   *dispatcherSpy
}

func (e *testEnv) actorCtx(t *testing.T, userID uint64) context.Context {
	t.Helper()
	token, err := e.guard.Issue(context.Background(), userID)
	require.NoError(t, err)
	return session.WithToken(context.Background(), token)
}

func (e *testEnv) loadPost(t *testing.T, id uint64) *db.Post {
	t.Helper()
	var post db.Post
	require.NoError(t, e.db.First(&post, id).Error)
	return &post
}

// setupService seeds author (1) and two members (2, 3), an idea post 1
// authored by user 1, and a plain post 2, and wires an Ideas service over
// in-memory SQLite + miniredis.
func setupService(t *testing.T) *testEnv {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	users := []db.User{
		{ID: 1, Username: "author", Email: "author@test.com", PasswordHash: "x", Profession: "Founder"},
		{ID: 2, Username: "designer", Email: "designer@test.com", PasswordHash: "x", AvatarURL: "https://a.test/2.png"},
		{ID: 3, Username: "engineer", Email: "engineer@test.com", PasswordHash: "x"},
	}
	require.NoError(t, dbase.Create(&users).Error)
	require.NoError(t, dbase.Create(&db.Post{ID: 1, UserID: 1, Body: "let's build", IdeaTitle: "Weekend App"}).Error)
	require.NoError(t, dbase.Create(&db.Post{ID: 2, UserID: 1, Body: "no idea here"}).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cfg)

	guard := session.NewGuard(redisCache, time.Minute)
	spy := &dispatcherSpy{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger, guard, spy)
	return &testEnv{
		svc:   ideas.NewService(appCtx),
		db:    dbase,
		guard: guard,
		spy:   spy,
	}
}

//
// Tests
//

// TestJoinWritesBothStoresAndNotifies is the core scenario: a non-author
// joins, which must create the membership row, append a denormalized entry
// to the post, and notify the author exactly once.
func TestJoinWritesBothStoresAndNotifies(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 2)

	resp, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.NoError(t, err)
	assert.True(t, resp.Joined)
	assert.False(t, resp.AlreadyJoined)

	// authoritative row
	var row db.IdeaParticipant
	require.NoError(t, env.db.Where("post_id = ? AND user_id = ?", 1, 2).First(&row).Error)
	assert.Equal(t, "Designer", row.Profession)

	// denormalized entry with profile fields
	post := env.loadPost(t, 1)
	require.Len(t, post.Participants, 1)
	assert.Equal(t, uint64(2), post.Participants[0].UserID)
	assert.Equal(t, "designer", post.Participants[0].Username)
	assert.Equal(t, "https://a.test/2.png", post.Participants[0].AvatarURL)
	assert.Equal(t, "Designer", post.Participants[0].Profession)

	// author notified exactly once
	dispatched := env.spy.all()
	require.Len(t, dispatched, 1)
	assert.Equal(t, db.NotifyIdeaJoin, dispatched[0].Type)
	assert.Equal(t, uint64(2), dispatched[0].SenderID)
	assert.Equal(t, uint64(1), dispatched[0].ReceiverID)
	assert.Contains(t, dispatched[0].Message, "Weekend App")
}

// TestJoinTwiceIsIdempotent verifies the second join is a benign no-op:
// no duplicate row, no duplicate array entry, no second notification.
func TestJoinTwiceIsIdempotent(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 2)

	_, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.NoError(t, err)

	resp, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.NoError(t, err)
	assert.True(t, resp.Joined)
	assert.True(t, resp.AlreadyJoined)

	var count int64
	require.NoError(t, env.db.Model(&db.IdeaParticipant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	post := env.loadPost(t, 1)
	assert.Len(t, post.Participants, 1)
	assert.Len(t, env.spy.all(), 1)
}

func TestJoinRequiresProfession(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 2)

	_, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 1, Profession: "   "})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	var count int64
	require.NoError(t, env.db.Model(&db.IdeaParticipant{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestJoinRejectsNonIdeaPost(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 2)

	_, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 2, Profession: "Designer"})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSelfJoinNeverNotifies(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 1) // idea author

	resp, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 1, Profession: "Founder"})
	require.NoError(t, err)
	assert.True(t, resp.Joined)
	assert.Empty(t, env.spy.all())
}

// TestLeaveIsInverseOfJoin: after leave, both stores drop the member and
// the author hears about it.
func TestLeaveIsInverseOfJoin(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 2)

	_, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.NoError(t, err)

	isResp, err := env.svc.IsParticipant(ctx, &ideas.IsParticipantRequest{PostID: 1})
	require.NoError(t, err)
	require.True(t, isResp.Participant)

	leaveResp, err := env.svc.Leave(ctx, &ideas.LeaveIdeaRequest{PostID: 1})
	require.NoError(t, err)
	assert.True(t, leaveResp.Left)

	isResp, err = env.svc.IsParticipant(ctx, &ideas.IsParticipantRequest{PostID: 1})
	require.NoError(t, err)
	assert.False(t, isResp.Participant)

	post := env.loadPost(t, 1)
	assert.Empty(t, post.Participants)

	dispatched := env.spy.all()
	require.Len(t, dispatched, 2)
	assert.Equal(t, db.NotifyIdeaJoin, dispatched[0].Type)
	assert.Equal(t, db.NotifyIdeaLeave, dispatched[1].Type)
}

func TestLeaveWithoutMembershipIsNoop(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 3)

	resp, err := env.svc.Leave(ctx, &ideas.LeaveIdeaRequest{PostID: 1})
	require.NoError(t, err)
	assert.True(t, resp.Left)
	assert.Empty(t, env.spy.all())
}

// TestMembershipReadsIgnoreStaleArray corrupts the embedded array after a
// join and verifies IsParticipant still answers from the relational table.
func TestMembershipReadsIgnoreStaleArray(t *testing.T) {
	env := setupService(t)
	ctx := env.actorCtx(t, 2)

	_, err := env.svc.Join(ctx, &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.NoError(t, err)

	// wipe the display cache as if a phase-two write had been lost
	posts := repository.NewPostRepository(env.db)
	require.NoError(t, posts.UpdateParticipants(context.Background(), 1, db.ParticipantList{}))

	resp, err := env.svc.IsParticipant(ctx, &ideas.IsParticipantRequest{PostID: 1})
	require.NoError(t, err)
	assert.True(t, resp.Participant)
}

func TestJoinUnauthenticated(t *testing.T) {
	env := setupService(t)

	_, err := env.svc.Join(context.Background(), &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	var count int64
	require.NoError(t, env.db.Model(&db.IdeaParticipant{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListParticipants(t *testing.T) {
	env := setupService(t)

	_, err := env.svc.Join(env.actorCtx(t, 2), &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.NoError(t, err)
	_, err = env.svc.Join(env.actorCtx(t, 3), &ideas.JoinIdeaRequest{PostID: 1, Profession: "Engineer"})
	require.NoError(t, err)

	resp, err := env.svc.ListParticipants(context.Background(), &ideas.ListParticipantsRequest{PostID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Participants, 2)
	assert.Nil(t, resp.NextPaginationToken)

	usernames := []string{resp.Participants[0].Username, resp.Participants[1].Username}
	assert.ElementsMatch(t, []string{"designer", "engineer"}, usernames)
}

// TestCountParticipantsCacheFirst verifies member counts fall back to the
// DB once and are then served from Redis.
func TestCountParticipantsCacheFirst(t *testing.T) {
	env := setupService(t)

	_, err := env.svc.Join(env.actorCtx(t, 2), &ideas.JoinIdeaRequest{PostID: 1, Profession: "Designer"})
	require.NoError(t, err)

	resp, err := env.svc.CountParticipants(context.Background(), &ideas.CountParticipantsRequest{PostID: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.Count)

	resp, err = env.svc.CountParticipants(context.Background(), &ideas.CountParticipantsRequest{PostID: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.Count)
}
