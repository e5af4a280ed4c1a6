package ideas

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gheider394-beep/2-sub000/internal/app"
	"github.com/gheider394-beep/2-sub000/internal/db"
	svcErr "github.com/gheider394-beep/2-sub000/internal/errors"
	"github.com/gheider394-beep/2-sub000/internal/repository"
)

const listPageSize = 20

// Service implements the Ideas API: the join/leave engine that keeps the
// idea_participants table (authoritative) and the participant array embedded
// in the post (display cache) consistent, and notifies idea authors.
type Service struct {
	appCtx       *app.AppContext
	participants *repository.ParticipantRepository
	posts        *repository.PostRepository
	users        *repository.UserRepository
}

// NewService creates the Ideas service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		participants: repository.NewParticipantRepository(appCtx.DB),
		posts:        repository.NewPostRepository(appCtx.DB),
		users:        repository.NewUserRepository(appCtx.DB),
	}
}

// Join adds the calling actor to an idea post.
//
// Order of writes:
//  1. membership row in idea_participants (authoritative; composite PK
//     absorbs duplicate joins under a race)
//  2. denormalized entry appended to the post's embedded array (best-effort;
//     a failure here leaves the row in place and is reported as staleness,
//     never rolled back)
//
// Joining an idea one is already part of returns AlreadyJoined, a benign
// no-op. The author is notified unless the actor is the author.
func (s *Service) Join(ctx context.Context, req *JoinIdeaRequest) (*JoinIdeaResponse, error) {
	actorID, err := s.appCtx.Sessions.RequireActor(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	profession := strings.TrimSpace(req.Profession)
	if profession == "" {
		return nil, svcErr.InvalidArgument("profession must not be empty")
	}

	post, err := s.posts.Get(ctx, req.PostID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !post.IsIdea() {
		return nil, svcErr.InvalidArgument("post does not accept participants")
	}

	exists, err := s.participants.Exists(ctx, post.ID, actorID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if exists {
		return &JoinIdeaResponse{Joined: true, AlreadyJoined: true}, nil
	}

	s.appCtx.Logger.Debug("Join called", "actor", actorID, "post", post.ID, "profession", profession)

	participant := &db.IdeaParticipant{
		PostID:     post.ID,
		UserID:     actorID,
		Profession: profession,
	}
	if err := s.participants.Insert(ctx, participant); err != nil {
		return nil, svcErr.Map(err)
	}

	s.syncEmbeddedJoin(ctx, post.ID, actorID, profession)

	if post.UserID != actorID {
		s.appCtx.Notifier.Dispatch(db.Notification{
			Type:       db.NotifyIdeaJoin,
			SenderID:   actorID,
			ReceiverID: post.UserID,
			PostID:     &post.ID,
			Message:    fmt.Sprintf("joined your idea %q", post.IdeaTitle),
		})
	}

	s.appCtx.RedisCache.BumpCount(ctx, s.appCtx.RedisCache.KeyForParticipantCount(post.ID), 1)

	return &JoinIdeaResponse{Joined: true}, nil
}

// syncEmbeddedJoin re-reads the post's embedded array, appends the actor's
// denormalized entry and writes it back. Failures leave the array stale and
// are logged; membership checks read the table, so no decision goes wrong.
// Two concurrent joiners can still lose one append here — the schema has no
// compare-and-swap token on the array.
func (s *Service) syncEmbeddedJoin(ctx context.Context, postID, actorID uint64, profession string) {
	user, err := s.users.Get(ctx, actorID)
	if err != nil {
		s.appCtx.Logger.Warn("embedded participant list out of sync",
			"post", postID, "user", actorID, "err", err)
		return
	}

	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		s.appCtx.Logger.Warn("embedded participant list out of sync",
			"post", postID, "user", actorID, "err", err)
		return
	}
	if post.Participants.Contains(actorID) {
		return
	}

	updated := append(post.Participants, db.ParticipantEntry{
		UserID:     user.ID,
		Username:   user.Username,
		AvatarURL:  user.AvatarURL,
		Profession: profession,
		JoinedAt:   time.Now().UTC(),
	})
	if err := s.posts.UpdateParticipants(ctx, postID, updated); err != nil {
		s.appCtx.Logger.Warn("embedded participant list out of sync",
			"post", postID, "user", actorID, "err", err)
	}
}

// Leave removes the calling actor from an idea post. Leaving without being
// a participant is a benign no-op. The membership row is deleted first, the
// embedded array filtered best-effort afterwards.
func (s *Service) Leave(ctx context.Context, req *LeaveIdeaRequest) (*LeaveIdeaResponse, error) {
	actorID, err := s.appCtx.Sessions.RequireActor(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	post, err := s.posts.Get(ctx, req.PostID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	exists, err := s.participants.Exists(ctx, post.ID, actorID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !exists {
		return &LeaveIdeaResponse{Left: true}, nil
	}

	s.appCtx.Logger.Debug("Leave called", "actor", actorID, "post", post.ID)

	if err := s.participants.Delete(ctx, post.ID, actorID); err != nil {
		return nil, svcErr.Map(err)
	}

	s.syncEmbeddedLeave(ctx, post.ID, actorID)

	if post.UserID != actorID {
		s.appCtx.Notifier.Dispatch(db.Notification{
			Type:       db.NotifyIdeaLeave,
			SenderID:   actorID,
			ReceiverID: post.UserID,
			PostID:     &post.ID,
			Message:    fmt.Sprintf("left your idea %q", post.IdeaTitle),
		})
	}

	s.appCtx.RedisCache.BumpCount(ctx, s.appCtx.RedisCache.KeyForParticipantCount(post.ID), -1)

	return &LeaveIdeaResponse{Left: true}, nil
}

// syncEmbeddedLeave filters the actor out of the post's embedded array.
// Best-effort, same staleness contract as syncEmbeddedJoin.
func (s *Service) syncEmbeddedLeave(ctx context.Context, postID, actorID uint64) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		s.appCtx.Logger.Warn("embedded participant list out of sync",
			"post", postID, "user", actorID, "err", err)
		return
	}
	if !post.Participants.Contains(actorID) {
		return
	}
	if err := s.posts.UpdateParticipants(ctx, postID, post.Participants.Without(actorID)); err != nil {
		s.appCtx.Logger.Warn("embedded participant list out of sync",
			"post", postID, "user", actorID, "err", err)
	}
}

// IsParticipant reports membership. Always answered from the relational
// table; the embedded array may be stale and is never consulted.
func (s *Service) IsParticipant(ctx context.Context, req *IsParticipantRequest) (*IsParticipantResponse, error) {
	userID := req.UserID
	if userID == 0 {
		actorID, err := s.appCtx.Sessions.RequireActor(ctx)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		userID = actorID
	}

	exists, err := s.participants.Exists(ctx, req.PostID, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &IsParticipantResponse{Participant: exists}, nil
}

// ListParticipants returns a page of an idea post's members, newest first,
// with profile fields joined in.
func (s *Service) ListParticipants(ctx context.Context, req *ListParticipantsRequest) (*ListParticipantsResponse, error) {
	rows, nextToken, err := s.participants.List(ctx, req.PostID, req.PaginationToken, listPageSize)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &ListParticipantsResponse{}
	for _, row := range rows {
		resp.Participants = append(resp.Participants, Participant{
			UserID:       row.UserID,
			Username:     row.Username,
			AvatarURL:    row.AvatarURL,
			Profession:   row.Profession,
			JoinedAtUnix: uint64(row.CreatedAt.UnixMilli()),
		})
	}
	if nextToken != nil {
		resp.NextPaginationToken = nextToken
	}
	return resp, nil
}

// CountParticipants returns an idea post's member count, cache-first with
// DB fallback.
func (s *Service) CountParticipants(ctx context.Context, req *CountParticipantsRequest) (*CountParticipantsResponse, error) {
	key := s.appCtx.RedisCache.KeyForParticipantCount(req.PostID)

	if n, ok, _ := s.appCtx.RedisCache.GetCount(ctx, key); ok {
		return &CountParticipantsResponse{Count: uint64(n)}, nil
	}

	count, err := s.participants.Count(ctx, req.PostID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	_ = s.appCtx.RedisCache.SetCount(ctx, key, count)

	return &CountParticipantsResponse{Count: uint64(count)}, nil
}
