package reactions

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gheider394-beep/2-sub000/internal/app"
	"github.com/gheider394-beep/2-sub000/internal/db"
	svcErr "github.com/gheider394-beep/2-sub000/internal/errors"
	"github.com/gheider394-beep/2-sub000/internal/repository"
)

// Service implements the Reactions API: the toggle engine that keeps at
// most one reaction row per (subject, actor) and notifies post authors on
// first-time reactions.
type Service struct {
	appCtx    *app.AppContext
	reactions *repository.ReactionRepository
	posts     *repository.PostRepository
}

// NewService creates the Reactions service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		reactions: repository.NewReactionRepository(appCtx.DB),
		posts:     repository.NewPostRepository(appCtx.DB),
	}
}

// subjectFromIDs builds and validates a SubjectRef from request fields.
func subjectFromIDs(postID, commentID uint64) (db.SubjectRef, error) {
	if (postID == 0) == (commentID == 0) {
		return db.SubjectRef{}, svcErr.Validation("exactly one of post_id or comment_id is required")
	}
	if postID != 0 {
		return db.PostRef(postID), nil
	}
	return db.CommentRef(commentID), nil
}

// Toggle applies a reaction request against the current state for
// (subject, actor):
//
//	no row            -> insert, "added" (author notified once)
//	row, same kind    -> delete, "removed"
//	row, other kind   -> overwrite kind, "updated"
//
// Updates and removals never notify. Reacting on one's own post never
// notifies. Concurrent double-taps are merged by the storage-level unique
// index, not by locking here.
func (s *Service) Toggle(ctx context.Context, req *ToggleReactionRequest) (*ToggleReactionResponse, error) {
	actorID, err := s.appCtx.Sessions.RequireActor(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	ref, err := subjectFromIDs(req.PostID, req.CommentID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	kind := db.ReactionKind(req.Kind)
	if !kind.Valid() {
		return nil, svcErr.InvalidArgument(fmt.Sprintf("unknown reaction kind %q", req.Kind))
	}
	// comments accept a single kind
	if !ref.IsPost() && kind != db.KindLove {
		return nil, svcErr.InvalidArgument("comments accept only the love reaction")
	}

	s.appCtx.Logger.Debug("Toggle called", "actor", actorID, "subject", ref.String(), "kind", kind)

	existing, err := s.reactions.Find(ctx, ref, actorID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	key := s.appCtx.RedisCache.KeyForReactionCount(ref)

	switch {
	case existing == nil:
		if err := s.reactions.Upsert(ctx, ref, actorID, kind); err != nil {
			return nil, svcErr.Map(err)
		}
		s.appCtx.RedisCache.BumpCount(ctx, key, 1)
		s.notifyFirstReaction(ctx, ref, actorID)
		return &ToggleReactionResponse{Action: ActionAdded}, nil

	case existing.Kind == kind:
		if err := s.reactions.Delete(ctx, existing.ID); err != nil {
			return nil, svcErr.Map(err)
		}
		s.appCtx.RedisCache.BumpCount(ctx, key, -1)
		return &ToggleReactionResponse{Action: ActionRemoved}, nil

	default:
		if err := s.reactions.UpdateKind(ctx, existing.ID, kind); err != nil {
			return nil, svcErr.Map(err)
		}
		return &ToggleReactionResponse{Action: ActionUpdated}, nil
	}
}

// notifyFirstReaction dispatches a post_like to the post author. Only
// first-time reactions on posts notify, and never for self-reactions.
func (s *Service) notifyFirstReaction(ctx context.Context, ref db.SubjectRef, actorID uint64) {
	if !ref.IsPost() {
		return
	}
	post, err := s.posts.Get(ctx, *ref.PostID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.appCtx.Logger.Warn("could not load post for notification", "post", *ref.PostID, "err", err)
		}
		return
	}
	if post.UserID == actorID {
		return
	}
	s.appCtx.Notifier.Dispatch(db.Notification{
		Type:       db.NotifyPostLike,
		SenderID:   actorID,
		ReceiverID: post.UserID,
		PostID:     ref.PostID,
		Message:    "reacted to your post",
	})
}

// Count returns a subject's reaction count.
// Cache-first strategy:
//  1. Attempts to read the Redis counter.
//  2. On miss, falls back to the DB and updates Redis with a 1h TTL.
func (s *Service) Count(ctx context.Context, req *CountReactionsRequest) (*CountReactionsResponse, error) {
	ref, err := subjectFromIDs(req.PostID, req.CommentID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	key := s.appCtx.RedisCache.KeyForReactionCount(ref)

	// try cache first
	if n, ok, _ := s.appCtx.RedisCache.GetCount(ctx, key); ok {
		return &CountReactionsResponse{Count: uint64(n)}, nil
	}

	// fallback: DB
	count, err := s.reactions.Count(ctx, ref)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	// set + TTL refresh
	_ = s.appCtx.RedisCache.SetCount(ctx, key, count)

	return &CountReactionsResponse{Count: uint64(count)}, nil
}
