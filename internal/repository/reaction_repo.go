package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gheider394-beep/2-sub000/internal/db"
)

// ReactionRepository provides data access for the Reaction model: point
// lookups and writes keyed by (subject, user).
type ReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new repository bound to the given DB connection.
func NewReactionRepository(database *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: database}
}

// subjectScope narrows a query to the reaction's subject columns.
func subjectScope(query *gorm.DB, ref db.SubjectRef) *gorm.DB {
	if ref.PostID != nil {
		return query.Where("post_id = ?", *ref.PostID)
	}
	return query.Where("comment_id = ?", *ref.CommentID)
}

// Find returns the reaction a user left on a subject, or nil when none
// exists. The nil result is what the toggle engine branches on.
func (r *ReactionRepository) Find(
	ctx context.Context,
	ref db.SubjectRef,
	userID uint64,
) (*db.Reaction, error) {
	var reaction db.Reaction
	query := subjectScope(r.db.WithContext(ctx), ref).Where("user_id = ?", userID)
	if err := query.First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

// Upsert inserts a reaction row for (subject, user), overwriting the kind if
// a row already exists.
//
// Behavior:
//   - The unique index on (post_id, user_id) / (comment_id, user_id) makes
//     this the arbitration point for concurrent double-toggles: two racing
//     inserts merge into one row instead of creating duplicates.
//
// Example:
//
//	repo.Upsert(ctx, db.PostRef(42), 7, db.KindLove)
func (r *ReactionRepository) Upsert(
	ctx context.Context,
	ref db.SubjectRef,
	userID uint64,
	kind db.ReactionKind,
) error {
	reaction := db.Reaction{
		UserID:    userID,
		PostID:    ref.PostID,
		CommentID: ref.CommentID,
		Kind:      kind,
	}

	conflictCols := []clause.Column{{Name: "post_id"}, {Name: "user_id"}}
	if ref.CommentID != nil {
		conflictCols = []clause.Column{{Name: "comment_id"}, {Name: "user_id"}}
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   conflictCols,
			DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
		}).
		Create(&reaction).Error
}

// UpdateKind overwrites the kind of an existing reaction row in place.
// No history is kept.
func (r *ReactionRepository) UpdateKind(ctx context.Context, id uint64, kind db.ReactionKind) error {
	return r.db.WithContext(ctx).
		Model(&db.Reaction{}).
		Where("id = ?", id).
		Update("kind", kind).Error
}

// Delete removes a reaction row (toggle-off).
func (r *ReactionRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.Reaction{}, id).Error
}

// Count returns how many reactions a subject carries.
// Used in conjunction with the Redis counter cache (DB is fallback).
func (r *ReactionRepository) Count(ctx context.Context, ref db.SubjectRef) (int64, error) {
	var count int64
	query := subjectScope(r.db.WithContext(ctx).Model(&db.Reaction{}), ref)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
