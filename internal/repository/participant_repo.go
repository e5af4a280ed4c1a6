package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gheider394-beep/2-sub000/internal/db"
	"github.com/gheider394-beep/2-sub000/internal/utils/pagination"
)

// ParticipantRepository provides data access for the idea_participants
// table — the authoritative store for idea membership. The denormalized
// array inside the post record is handled by PostRepository; keeping the
// two in sync is the participation engine's job, not this layer's.
type ParticipantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new repository bound to the given DB connection.
func NewParticipantRepository(database *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: database}
}

// Exists reports whether a user holds a membership row for a post.
// Membership queries always go through here, never through the embedded
// array, so a stale array can't produce a wrong answer.
func (r *ParticipantRepository) Exists(ctx context.Context, postID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.IdeaParticipant{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// Insert creates a membership row.
//
// Behavior:
//   - The composite PK (post_id, user_id) arbitrates concurrent double-joins:
//     the second insert lands on the existing row and changes nothing.
//
// Example:
//
//	repo.Insert(ctx, &db.IdeaParticipant{PostID: 42, UserID: 7, Profession: "Designer"})
func (r *ParticipantRepository) Insert(ctx context.Context, participant *db.IdeaParticipant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(participant).Error
}

// Delete removes a membership row. Deleting an absent row is not an error.
func (r *ParticipantRepository) Delete(ctx context.Context, postID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&db.IdeaParticipant{}).Error
}

// Count returns how many participants an idea post has.
func (r *ParticipantRepository) Count(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.IdeaParticipant{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// ParticipantRow is a membership row joined with the profile fields a
// listing needs.
type ParticipantRow struct {
	PostID     uint64
	UserID     uint64
	Profession string
	CreatedAt  time.Time
	Username   string
	AvatarURL  string
}

// List returns a post's participants, newest first, joined with profile
// fields.
//
// Behavior:
//   - Ordered by created_at DESC, user_id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.List(ctx, 42, nil, 20) // first 20 participants of post 42
func (r *ParticipantRepository) List(
	ctx context.Context,
	postID uint64,
	paginationToken *string,
	limit int,
) ([]ParticipantRow, *string, error) {
	var rows []ParticipantRow

	// decode cursor if provided
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("idea_participants p").
		Select("p.post_id, p.user_id, p.profession, p.created_at, u.username, u.avatar_url").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("p.post_id = ?", postID).
		Order("p.created_at DESC, p.user_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.UserID > 0 && cursor.JoinedUnix > 0 {
		ts := time.UnixMilli(cursor.JoinedUnix)
		query = query.Where(
			"(p.created_at < ? OR (p.created_at = ? AND p.user_id < ?))",
			ts, ts, cursor.UserID,
		)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			UserID:     last.UserID,
			JoinedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	return rows, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
