package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gheider394-beep/2-sub000/internal/db"
)

// PostRepository reads posts and writes the denormalized participant array
// embedded in the post record. The array is a display cache; membership
// truth lives in idea_participants.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new repository bound to the given DB connection.
func NewPostRepository(database *gorm.DB) *PostRepository {
	return &PostRepository{db: database}
}

// Get fetches a post by id, including its idea payload.
func (r *PostRepository) Get(ctx context.Context, id uint64) (*db.Post, error) {
	var post db.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateParticipants overwrites the embedded participant array of a post.
//
// The whole array is re-read and rewritten by the caller; two concurrent
// writers can lose one append (no compare-and-swap token exists in the
// schema). Tolerated: reads that matter consult idea_participants instead.
func (r *PostRepository) UpdateParticipants(ctx context.Context, postID uint64, list db.ParticipantList) error {
	return r.db.WithContext(ctx).
		Model(&db.Post{}).
		Where("id = ?", postID).
		Update("participants", list).Error
}
