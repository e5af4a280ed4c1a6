package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User table. Username/AvatarURL/Profession double as the profile fields
// denormalized into idea participant entries.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	AvatarURL    string `gorm:"size:255"`
	Profession   string `gorm:"size:128"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// ReactionKind is the closed set of reactions a user can leave.
type ReactionKind string

const (
	KindLove       ReactionKind = "love"
	KindAwesome    ReactionKind = "awesome"
	KindIncredible ReactionKind = "incredible"
)

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	switch k {
	case KindLove, KindAwesome, KindIncredible:
		return true
	}
	return false
}

// SubjectRef points at the thing being reacted on: exactly one of
// PostID/CommentID is set.
type SubjectRef struct {
	PostID    *uint64
	CommentID *uint64
}

// PostRef builds a SubjectRef for a post.
func PostRef(id uint64) SubjectRef { return SubjectRef{PostID: &id} }

// CommentRef builds a SubjectRef for a comment.
func CommentRef(id uint64) SubjectRef { return SubjectRef{CommentID: &id} }

// IsPost reports whether the ref targets a post.
func (r SubjectRef) IsPost() bool { return r.PostID != nil }

// Validate rejects refs that set neither or both sides.
func (r SubjectRef) Validate() error {
	if (r.PostID == nil) == (r.CommentID == nil) {
		return fmt.Errorf("subject must reference exactly one of post or comment")
	}
	return nil
}

// String renders the ref for log lines ("post:42" / "comment:7").
func (r SubjectRef) String() string {
	if r.PostID != nil {
		return fmt.Sprintf("post:%d", *r.PostID)
	}
	if r.CommentID != nil {
		return fmt.Sprintf("comment:%d", *r.CommentID)
	}
	return "subject:none"
}

// Reaction represents a user's reaction on a post or a comment.
//
// Uniqueness:
//   - idx_reactions_post_user(post_id, user_id) and
//     idx_reactions_comment_user(comment_id, user_id) are unique, so at most
//     one reaction row exists per (subject, user). Concurrent double-toggles
//     are arbitrated by these constraints, not by client-side locking.
//     NULLs don't collide, so post reactions never conflict with comment
//     reactions.
//
// Lifecycle: created on first reaction, kind overwritten on switch, deleted
// on toggle-off. No history is kept.
type Reaction struct {
	ID        uint64       `gorm:"primaryKey;autoIncrement"`
	UserID    uint64       `gorm:"not null;uniqueIndex:idx_reactions_post_user,priority:2;uniqueIndex:idx_reactions_comment_user,priority:2"`
	PostID    *uint64      `gorm:"uniqueIndex:idx_reactions_post_user,priority:1"`
	CommentID *uint64      `gorm:"uniqueIndex:idx_reactions_comment_user,priority:1"`
	Kind      ReactionKind `gorm:"size:16;not null"`
	CreatedAt time.Time    `gorm:"autoCreateTime"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime"`
}

// ParticipantEntry is the denormalized participant record embedded in a
// post's idea payload, so feeds can render the member list without a join.
type ParticipantEntry struct {
	UserID     uint64    `json:"user_id"`
	Username   string    `json:"username"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Profession string    `json:"profession"`
	JoinedAt   time.Time `json:"joined_at"`
}

// ParticipantList is a JSON column holding ParticipantEntry values.
type ParticipantList []ParticipantEntry

// Value serializes the list for storage. An empty list stores as [].
func (l ParticipantList) Value() (driver.Value, error) {
	if l == nil {
		l = ParticipantList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal participant list: %w", err)
	}
	return string(b), nil
}

// Scan deserializes the list from storage. NULL scans as an empty list.
func (l *ParticipantList) Scan(value interface{}) error {
	if value == nil {
		*l = ParticipantList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported participant list type %T", value)
	}
	if len(data) == 0 {
		*l = ParticipantList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether the list already holds an entry for userID.
func (l ParticipantList) Contains(userID uint64) bool {
	for _, e := range l {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with userID filtered out.
func (l ParticipantList) Without(userID uint64) ParticipantList {
	out := make(ParticipantList, 0, len(l))
	for _, e := range l {
		if e.UserID != userID {
			out = append(out, e)
		}
	}
	return out
}

// Post table. A post with a non-empty IdeaTitle is an idea post that users
// can join; Participants mirrors the idea_participants table for display.
// The relational table stays authoritative for membership decisions.
type Post struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement"`
	UserID       uint64          `gorm:"not null;index"`
	Body         string          `gorm:"type:text"`
	IdeaTitle    string          `gorm:"size:255"`
	Participants ParticipantList `gorm:"type:json"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

// IsIdea reports whether the post carries an idea payload.
func (p *Post) IsIdea() bool { return p.IdeaTitle != "" }

// Comment table.
type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	PostID    uint64    `gorm:"not null;index"`
	UserID    uint64    `gorm:"not null;index"`
	Body      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// IdeaParticipant is the authoritative membership row for an idea post.
//
// Composite PK: (PostID, UserID)
//   - Ensures a single row per pair; a duplicate join cannot create a
//     second row even under a race.
//
// Index:
//   - idx_participants_post_joined(post_id, created_at DESC, user_id)
//     serves participant listings with cursor pagination.
type IdeaParticipant struct {
	PostID     uint64    `gorm:"primaryKey;index:idx_participants_post_joined,priority:1"`
	UserID     uint64    `gorm:"primaryKey;index:idx_participants_post_joined,priority:3"`
	Profession string    `gorm:"size:128;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_participants_post_joined,priority:2,sort:desc"`
}

// Notification types emitted by the engines.
const (
	NotifyPostLike  = "post_like"
	NotifyIdeaJoin  = "idea_join"
	NotifyIdeaLeave = "idea_leave"
)

// Notification row persisted by the dispatcher. Delivery is fire-and-forget;
// failures never propagate to the mutation that triggered them.
type Notification struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Type       string    `gorm:"size:30;not null;index"`
	SenderID   uint64    `gorm:"not null;index"`
	ReceiverID uint64    `gorm:"not null;index:idx_notifications_receiver_created,priority:1"`
	PostID     *uint64
	CommentID  *uint64
	Message    string    `gorm:"size:255"`
	IsRead     bool      `gorm:"default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_notifications_receiver_created,priority:2,sort:desc"`
}
