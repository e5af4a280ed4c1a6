package ideas

// JoinIdeaRequest asks to join an idea post. The actor comes from the
// session; Profession is the free-text role shown on the member list.
type JoinIdeaRequest struct {
	PostID     uint64 `json:"post_id"`
	Profession string `json:"profession"`
}

// JoinIdeaResponse reports the outcome. AlreadyJoined marks the idempotent
// no-op case, which is a success, not an error.
type JoinIdeaResponse struct {
	Joined        bool `json:"joined"`
	AlreadyJoined bool `json:"already_joined,omitempty"`
}

type LeaveIdeaRequest struct {
	PostID uint64 `json:"post_id"`
}

// LeaveIdeaResponse reports the outcome. Leaving an idea one never joined
// is a benign no-op.
type LeaveIdeaResponse struct {
	Left bool `json:"left"`
}

// IsParticipantRequest checks membership. UserID of zero means the calling
// actor.
type IsParticipantRequest struct {
	PostID uint64 `json:"post_id"`
	UserID uint64 `json:"user_id,omitempty"`
}

type IsParticipantResponse struct {
	Participant bool `json:"participant"`
}

type ListParticipantsRequest struct {
	PostID          uint64  `json:"post_id"`
	PaginationToken *string `json:"pagination_token,omitempty"`
}

// Participant is a member list entry with the denormalized profile fields.
type Participant struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	Profession   string `json:"profession"`
	JoinedAtUnix uint64 `json:"joined_at_unix"`
}

type ListParticipantsResponse struct {
	Participants        []Participant `json:"participants"`
	NextPaginationToken *string       `json:"next_pagination_token,omitempty"`
}

// CountParticipantsRequest returns an idea post's member count.
type CountParticipantsRequest struct {
	PostID uint64 `json:"post_id"`
}

type CountParticipantsResponse struct {
	Count uint64 `json:"count"`
}
