package reactions

// Toggle outcomes.
const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionRemoved = "removed"
)

// ToggleReactionRequest targets exactly one of PostID/CommentID (zero means
// unset). The actor comes from the session, never from the request.
type ToggleReactionRequest struct {
	PostID    uint64 `json:"post_id,omitempty"`
	CommentID uint64 `json:"comment_id,omitempty"`
	Kind      string `json:"kind"`
}

// ToggleReactionResponse reports which branch the toggle took.
type ToggleReactionResponse struct {
	Action string `json:"action"`
}

// CountReactionsRequest targets exactly one of PostID/CommentID.
type CountReactionsRequest struct {
	PostID    uint64 `json:"post_id,omitempty"`
	CommentID uint64 `json:"comment_id,omitempty"`
}

type CountReactionsResponse struct {
	Count uint64 `json:"count"`
}
