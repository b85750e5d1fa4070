package models

// ChatRole identifies the author of a transcript entry.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is a single transcript entry.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
