package ports

import (
	"context"

	"pokeraid/internal/domain"
)

// ActionLogEntry is one resolved action appended to a session's audit trail.
type ActionLogEntry struct {
	SessionID string `json:"sessionId"`
	Round     int    `json:"round"`
	ActorID   string `json:"actorId"`
	Kind      string `json:"kind"`
	Detail    any    `json:"detail,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ActionLogPort appends resolved actions to durable storage.
type ActionLogPort interface {
	// AppendAction writes one log entry. Failures must not affect the
	// session; callers log and continue.
	AppendAction(ctx context.Context, entry ActionLogEntry) error
}

// ParticipantRecord is one player's final standing in a finished raid.
type ParticipantRecord struct {
	PlayerID string              `json:"playerId"`
	Username string              `json:"username"`
	Status   domain.PlayerStatus `json:"status"`
}

// SessionRecord summarizes a finished raid for history queries.
type SessionRecord struct {
	SessionID    string              `json:"sessionId"`
	RaidType     string              `json:"raidType"`
	BossName     string              `json:"bossName"`
	BossLevel    int                 `json:"bossLevel"`
	Outcome      domain.Outcome      `json:"outcome"`
	Rounds       int                 `json:"rounds"`
	Participants []ParticipantRecord `json:"participants"`
	EndedAt      int64               `json:"endedAt"`
}

// SessionStorePort persists finished raid summaries.
type SessionStorePort interface {
	SaveSession(ctx context.Context, record SessionRecord) error
}
