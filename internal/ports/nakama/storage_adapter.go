package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"pokeraid/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	actionLogCollection   = "raid_action_log"
	sessionLogCollection  = "raid_sessions"
	storagePermissionRead = 2 // public read
)

// NakamaActionLogAdapter implements ports.ActionLogPort on Nakama's storage engine.
type NakamaActionLogAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaActionLogAdapter creates a new action log adapter.
func NewNakamaActionLogAdapter(nk runtime.NakamaModule) *NakamaActionLogAdapter {
	return &NakamaActionLogAdapter{
		nk: nk,
	}
}

// AppendAction writes one log entry keyed by session, round and actor.
func (a *NakamaActionLogAdapter) AppendAction(ctx context.Context, entry ports.ActionLogEntry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal action log entry: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      actionLogCollection,
		Key:             fmt.Sprintf("%s:%d:%d:%s", entry.SessionID, entry.Round, entry.Timestamp, entry.ActorID),
		Value:           string(value),
		PermissionRead:  storagePermissionRead,
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("failed to write action log entry: %w", err)
	}
	return nil
}

// NakamaSessionStoreAdapter implements ports.SessionStorePort on Nakama's storage engine.
type NakamaSessionStoreAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaSessionStoreAdapter creates a new session store adapter.
func NewNakamaSessionStoreAdapter(nk runtime.NakamaModule) *NakamaSessionStoreAdapter {
	return &NakamaSessionStoreAdapter{
		nk: nk,
	}
}

// SaveSession persists a finished raid summary keyed by session id.
func (a *NakamaSessionStoreAdapter) SaveSession(ctx context.Context, record ports.SessionRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      sessionLogCollection,
		Key:             record.SessionID,
		Value:           string(value),
		PermissionRead:  storagePermissionRead,
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}
