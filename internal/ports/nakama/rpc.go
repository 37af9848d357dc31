package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pokeraid/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// FindRaidResponse is the payload returned to clients when requesting a raid-capable match.
type FindRaidResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcFindRaid, rpcFindRaid); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcRaidInvite, rpcRaidInvite)
}

// rpcFindRaid finds an open raid match or creates a new one.
func rpcFindRaid(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	query := "+label.game:pokeraid +label.open:>=1"
	limit := 1
	authoritative := true

	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		logger.Error("rpcFindRaid [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		resp := FindRaidResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		logger.Info("rpcFindRaid [User:%s]: Found existing match %s", userID, resp.MatchID)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNamePokeRaid, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcFindRaid [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	resp := FindRaidResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	logger.Info("rpcFindRaid [User:%s]: Created new match %s", userID, matchID)
	return string(b), nil
}

// rpcRaidInvite mints an invite token the recipient presents in their match
// join metadata.
// Payload: {"playerId": "...", "sessionId": "...", "action": "join" | "spectate"}
func rpcRaidInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		PlayerID  string `json:"playerId"`
		SessionID string `json:"sessionId"`
		Action    string `json:"action"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}
	if req.Action == "" {
		req.Action = app.InviteActionJoin
	}

	env := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["pokeraid_invite_secret"]
	issuer := env["pokeraid_invite_issuer"]
	if issuer == "" {
		issuer = "pokeraid"
	}
	if secret == "" {
		return "", runtime.NewError("Invites are not configured", 13) // INTERNAL
	}

	svc := app.NewInviteService(secret, issuer, time.Hour)
	token, err := svc.GenerateToken(req.PlayerID, req.SessionID, req.Action)
	if err != nil {
		logger.Error("rpcRaidInvite: Failed to mint invite: %v", err)
		return "", runtime.NewError("Invalid invite request", 3)
	}

	res := map[string]string{
		"token": token,
	}
	resBytes, _ := json.Marshal(res)
	return string(resBytes), nil
}
