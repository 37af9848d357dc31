package nakama

const (
	// RpcFindRaid is the Nakama RPC id clients call to find or create a raid-capable match.
	RpcFindRaid = "find_raid"

	// RpcRaidInvite is the Nakama RPC id clients call to mint an invite token for a friend.
	RpcRaidInvite = "raid_invite"

	// MatchNamePokeRaid is the authoritative match handler name registered with Nakama.
	MatchNamePokeRaid = "pokeraid_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpCreateRaid       int64 = 1
	OpJoinRaid         int64 = 2
	OpStartRaid        int64 = 3
	OpUpdateRaidLayout int64 = 4
	OpRaidAction       int64 = 5
	OpLeaveRaid        int64 = 6

	// Server -> Client events
	OpRaidCreated      int64 = 101
	OpRaidJoined       int64 = 102 // send privately
	OpPlayerJoinedRaid int64 = 103
	OpPlayerLeftRaid   int64 = 104
	OpLayoutUpdated    int64 = 105
	OpRaidStarted      int64 = 106
	OpRaidActionResult int64 = 107
	OpBossActed        int64 = 108
	OpTurnChanged      int64 = 109
	OpTurnSkipped      int64 = 110
	OpRaidEnded        int64 = 111
	OpRaidActionFailed int64 = 112 // send privately
)
