package app

// MaxRaidPlayers caps the configurable maxPlayers of a session. Position
// interpolation handles larger parties, but raid pacing is tuned for 8.
const MaxRaidPlayers = 8

// DefaultCheerHeal is the HP a cheer restores when no tuning overrides it.
const DefaultCheerHeal = 30
