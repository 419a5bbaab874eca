package state

// Loading names the lifecycle request in flight.
type Loading string

const (
	LoadingNone   Loading = ""
	LoadingJoin   Loading = "join"
	LoadingCreate Loading = "create"
)

// RejoinKind says which rejoin affordance to offer.
type RejoinKind int

const (
	RejoinNone RejoinKind = iota
	RejoinSession
	RejoinJoinCode
)

// Rejoin is the result of the startup discovery checks.
type Rejoin struct {
	Kind         RejoinKind
	SessionToken string
	UserID       string
	JoinCode     string
}

// Stats are server-wide counters shown in the lobby.
type Stats struct {
	TotalGamesPlayed  int
	RunningGames      int
	OnlinePlayerCount int
}

// Lobby is UI state for the pre-room screens. It survives leaving a room.
type Lobby struct {
	Loading     Loading
	JoinError   string // empty when there is no error
	CreateError string
	Rejoin      Rejoin
	Stats       *Stats
}
