package game

// ActionType tags a state transition. The set is closed; Reduce ignores
// anything it does not recognize.
type ActionType string

const (
	ActionSetConnected    ActionType = "SET_CONNECTED"
	ActionSetPlayerName   ActionType = "SET_PLAYER_NAME"
	ActionSetRoom         ActionType = "SET_GAME_ROOM"
	ActionSetPhase        ActionType = "SET_GAME_PHASE"
	ActionAddTurn         ActionType = "ADD_TURN"
	ActionSetError        ActionType = "SET_ERROR"
	ActionClearError      ActionType = "CLEAR_ERROR"
	ActionStartCountdown  ActionType = "START_COUNTDOWN"
	ActionUpdateCountdown ActionType = "UPDATE_COUNTDOWN"
	ActionEndCountdown    ActionType = "END_COUNTDOWN"
	ActionClearHistory    ActionType = "CLEAR_HISTORY"
	ActionReset           ActionType = "RESET"
)

// Action is one requested transition. Only the fields relevant to the Type
// are read; the rest stay zero.
type Action struct {
	Type      ActionType
	Connected bool
	Name      string
	Room      *Room
	Phase     Phase
	Turn      *Turn
	Message   string
	Count     int
}
