package entities

// Actor identifies the caller of a core operation. It is always passed in
// explicitly; services never read identity from ambient request state.
type Actor struct {
	UserID  int64
	IsAdmin bool
}
