package domain

// Command is a named, typed request to change system state.
type Command[T any] interface {
	CommandName() string
	Payload() T
}
