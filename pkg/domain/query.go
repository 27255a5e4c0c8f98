package domain

// Query is a named, typed read request. Queries never mutate state.
type Query[T any] interface {
	QueryName() string
	Payload() T
}
