package domain

// IDGenerator produces a new unique identifier on every call.
type IDGenerator[T any] func() T
