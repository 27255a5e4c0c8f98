package adapter

import "github.com/redis/go-redis/v9"

// NewRedisClient connects to a single redis node at addr ("host:port").
func NewRedisClient(addr string) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}
