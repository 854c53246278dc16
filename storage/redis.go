package storage

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// Redis holds the refresh-token whitelist.
var Redis *redis.Client

func InitializeRedis() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}
