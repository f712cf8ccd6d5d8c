package config

import (
	"time"
)

var JWTSecret []byte
var JWTExpiration time.Duration

func init() {
	JWTSecret = []byte(getEnv("JWT_SECRET", "change-this-secret-in-production"))

	JWTExpiration = 24 * time.Hour
	if raw := getEnv("JWT_EXPIRATION", ""); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			JWTExpiration = d
		}
	}
}
