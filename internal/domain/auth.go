package domain

import "time"

// AuthSession is issued to an administrator after a successful login.
type AuthSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
