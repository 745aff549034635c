package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key for one login session, keyed by JWT jti
// so a user may be signed in on several devices at once.
func (r *CacheKeyStruct) SessionKey(jti string) string {
	return fmt.Sprintf("login:%s", jti)
}

// PaperPayloadKey returns the cache key for a paper's student-safe payload
// (questions without correct answers or explanations).
func (r *CacheKeyStruct) PaperPayloadKey(paperID string) string {
	return fmt.Sprintf("paper:%s:payload", paperID)
}

// PaperDurationKey returns the cache key for a paper's duration in minutes.
func (r *CacheKeyStruct) PaperDurationKey(paperID string) string {
	return fmt.Sprintf("paper:%s:duration", paperID)
}

// UserSubscriptionKey returns the cache key for a user's entitlement flag.
func (r *CacheKeyStruct) UserSubscriptionKey(userID string) string {
	return fmt.Sprintf("user:%s:subscription", userID)
}

var CacheKey = NewCacheKeyStruct()
