package soa

import "sync"

// CookieStore holds at most one session cookie for the process lifetime.
//
// The backend issues session state via Set-Cookie on login, but some backend
// versions also echo a session id in the response body. Cookie-origin ids
// are authoritative, so the store is first-writer-wins: once a cookie is
// established, later writers cannot silently replace it without an explicit
// Clear. This prevents session-identity thrashing when both sources report.
type CookieStore struct {
	mu    sync.Mutex
	name  string
	value string
}

// NewCookieStore returns an empty store.
func NewCookieStore() *CookieStore {
	return &CookieStore{}
}

// Get returns the stored cookie, if any.
func (c *CookieStore) Get() (name, value string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.name == "" {
		return "", "", false
	}
	return c.name, c.value, true
}

// Set stores the cookie if nothing is currently stored and reports whether
// the write took effect.
func (c *CookieStore) Set(name, value string) bool {
	if name == "" || value == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.name != "" {
		return false
	}
	c.name = name
	c.value = value
	return true
}

// Clear removes the stored cookie.
func (c *CookieStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = ""
	c.value = ""
}
