package soa

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookieStore_EmptyGet(t *testing.T) {
	store := NewCookieStore()
	_, _, ok := store.Get()
	assert.False(t, ok)
}

func TestCookieStore_FirstWriterWins(t *testing.T) {
	store := NewCookieStore()

	assert.True(t, store.Set("JSESSIONID", "first"))
	assert.False(t, store.Set("JSESSIONID", "second"), "established cookie must not be clobbered")

	name, value, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "JSESSIONID", name)
	assert.Equal(t, "first", value)
}

func TestCookieStore_RejectsEmpty(t *testing.T) {
	store := NewCookieStore()
	assert.False(t, store.Set("", "v"))
	assert.False(t, store.Set("n", ""))
	_, _, ok := store.Get()
	assert.False(t, ok)
}

func TestCookieStore_ClearAllowsRewrite(t *testing.T) {
	store := NewCookieStore()
	store.Set("JSESSIONID", "first")
	store.Clear()

	_, _, ok := store.Get()
	assert.False(t, ok)

	assert.True(t, store.Set("JSESSIONID", "second"))
	_, value, _ := store.Get()
	assert.Equal(t, "second", value)
}

func TestCookieStore_ConcurrentWriters(t *testing.T) {
	store := NewCookieStore()

	var wg sync.WaitGroup
	wins := make(chan string, 50)
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if store.Set("JSESSIONID", string(rune('a'+n%26))) {
				wins <- "w"
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1, "exactly one concurrent writer may establish the cookie")
	_, _, ok := store.Get()
	assert.True(t, ok)
}
