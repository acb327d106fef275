package notify

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSendPostsToConfiguredChat(t *testing.T) {
	var gotToken, gotChat, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = strings.TrimPrefix(strings.TrimSuffix(r.URL.Path, "/sendMessage"), "/bot")
		_ = r.ParseForm()
		gotChat = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("token-a", "chat-1", zerolog.Nop())
	tg.baseURL = srv.URL

	assert.True(t, tg.Send("stock is low"))
	assert.Equal(t, "token-a", gotToken)
	assert.Equal(t, "chat-1", gotChat)
	assert.Equal(t, "stock is low", gotText)
}

func TestSendRejectedByAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tg := NewTelegram("bad-token", "chat-1", zerolog.Nop())
	tg.baseURL = srv.URL
	assert.False(t, tg.Send("rejected"))
}

func TestUnconfiguredStaysDisabled(t *testing.T) {
	tg := NewTelegram("", "", zerolog.Nop())
	assert.False(t, tg.Enabled())
	assert.False(t, tg.Send("dropped"))

	tg.Configure("token-b", "chat-2")
	assert.True(t, tg.Enabled())

	// Empty values leave the existing credentials alone.
	tg.Configure("", "")
	assert.True(t, tg.Enabled())
}

func TestConfigureConcurrentWithSends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("token-a", "chat-1", zerolog.Nop())
	tg.baseURL = srv.URL

	// Settings rewrites race against notification goroutines; run under
	// the race detector this fails if the credentials are unguarded.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				tg.Configure(fmt.Sprintf("token-%d-%d", n, j), "chat-1")
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				tg.Enabled()
				tg.Send("burst")
			}
		}()
	}
	wg.Wait()
	assert.True(t, tg.Enabled())
}
