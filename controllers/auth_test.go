package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/models"
	"github.com/Hyun010/sparta-games/utils"

	lru "github.com/hashicorp/golang-lru/v2"
)

// 注销要把本地缓存里的用户条目一并清掉-注销接口本身不带鉴权中间件
func TestLogoutEvictsCachedUser(t *testing.T) {
	r := newTestEnv(t, "")
	cache, err := lru.New[string, models.Users](16)
	if err != nil {
		t.Fatal(err)
	}
	config.LocalUserCache = cache
	t.Cleanup(func() { config.LocalUserCache = nil })

	_, token := seedUser(t, "alice", models.RoleUser)

	// 走一次鉴权接口让缓存填充
	w := perform(t, r, "GET", "/api/me", token, "")
	mustStatus(t, w, http.StatusOK)
	if _, ok := cache.Get("alice"); !ok {
		t.Fatal("auth middleware did not fill the user cache")
	}

	w = perform(t, r, "POST", "/api/auth/logout", token, "")
	mustStatus(t, w, http.StatusOK)
	if _, ok := cache.Get("alice"); ok {
		t.Fatal("logout left the user in the local cache")
	}

	// cookie也要被清掉
	cleared := false
	for _, sc := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(sc, utils.CookieName+"=") && strings.Contains(sc, "Max-Age=0") {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("auth cookie not cleared, got %v", w.Header().Values("Set-Cookie"))
	}
}

// 令牌从cookie来时同样生效
func TestLogoutAcceptsCookieToken(t *testing.T) {
	r := newTestEnv(t, "")
	cache, err := lru.New[string, models.Users](16)
	if err != nil {
		t.Fatal(err)
	}
	config.LocalUserCache = cache
	t.Cleanup(func() { config.LocalUserCache = nil })

	_, token := seedUser(t, "bob", models.RoleUser)
	w := perform(t, r, "GET", "/api/me", token, "")
	mustStatus(t, w, http.StatusOK)
	if _, ok := cache.Get("bob"); !ok {
		t.Fatal("cache not primed")
	}

	req := newRequestWithCookie(t, "POST", "/api/auth/logout", token)
	w = performReq(t, r, req)
	mustStatus(t, w, http.StatusOK)
	if _, ok := cache.Get("bob"); ok {
		t.Fatal("logout via cookie left the user cached")
	}
}
