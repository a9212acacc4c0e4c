package config

import (
	"sync"
	"time"

	"github.com/Hyun010/sparta-games/models"

	"golang.org/x/time/rate"

	lru "github.com/hashicorp/golang-lru/v2" //本质上是双向链表+Hash表
)

var (
	// 全局LRU缓存实例-按用户名缓存用户行，鉴权中间件用
	LocalUserCache *lru.Cache[string, models.Users]
	cacheOnce      sync.Once //确保其只执行一次即可
	// 登录令牌限流器
	cleanupOnce   sync.Once
	LoginAttempts = sync.Map{}
)

const defaultUserCacheSize = 1024

func initUserCache(size int) {
	if size <= 0 {
		size = defaultUserCacheSize
	}
	cacheOnce.Do(func() {
		cache, err := lru.New[string, models.Users](size)
		if err != nil {
			panic(err)
		}
		LocalUserCache = cache
	})
}

// ClearUserCache 用户数据变更后清理本地缓存
func ClearUserCache(username string) {
	if LocalUserCache != nil {
		LocalUserCache.Remove(username)
	}
}

// GetLoginLimiter 取出（或创建）某个用户名对应的登录限流器-每10秒1次，突发5
func GetLoginLimiter(username string) *rate.Limiter {
	ensureCleanupRunning()
	v, _ := LoginAttempts.LoadOrStore(username, rate.NewLimiter(rate.Every(10*time.Second), 5))
	return v.(*rate.Limiter)
}

func ensureCleanupRunning() {
	cleanupOnce.Do(func() {
		go cleanupOldLimiters()
	})
}

func cleanupOldLimiters() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		LoginAttempts.Range(func(key, value interface{}) bool {
			limiter := value.(*rate.Limiter)
			// 令牌桶已经回满说明5分钟没人用了-直接清理
			if limiter.TokensAt(time.Now().Add(-5*time.Minute)) == float64(limiter.Burst()) {
				LoginAttempts.Delete(key)
			}
			return true
		})
	}
}
