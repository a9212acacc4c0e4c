package config

import (
	"fmt"
	"time"

	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/log"

	"github.com/go-redis/redis"
	"go.uber.org/zap"
)

// 设置redis表的key
const (
	// 游戏存在性缓存："1"存在 "0"不存在-避免点赞等高频操作反复打库
	RedisGameKey = "game:exists:%d"
	// 游戏收藏数缓存
	RedisLikeKey = "game:likes:%d"
	// 用户是否收藏了某游戏
	RedisUserLikeKey = "game:likes:%d:user:%d"
)

const (
	Game_TTL = 30 * time.Minute   // 存在性缓存时间
	Like_TTL = 7 * 24 * time.Hour // 收藏缓存7天过期
)

func initRedis() {
	RedisClient := redis.NewClient(&redis.Options{ //配置选项Options是结构体
		Addr:         AppConfig.Redis.Addr,
		DB:           AppConfig.Redis.DB,
		Password:     AppConfig.Redis.Password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  800 * time.Millisecond, // 读超时
		WriteTimeout: 800 * time.Millisecond, // 写超时
		PoolSize:     20,
		MinIdleConns: 5,
	}) //返回一个客户端
	_, err := RedisClient.Ping().Result()
	if err != nil {
		log.L().Error("Redis connection failed ,got error:", zap.Error(err))
	}
	global.RedisDB = RedisClient
	fmt.Println("2. Redis DataBase connection success!")
}
