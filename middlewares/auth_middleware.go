package middlewares

import (
	"net/http"
	"strings"

	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/models"
	"github.com/Hyun010/sparta-games/utils"

	"github.com/gin-gonic/gin"
)

// 自定义中间件-解析JWT并把当前用户塞进上下文
func AuthMiddleWare() gin.HandlerFunc { //返回的是gin下的函数类型
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("Authorization")) // 这里的键是Authorization
		if token == "" {
			if ck, err := c.Cookie(utils.CookieName); err == nil {
				token = ck
			}
		}
		// 去掉 "Bearer " 前缀（如果存在）
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
		// 一定要做兼容，如果前端传来的是"Bearer xxx"，我们取的只有JWT生成的Token
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		username, _, err := utils.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		u, ok := lookupUser(username)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		c.Set("user_id", u.ID)
		c.Set("username", u.Username)
		c.Set("is_staff", u.IsStaff()) // 角色以数据库为准，不信任token里的role
		c.Next()                       //调用下列的函数
	}
}

// 先查本地LRU再打库-用户行基本不变，命中率很高
func lookupUser(username string) (models.Users, bool) {
	if config.LocalUserCache != nil {
		if u, ok := config.LocalUserCache.Get(username); ok {
			return u, true
		}
	}
	var u models.Users
	if err := global.DB.Select("id", "username", "role").
		Where("username = ?", username). //where限定条件
		First(&u).Error; err != nil {
		return models.Users{}, false
	}
	if config.LocalUserCache != nil {
		config.LocalUserCache.Add(username, u)
	}
	return u, true
}
