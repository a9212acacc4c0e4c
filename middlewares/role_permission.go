package middlewares

import (
	"net/http"
	"strings"

	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/models"
	"github.com/Hyun010/sparta-games/utils"

	"github.com/gin-gonic/gin"
)

// 角色权限管理-只放行指定角色（检修入口用 RolePermission("admin")）
func RolePermission(role_input ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("Authorization"))
		if token == "" {
			if ck, err := c.Cookie(utils.CookieName); err == nil {
				token = ck
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		username, role, err := utils.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		for _, want := range role_input {
			if role == want {
				var u models.Users //查询用Select
				if err := global.DB.Select("id", "username", "role").
					Where("username = ? AND role = ?", username, role). //角色还要和库里对得上
					First(&u).Error; err != nil {
					c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
					c.Abort()
					return
				}
				c.Set("username", username)
				c.Set("user_id", u.ID)
				c.Set("is_staff", u.IsStaff())
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "The user's role permission denied"})
		c.Abort() //中止
	}
}
