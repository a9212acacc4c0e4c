package controllers

// auth 身份认证-包含注册/登录/注销对应的操作函数
import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/log"
	"github.com/Hyun010/sparta-games/models"
	"github.com/Hyun010/sparta-games/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterReq struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary      注册新用户
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body  RegisterReq  true  "用户名与密码"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register [post]
func Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil { // 请求体是Body，对应的数据传入req中
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	user := models.Users{
		Username: req.Username,
		Password: hashedPwd,
		Role:     models.RoleUser, // 服务端显式设置角色，避免前端伪造
	}
	if err := global.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
		return
	}
	token, err := utils.GenerateJWT(user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate token failed"})
		return
	}
	utils.SetAuthCookie(c, token, utils.Expire_hours*time.Hour)
	c.JSON(http.StatusCreated, gin.H{"token": token}) //返回token数据-标明创建成功
}

// Login godoc
// @Summary      登录
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body  LoginReq  true  "用户名与密码"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 防爆破：同一用户名限流
	if !config.GetLoginLimiter(req.Username).Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	var user models.Users
	err := global.DB.Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(user.Password, req.Password)) {
		// 用户不存在和密码错误给同一个提示-不泄露存在性
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err != nil {
		log.L().Error("login query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	token, err := utils.GenerateJWT(user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate token failed"})
		return
	}
	utils.SetAuthCookie(c, token, utils.Expire_hours*time.Hour)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout 注销-清cookie并清本地用户缓存
// 挂在未鉴权的auth组上，用户名要自己从令牌里解出来
func Logout(c *gin.Context) {
	token := strings.TrimSpace(c.GetHeader("Authorization"))
	if token == "" {
		if ck, err := c.Cookie(utils.CookieName); err == nil {
			token = ck
		}
	}
	if username, _, err := utils.ParseJWT(token); err == nil && username != "" {
		config.ClearUserCache(username)
	}
	utils.ClearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "已注销"})
}

// GetUserName 返回当前登录用户的基本信息
func GetUserName(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":  c.GetUint("user_id"),
		"username": c.GetString("username"),
		"is_staff": c.GetBool("is_staff"),
	})
}
