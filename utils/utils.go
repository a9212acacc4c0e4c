package utils

// 辅助工具函数-JWT与密码散列
import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	cipher_number = 12 //bcrypt代价因子
	Expire_hours  = 72
	default_role  = "user"
)

func HashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cipher_number)
	return string(hash), err
}

func CheckPassword(hash, pwd string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)) == nil
}

func GenerateJWT(username string, role string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Duration(Expire_hours) * time.Hour).Unix(), // 过期时间（秒）
		"iat":      time.Now().Unix(),
		"nbf":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// 生产环境：把 "secret" 放到配置/环境变量里
	signedToken, err := token.SignedString([]byte("secret"))
	return "Bearer " + signedToken, err // 注意 Bearer 后面要有空格
}

// 因为这里我们的token包含了username和role信息
func ParseJWT(tk string) (string, string, error) {
	tk = strings.TrimSpace(tk)
	low := strings.ToLower(tk)
	if strings.HasPrefix(low, "bearer ") {
		tk = strings.TrimSpace(tk[7:]) //7-前缀长度
	}
	if tk == "" {
		return "", default_role, errors.New("empty token")
	}
	token, err := jwt.Parse(tk, func(token *jwt.Token) (interface{}, error) {
		// 固定算法族
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte("secret"), nil
	})
	if err != nil {
		return "", default_role, err
	}
	// 用ok和valid看是否解析成功且声明存在
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		username, ok1 := claims["username"].(string)
		role, ok2 := claims["role"].(string)
		if !ok1 || !ok2 {
			return "", default_role, errors.New("user's claim is not a string")
		}
		return username, role, nil
	}
	return "", default_role, errors.New("invalid token")
}
