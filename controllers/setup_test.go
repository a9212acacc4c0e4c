package controllers_test

// 处理器层的测试基座：临时目录+内存sqlite+真实路由
// sqlite 事务单写者，正好覆盖锁子句在 MySQL 之外的退化路径
import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/models"
	"github.com/Hyun010/sparta-games/router"
	"github.com/Hyun010/sparta-games/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestEnv 切到临时工作目录并装配好 DB/配置/路由
func newTestEnv(t *testing.T, chatbotURL string) *gin.Engine {
	t.Helper()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	db, err := gorm.Open(sqlite.Open("test.db"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(
		&models.Users{},
		&models.Game{},
		&models.Review{},
		&models.GameCategory{},
		&models.Screenshot{},
		&models.UserLikeGame{},
		&models.BotCnt{},
	); err != nil {
		t.Fatal(err)
	}
	global.DB = db

	config.AppConfig = &config.Config{}
	config.AppConfig.App.Port = "8080"
	config.AppConfig.Upload.Zipspath = "media/zips"
	config.AppConfig.Upload.Gamespath = "media/games"
	config.AppConfig.Upload.Mediapath = "media/uploads"
	config.AppConfig.Upload.PublicGames = "/media/games"
	config.AppConfig.Upload.FileSize = 50
	config.AppConfig.Chatbot = config.ChatbotConfig{
		BaseURL:    chatbotURL,
		Model:      "gpt-test",
		DailyLimit: 10,
	}

	gin.SetMode(gin.TestMode)
	return router.SetupRouter()
}

// 直接在库里种一个用户并签出token
func seedUser(t *testing.T, username, role string) (uint, string) {
	t.Helper()
	u := models.Users{Username: username, Password: "x", Role: role}
	if err := global.DB.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	token, err := utils.GenerateJWT(username, role)
	if err != nil {
		t.Fatal(err)
	}
	return u.ID, token
}

func seedGame(t *testing.T, makerID uint, state int) *models.Game {
	t.Helper()
	g := models.Game{
		MakerID:       makerID,
		Title:         "demo game",
		RegisterState: state,
		IsVisible:     true,
	}
	if err := global.DB.Create(&g).Error; err != nil {
		t.Fatal(err)
	}
	return &g
}

func perform(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performReq(t *testing.T, r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 令牌走cookie的请求-值按gin SetCookie的方式转义
func newRequestWithCookie(t *testing.T, method, path, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: utils.CookieName, Value: url.QueryEscape(token)})
	return req
}

func reloadGame(t *testing.T, id uint) *models.Game {
	t.Helper()
	var g models.Game
	if err := global.DB.First(&g, id).Error; err != nil {
		t.Fatal(err)
	}
	return &g
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status=%d want %d, body=%s", w.Code, want, w.Body.String())
	}
}
