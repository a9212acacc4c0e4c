package controllers

// 游戏检收流程：待检收 → 通过（解压+上线）/ 拒绝；对应的zip还可以在检收前重新下载核对
import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/log"
	"github.com/Hyun010/sparta-games/models"
	"github.com/Hyun010/sparta-games/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 只取 可见+待检收 的游戏行-检收接口的统一前置条件
func loadPendingGame(c *gin.Context) (*models.Game, bool) {
	gameID, err := strconv.ParseUint(c.Param("game_pk"), 10, 32)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return nil, false
	}
	var game models.Game
	if err := global.DB.
		Where("id = ? AND is_visible = ? AND register_state = ?",
			gameID, true, models.RegisterPending).
		First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pending game not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return nil, false
	}
	return &game, true
}

// GameRegister godoc
// @Summary      检收通过-解压上线
// @Description  从zip里先解出入口HTML做修补再解其余文件；全部文件操作成功后才写gamepath并置为已上线，中途失败状态保持待检收
// @Tags         Moderation
// @Security     BearerAuth
// @Produce      json
// @Param        game_pk  path  uint  true  "游戏ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/games/{game_pk}/register [post]
func GameRegister(c *gin.Context) {
	game, ok := loadPendingGame(c)
	if !ok {
		return
	}
	if game.Gamefile == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game has no uploaded archive"})
		return
	}

	// 从zip文件名（去扩展名）推导解压目录：media/games/<上传时间戳_原名>
	zipName := filepath.Base(game.Gamefile)
	gameFolder := strings.TrimSuffix(zipName, filepath.Ext(zipName))
	destDir := filepath.Join(config.AppConfig.Upload.Gamespath, gameFolder)
	publicPrefix := strings.TrimRight(config.AppConfig.Upload.PublicGames, "/") + "/" + gameFolder + "/"

	// 先做完全部文件操作-失败时数据库不动，行还停在待检收
	if err := utils.ExtractGameArchive(game.Gamefile, destDir, publicPrefix); err != nil {
		log.L().Error("extract game archive failed",
			zap.Error(err),
			zap.Uint("game_id", game.ID),
			zap.String("zip", game.Gamefile),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extract game archive failed"})
		return
	}

	// 状态翻转带前置条件-并发检收时第二个请求在这里直接失败
	res := global.DB.Model(&models.Game{}).
		Where("id = ? AND register_state = ?", game.ID, models.RegisterPending).
		Updates(map[string]interface{}{
			"gamepath":       filepath.ToSlash(destDir),
			"register_state": models.RegisterPublished,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update game state failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "game is no longer pending"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "检收通过，游戏已上线", "id": game.ID, "gamepath": filepath.ToSlash(destDir)})
}

// GameRegisterDeny 检收拒绝-只改状态，不动文件
func GameRegisterDeny(c *gin.Context) {
	game, ok := loadPendingGame(c)
	if !ok {
		return
	}
	res := global.DB.Model(&models.Game{}).
		Where("id = ? AND register_state = ?", game.ID, models.RegisterPending).
		UpdateColumn("register_state", models.RegisterDenied)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update game state failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "game is no longer pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "检收已拒绝", "id": game.ID})
}

// GameDzip godoc
// @Summary      重新下载待检收游戏的zip
// @Description  只读操作-按存储文件名取字节流回传，状态不变
// @Tags         Moderation
// @Security     BearerAuth
// @Produce      application/zip
// @Param        game_pk  path  uint  true  "游戏ID"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]string
// @Router       /api/games/{game_pk}/dzip [post]
func GameDzip(c *gin.Context) {
	game, ok := loadPendingGame(c)
	if !ok {
		return
	}
	zipName := filepath.Base(game.Gamefile)
	zipPath, err := utils.SafeJoinRel(config.AppConfig.Upload.Zipspath, zipName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stored path"})
		return
	}
	if _, err := os.Stat(zipPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive file not found"})
		return
	}
	c.Header("Content-Type", "application/zip")
	c.FileAttachment(zipPath, zipName) // 附件下载-文件名即存储名
}
