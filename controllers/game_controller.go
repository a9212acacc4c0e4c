package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
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

const defaultPageSize = 10

// 列表项DTO-只回前端要展示的字段
type GameListResp struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Maker     string  `json:"maker"`
	Thumbnail string  `json:"thumbnail"`
	Star      float64 `json:"star"`
	ReviewCnt uint    `json:"review_cnt"`
	ViewCnt   uint    `json:"view_cnt"`
	Created   int64   `json:"created"`
}

type GameDetailResp struct {
	GameListResp
	Content     string   `json:"content"`
	BaseControl string   `json:"base_control"`
	ReleaseNote string   `json:"release_note"`
	YoutubeURL  string   `json:"youtube_url"`
	Gamepath    string   `json:"gamepath"`
	Screenshot  []string `json:"screenshot"`
	Category    []string `json:"category"`
}

func toListResp(g *models.Game) GameListResp {
	maker := "unknown"
	if g.Maker != nil {
		maker = g.Maker.Username
	}
	return GameListResp{
		ID: g.ID, Title: g.Title, Maker: maker, Thumbnail: g.Thumbnail,
		Star: g.Star, ReviewCnt: g.ReviewCnt, ViewCnt: g.ViewCnt,
		Created: g.CreatedAt.Unix(),
	}
}

// GameList godoc
// @Summary      游戏列表
// @Description  只返回可见且已上线的游戏；支持分类/标题/作者检索、排序和分页
// @Tags         Games
// @Produce      json
// @Param        category-q  query  string  false  "按分类名模糊检索"
// @Param        game-q      query  string  false  "按标题模糊检索"
// @Param        maker-q     query  string  false  "按作者名模糊检索"
// @Param        gm-q        query  string  false  "标题或作者模糊检索"
// @Param        order       query  string  false  "new / view / star"
// @Param        search      query  string  false  "非空时启用分页"
// @Param        page        query  int     false  "页码，从1开始"
// @Success      200  {array}  GameListResp
// @Router       /api/games [get]
func GameList(c *gin.Context) {
	// 检索选项互斥-按原有优先级取第一个命中的
	rows := global.DB.Model(&models.Game{}).
		Where("games.is_visible = ? AND games.register_state = ?", true, models.RegisterPublished)

	if q := c.Query("category-q"); q != "" {
		rows = rows.
			Joins("JOIN game_categories_m2m m2m ON m2m.game_id = games.id").
			Joins("JOIN game_categories gc ON gc.id = m2m.game_category_id").
			Where("gc.name LIKE ?", "%"+q+"%").
			Distinct("games.*")
	} else if q := c.Query("game-q"); q != "" {
		rows = rows.Where("games.title LIKE ?", "%"+q+"%")
	} else if q := c.Query("maker-q"); q != "" {
		rows = rows.
			Joins("JOIN users ON users.id = games.maker_id").
			Where("users.username LIKE ?", "%"+q+"%")
	} else if q := c.Query("gm-q"); q != "" {
		rows = rows.
			Joins("JOIN users ON users.id = games.maker_id").
			Where("games.title LIKE ? OR users.username LIKE ?", "%"+q+"%", "%"+q+"%")
	}

	// 追加排序
	switch c.Query("order") {
	case "view":
		rows = rows.Order("games.view_cnt DESC")
	case "star":
		rows = rows.Order("games.star DESC")
	default: // new
		rows = rows.Order("games.created_at DESC")
	}

	var games []models.Game
	if c.Query("search") != "" {
		// search模式走分页
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		// 计数单独数 DISTINCT games.id-分类模式下的 DISTINCT games.* 进不了 COUNT
		var total int64
		if err := rows.Session(&gorm.Session{}).Distinct("games.id").Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := rows.Preload("Maker").
			Offset((page - 1) * defaultPageSize).Limit(defaultPageSize).
			Find(&games).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		resp := make([]GameListResp, len(games))
		for i := range games {
			resp[i] = toListResp(&games[i])
		}
		c.JSON(http.StatusOK, gin.H{"count": total, "results": resp})
		return
	}

	if err := rows.Preload("Maker").Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	resp := make([]GameListResp, len(games))
	for i := range games {
		resp[i] = toListResp(&games[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GameCreate godoc
// @Summary      上传新游戏
// @Description  multipart表单：gamefile(zip必填)、thumbnail、screenshots、文本字段与逗号分隔的category
// @Tags         Games
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/games [post]
func GameCreate(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	// 游戏zip必填-其余媒体文件可选
	zipHeader, err := c.FormFile("gamefile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gamefile is required"})
		return
	}
	zipKey, err := saveGameZip(c, zipHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thumbKey := ""
	if th, err := c.FormFile("thumbnail"); err == nil {
		if thumbKey, err = saveMediaFile(c, th); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	game := models.Game{
		MakerID:       userID,
		Title:         title,
		Content:       c.PostForm("content"),
		BaseControl:   c.PostForm("base_control"),
		ReleaseNote:   c.PostForm("release_note"),
		YoutubeURL:    c.PostForm("youtube_url"),
		Thumbnail:     thumbKey,
		Gamefile:      zipKey,
		Star:          0,
		ReviewCnt:     0,
		RegisterState: models.RegisterPending, // 新上传一律进待检收
		IsVisible:     true,
	}
	if err := global.DB.Create(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save game failed"})
		return
	}

	// 分类标签-只挂已存在的分类
	if raw := c.PostForm("category"); raw != "" {
		var cats []models.GameCategory
		if err := global.DB.Where("name IN ?", utils.SplitTags(raw)).Find(&cats).Error; err == nil && len(cats) > 0 {
			if err := global.DB.Model(&game).Association("Category").Append(&cats); err != nil {
				log.L().Error("attach categories failed", zap.Error(err), zap.Uint("game_id", game.ID))
			}
		}
	}

	// 截图入库
	var shots []string
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["screenshots"] {
			key, err := saveMediaFile(c, fh)
			if err != nil {
				log.L().Error("save screenshot failed", zap.Error(err))
				continue
			}
			global.DB.Create(&models.Screenshot{GameID: game.ID, Src: key})
			shots = append(shots, key)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "游戏上传成功", "id": game.ID, "screenshots": shots})
}

// GameDetail 游戏详情-附带截图与分类，并把浏览数+1
func GameDetail(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("game_pk"), 10, 32)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var game models.Game
	if err := global.DB.Preload("Maker").Preload("Category").Preload("Screenshots").
		Where("id = ? AND is_visible = ?", gameID, true).
		First(&game).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	// 浏览数+1-失败也不影响主流程
	if err := global.DB.Model(&models.Game{}).Where("id = ?", game.ID).
		UpdateColumn("view_cnt", gorm.Expr("view_cnt + ?", 1)).Error; err == nil {
		game.ViewCnt++
	}

	resp := GameDetailResp{
		GameListResp: toListResp(&game),
		Content:      game.Content,
		BaseControl:  game.BaseControl,
		ReleaseNote:  game.ReleaseNote,
		YoutubeURL:   game.YoutubeURL,
		Gamepath:     game.Gamepath,
		Screenshot:   make([]string, 0, len(game.Screenshots)),
		Category:     make([]string, 0, len(game.Category)),
	}
	for _, s := range game.Screenshots {
		resp.Screenshot = append(resp.Screenshot, s.Src)
	}
	for _, cat := range game.Category {
		resp.Category = append(resp.Category, cat.Name)
	}
	c.JSON(http.StatusOK, resp)
}

// GameUpdate 修改游戏-作者或检修人员可用；换了zip就退回待检收
func GameUpdate(c *gin.Context) {
	game, ok := loadOwnedGame(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if v, ok := c.GetPostForm("title"); ok {
		updates["title"] = v
	}
	if v, ok := c.GetPostForm("content"); ok {
		updates["content"] = v
	}
	if v, ok := c.GetPostForm("base_control"); ok {
		updates["base_control"] = v
	}
	if v, ok := c.GetPostForm("release_note"); ok {
		updates["release_note"] = v
	}
	if v, ok := c.GetPostForm("youtube_url"); ok {
		updates["youtube_url"] = v
	}
	if th, err := c.FormFile("thumbnail"); err == nil {
		key, err := saveMediaFile(c, th)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["thumbnail"] = key
	}
	// 游戏文件被替换时重新走检收流程
	if zh, err := c.FormFile("gamefile"); err == nil {
		key, err := saveGameZip(c, zh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["gamefile"] = key
		updates["register_state"] = models.RegisterPending
		updates["gamepath"] = ""
	}

	if len(updates) > 0 {
		if err := global.DB.Model(game).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update game failed"})
			return
		}
	}

	// 标签有变更时整体替换：清掉旧的，换成新列表（不存在的即建）
	if raw, ok := c.GetPostForm("category"); ok {
		var cats []models.GameCategory
		for _, name := range utils.SplitTags(raw) {
			var cat models.GameCategory
			if err := global.DB.Where(models.GameCategory{Name: name}).FirstOrCreate(&cat).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "update categories failed"})
				return
			}
			cats = append(cats, cat)
		}
		if err := global.DB.Model(game).Association("Category").Replace(&cats); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update categories failed"})
			return
		}
	}

	// 截图整体替换-删旧建新
	if form, err := c.MultipartForm(); err == nil && len(form.File["screenshots"]) > 0 {
		global.DB.Where("game_id = ?", game.ID).Delete(&models.Screenshot{})
		for _, fh := range form.File["screenshots"] {
			key, err := saveMediaFile(c, fh)
			if err != nil {
				log.L().Error("save screenshot failed", zap.Error(err))
				continue
			}
			global.DB.Create(&models.Screenshot{GameID: game.ID, Src: key})
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "修改完成"})
}

// GameDelete 软删除-只摘掉可见性标志，行保留
func GameDelete(c *gin.Context) {
	game, ok := loadOwnedGame(c)
	if !ok {
		return
	}
	if err := global.DB.Model(game).UpdateColumn("is_visible", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete game failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除完成"})
}

// 取出目标游戏并做 作者本人或检修人员 的鉴权-失败时已写好响应
func loadOwnedGame(c *gin.Context) (*models.Game, bool) {
	gameID, err := strconv.ParseUint(c.Param("game_pk"), 10, 32)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return nil, false
	}
	var game models.Game
	if err := global.DB.Where("id = ? AND is_visible = ?", gameID, true).
		First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return nil, false
	}
	if game.MakerID != c.GetUint("user_id") && !c.GetBool("is_staff") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不是作者本人"})
		return nil, false
	}
	return &game, true
}

// saveGameZip 把上传的游戏压缩包落到zip目录，文件名带上传时间戳（之后解压目录名由它推导）
func saveGameZip(c *gin.Context, header *multipart.FileHeader) (string, error) {
	if filepath.Ext(header.Filename) != ".zip" {
		return "", errors.New("gamefile must be a zip archive")
	}
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(header.Filename))
	return saveUpload(c, header, config.AppConfig.Upload.Zipspath, name)
}

func saveMediaFile(c *gin.Context, header *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	return saveUpload(c, header, config.AppConfig.Upload.Mediapath, name)
}

// 统一的落盘逻辑-相对路径校验+大小上限+一次遍历写盘
func saveUpload(c *gin.Context, header *multipart.FileHeader, baseRel, name string) (string, error) {
	maxLoad := int64(config.AppConfig.Upload.FileSize) * 1024 * 1024

	full, err := utils.SafeJoinRel(baseRel, name)
	if err != nil {
		return "", errors.New("invalid path")
	}
	if err := utils.EnsureDir(filepath.Dir(full)); err != nil {
		return "", errors.New("create upload dir failed")
	}

	src, err := header.Open()
	if err != nil {
		return "", errors.New("open uploaded file failed")
	}
	defer src.Close()

	out, err := os.Create(full)
	if err != nil {
		return "", errors.New("create file failed")
	}
	defer out.Close()

	sum, written, err := utils.CopyWithHash(out, src, maxLoad, header.Size)
	if err != nil {
		_ = os.Remove(full)
		return "", err
	}
	// 落盘审计：大小+内容指纹-排查重复上传和篡改时用
	log.L().Info("upload stored",
		zap.String("file", filepath.ToSlash(full)),
		zap.String("size", utils.Get_size(written)),
		zap.String("sha256", sum),
	)
	return full, nil
}
