package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"gorm.io/gorm"
)

//这里收藏包有redis的缓存

// ToggleLike godoc
// @Summary      收藏/取消收藏游戏
// @Description  对指定游戏进行收藏或取消收藏（切换）
// @Tags         Interactions
// @Security     BearerAuth
// @Produce      json
// @Param        game_pk  path  uint  true  "游戏ID"
// @Success      200  {object}  map[string]interface{}  {"like_flag":true,"total_likes":5}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/games/{game_pk}/like [post]
func ToggleLike(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	gameID, err := strconv.ParseUint(c.Param("game_pk"), 10, 32)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	//游戏存在性检验-先问缓存
	IDkey := fmt.Sprintf(config.RedisGameKey, gameID)
	cacheValue, err := global.RedisDB.Get(IDkey).Result()
	if err == nil {
		// 缓存命中
		if cacheValue == "0" {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		} // 缓存值为"1"，游戏存在，继续执行后续逻辑
	} else if err == redis.Nil {
		// 缓存未命中，查询数据库
		var gameExists bool
		if err := global.DB.Model(&models.Game{}).
			Select("1").
			Where("id = ? AND is_visible = ?", gameID, true).
			Scan(&gameExists).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		// 设置缓存值
		cacheValue = "0"
		if gameExists {
			cacheValue = "1"
		}
		global.RedisDB.Set(IDkey, cacheValue, config.Game_TTL)
		if !gameExists { //确实没有找到设置为0
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
	} else {
		// Redis错误
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache error"})
		return
	}

	likeKey := fmt.Sprintf(config.RedisLikeKey, gameID)
	userLikeKey := fmt.Sprintf(config.RedisUserLikeKey, gameID, userID)
	var likeFlag bool
	var newTotalLikes uint
	//  MySQL 事务：保证收藏关系 + 游戏计数一致性
	err = global.DB.Transaction(func(tx *gorm.DB) error {
		var likeRecord models.UserLikeGame
		err := tx.Where("user_id = ? AND game_id = ?", userID, gameID).First(&likeRecord).Error

		if errors.Is(err, gorm.ErrRecordNotFound) { // 收藏
			likeFlag = true
			if err := tx.Create(&models.UserLikeGame{
				UserID: userID,
				GameID: uint(gameID),
			}).Error; err != nil {
				return err
			}
		} else if err == nil { // 取消收藏
			likeFlag = false
			if err := tx.Delete(&likeRecord).Error; err != nil {
				return err
			}
		} else {
			return err
		}

		delta := map[bool]int{true: 1, false: -1}[likeFlag] //更新的+-
		if err := tx.Model(&models.Game{}).
			Where("id = ?", gameID).
			UpdateColumn("like_cnt", gorm.Expr("like_cnt + ?", delta)).Error; err != nil {
			return err
		}

		var game models.Game
		if err := tx.Select("like_cnt").Where("id = ?", gameID).First(&game).Error; err != nil {
			return err
		}
		newTotalLikes = game.LikeCnt
		return nil
	})
	//数据库事务报错
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		}
		return
	}

	// 尽力更新 Redis（允许失败，不影响主流程）
	if likeFlag {
		global.RedisDB.Set(userLikeKey, "1", config.Like_TTL).Err()
		global.RedisDB.Set(likeKey, newTotalLikes, config.Like_TTL).Err()
	} else {
		global.RedisDB.Del(userLikeKey).Err()
		global.RedisDB.Set(likeKey, newTotalLikes, config.Like_TTL).Err()
	}

	// 返回结果（直接用 newTotalLikes，避免再查 Redis/DB）
	message := "已取消收藏"
	if likeFlag {
		message = "已收藏"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"like_flag":   likeFlag,
		"total_likes": newTotalLikes,
	})
}
