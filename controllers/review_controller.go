package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 评分聚合是增量算法，读-算-写必须是一个原子单元
// MySQL 上用行锁（SELECT ... FOR UPDATE）；sqlite（测试）事务本身就是单写者，锁子句不支持也不需要
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type ReviewCreateReq struct {
	Star    int    `json:"star" binding:"required,min=1,max=5"` // 评分范围入口处卡死
	Content string `json:"content" binding:"required,max=1000"`
}

type ReviewUpdateReq struct {
	Star    *int    `json:"star,omitempty" binding:"omitempty,min=1,max=5"`
	Content *string `json:"content,omitempty"`
}

type ReviewResp struct {
	ID      uint   `json:"id"`
	GameID  uint   `json:"game_id"`
	Author  string `json:"author"`
	Star    int    `json:"star"`
	Content string `json:"content"`
	Created int64  `json:"created"`
}

func toReviewResp(r *models.Review) ReviewResp {
	author := "unknown"
	if r.Author != nil {
		author = r.Author.Username
	}
	return ReviewResp{
		ID: r.ID, GameID: r.GameID, Author: author,
		Star: r.Star, Content: r.Content, Created: r.CreatedAt.Unix(),
	}
}

// ReviewList godoc
// @Summary      某游戏的评价列表
// @Tags         Reviews
// @Produce      json
// @Param        game_pk  path  uint  true  "游戏ID"
// @Success      200  {array}   ReviewResp
// @Failure      400  {object}  map[string]string
// @Router       /api/games/{game_pk}/reviews [get]
func ReviewList(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("game_pk"), 10, 32)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	var reviews []models.Review
	if err := global.DB.
		Where("game_id = ? AND is_visible = ?", gameID, true). //软删除的永远要过滤
		Order("created_at ASC").
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username") // 预加载只取要用的列
		}).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reviews"})
		return
	}
	resp := make([]ReviewResp, len(reviews))
	for i := range reviews {
		resp[i] = toReviewResp(&reviews[i])
	}
	c.JSON(http.StatusOK, resp)
}

// ReviewCreate godoc
// @Summary      发表评价
// @Description  创建评价并把分数折进游戏的运行均值（增量更新，不重算全量）
// @Tags         Reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        game_pk  path  uint             true  "游戏ID"
// @Param        body     body  ReviewCreateReq  true  "评分与内容"
// @Success      201  {object}  ReviewResp
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/games/{game_pk}/reviews [post]
func ReviewCreate(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	gameID, err := strconv.ParseUint(c.Param("game_pk"), 10, 32)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	var req ReviewCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var newReview models.Review
	err = global.DB.Transaction(func(tx *gorm.DB) error {
		// 锁住游戏行再折分数-防止并发评价互相覆盖均值
		var game models.Game
		if err := lockForUpdate(tx).
			Where("id = ? AND is_visible = ?", gameID, true).
			First(&game).Error; err != nil {
			return err
		}
		game.AddRating(req.Star)
		if err := tx.Model(&models.Game{}).Where("id = ?", game.ID).
			UpdateColumns(map[string]interface{}{
				"star":       game.Star,
				"review_cnt": game.ReviewCnt,
			}).Error; err != nil {
			return err
		}
		newReview = models.Review{
			GameID:    game.ID,
			AuthorID:  userID,
			Star:      req.Star,
			Content:   req.Content,
			IsVisible: true,
		}
		return tx.Create(&newReview).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		}
		return
	}
	newReview.Author = &models.Users{Model: gorm.Model{ID: userID}, Username: c.GetString("username")}
	c.JSON(http.StatusCreated, toReviewResp(&newReview))
}

// ReviewDetail 单条评价
func ReviewDetail(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil || reviewID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}
	var review models.Review
	if err := global.DB.Preload("Author").
		Where("id = ? AND is_visible = ?", reviewID, true).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	c.JSON(http.StatusOK, toReviewResp(&review))
}

// ReviewUpdate godoc
// @Summary      修改评价
// @Description  改了分数时游戏均值按差值平移：star += (new - old)/cnt；计数不变
// @Tags         Reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        review_id  path  uint             true  "评价ID"
// @Param        body       body  ReviewUpdateReq  true  "变更字段"
// @Success      200  {object}  ReviewResp
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/reviews/{review_id} [put]
func ReviewUpdate(c *gin.Context) {
	review, ok := loadOwnedReview(c)
	if !ok {
		return
	}
	var req ReviewUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := global.DB.Transaction(func(tx *gorm.DB) error {
		if req.Star != nil && *req.Star != review.Star {
			var game models.Game
			if err := lockForUpdate(tx).
				Where("id = ?", review.GameID).
				First(&game).Error; err != nil {
				return err
			}
			// 旧分数由评价行自己提供-聚合器不记得单条评价
			if err := game.AdjustRating(review.Star, *req.Star); err != nil {
				return err
			}
			if err := tx.Model(&models.Game{}).Where("id = ?", game.ID).
				UpdateColumn("star", game.Star).Error; err != nil {
				return err
			}
			review.Star = *req.Star
		}
		if req.Content != nil {
			review.Content = *req.Content
		}
		return tx.Model(&models.Review{}).Where("id = ?", review.ID).
			Updates(map[string]interface{}{"star": review.Star, "content": review.Content}).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrNoCountedReviews) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game has no counted reviews"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update review"})
		}
		return
	}
	c.JSON(http.StatusOK, toReviewResp(review))
}

// ReviewDelete godoc
// @Summary      删除评价（软删除）
// @Description  评价隐藏但保留；其分数立刻从运行均值里剔除，删空时均值归零
// @Tags         Reviews
// @Security     BearerAuth
// @Produce      json
// @Param        review_id  path  uint  true  "评价ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/reviews/{review_id} [delete]
func ReviewDelete(c *gin.Context) {
	review, ok := loadOwnedReview(c)
	if !ok {
		return
	}

	err := global.DB.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := lockForUpdate(tx).
			Where("id = ?", review.GameID).
			First(&game).Error; err != nil {
			return err
		}
		if err := game.RemoveRating(review.Star); err != nil {
			return err
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", game.ID).
			UpdateColumns(map[string]interface{}{
				"star":       game.Star,
				"review_cnt": game.ReviewCnt,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Review{}).Where("id = ?", review.ID).
			UpdateColumn("is_visible", false).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrNoCountedReviews) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game has no counted reviews"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除完成"})
}

// 取出目标评价并做 作者本人或检修人员 的鉴权-失败时已写好响应
func loadOwnedReview(c *gin.Context) (*models.Review, bool) {
	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil || reviewID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return nil, false
	}
	var review models.Review
	if err := global.DB.Preload("Author").
		Where("id = ? AND is_visible = ?", reviewID, true).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return nil, false
	}
	if review.AuthorID != c.GetUint("user_id") && !c.GetBool("is_staff") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不是作者本人"})
		return nil, false
	}
	return &review, true
}
