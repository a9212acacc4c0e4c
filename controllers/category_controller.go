package controllers

import (
	"errors"
	"net/http"

	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryReq struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type CategoryResp struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryList 分类列表-公开接口
func CategoryList(c *gin.Context) {
	var cats []models.GameCategory
	if err := global.DB.Order("name ASC").Find(&cats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	resp := make([]CategoryResp, len(cats))
	for i, cat := range cats {
		resp[i] = CategoryResp{ID: cat.ID, Name: cat.Name}
	}
	c.JSON(http.StatusOK, resp)
}

// CategoryCreate 新增分类-仅检修人员
func CategoryCreate(c *gin.Context) {
	if !c.GetBool("is_staff") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有权限"})
		return
	}
	var req CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := models.GameCategory{Name: req.Name}
	if err := global.DB.Create(&cat).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category already exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已添加标签", "id": cat.ID})
}

// CategoryDelete 删除分类-仅检修人员；这里是物理删除，游戏上的关联一并摘掉
func CategoryDelete(c *gin.Context) {
	if !c.GetBool("is_staff") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有权限"})
		return
	}
	var req struct {
		Pk uint `json:"pk" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var cat models.GameCategory
	if err := global.DB.First(&cat, req.Pk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}
	err := global.DB.Transaction(func(tx *gorm.DB) error {
		// 先摘掉游戏上的关联行再删分类本体
		if err := tx.Exec("DELETE FROM game_categories_m2m WHERE game_category_id = ?", cat.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&cat).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete category failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除完成"})
}
