package models

import "gorm.io/gorm"

// 游戏分类标签-由检修人员维护
type GameCategory struct {
	gorm.Model
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

func (GameCategory) TableName() string { return "game_categories" }
