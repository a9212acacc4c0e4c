package models

import "gorm.io/gorm"

// 游戏评价-多条评价属于一个游戏
type Review struct {
	gorm.Model
	Game      *Game  `gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GameID    uint   `gorm:"index;not null"`
	Author    *Users `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint   `gorm:"index;not null"`
	Star      int    `gorm:"not null"` // 1~5-入口处校验
	Content   string `gorm:"type:text"`
	IsVisible bool   `gorm:"column:is_visible;default:true;index"` // 软删除-删除时同时从运行均值里剔除
}

func (Review) TableName() string { return "reviews" }
