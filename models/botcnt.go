package models

import "gorm.io/gorm"

// 聊天机器人每日调用配额-每个用户每天一行
type BotCnt struct {
	gorm.Model
	User   *Users `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_date,priority:1"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_user_date,priority:2"` // 形如 2026-08-29，按服务本地时区的自然日
	Count  int    `gorm:"default:0"`
}

func (BotCnt) TableName() string { return "bot_cnts" }
