package models

import (
	"time"

	"gorm.io/gorm"
)

// 游戏的审核状态
const (
	RegisterPending   = 0 // 已上传-待检收
	RegisterPublished = 1 // 检收通过-已上线
	RegisterDenied    = 2 // 检收拒绝
)

// 游戏主表-评分聚合与压缩包生命周期的父实体
type Game struct {
	gorm.Model
	Maker       *Users `gorm:"foreignKey:MakerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // 外键约束与级联
	MakerID     uint   `gorm:"index"`                                                                          // 上传者
	Title       string `gorm:"size:255;not null"`
	Content     string `gorm:"type:longtext"` //长文本-游戏介绍
	BaseControl string `gorm:"size:255"`      // 基础操作说明
	ReleaseNote string `gorm:"type:text"`
	YoutubeURL  string `gorm:"size:500"`
	Thumbnail   string `gorm:"size:500"` // 缩略图存储路径
	Gamefile    string `gorm:"size:500"` // 上传的zip压缩包的相对路径
	Gamepath    string `gorm:"size:500"` // 解压后的游戏目录-仅在检收成功后写入

	// 运行均值-见 rating.go，只做增量更新不做全量重算
	Star      float64 `gorm:"default:0"`
	ReviewCnt uint    `gorm:"column:review_cnt;default:0"`

	ViewCnt       uint `gorm:"column:view_cnt;default:0"`
	LikeCnt       uint `gorm:"column:like_cnt;default:0"` // 收藏数-配合redis缓存
	RegisterState int  `gorm:"column:register_state;default:0;index"`
	IsVisible     bool `gorm:"column:is_visible;default:true;index"` // 软删除标志-所有读查询都要显式过滤

	Category    []GameCategory `gorm:"many2many:game_categories_m2m;"`
	Screenshots []Screenshot   `gorm:"foreignKey:GameID"`
	Reviews     []Review       `gorm:"foreignKey:GameID"`
}

// 收藏关联表
type UserLikeGame struct {
	UserID    uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Screenshot struct {
	gorm.Model
	GameID uint   `gorm:"index;not null"`
	Src    string `gorm:"size:500;not null"` // 截图存储路径
}

func (Game) TableName() string         { return "games" }
func (UserLikeGame) TableName() string { return "UserLikeGames" }
func (Screenshot) TableName() string   { return "screenshots" }
