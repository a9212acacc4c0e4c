package config

import (
	"fmt"
	"time"

	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/log"
	"github.com/Hyun010/sparta-games/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func initDB() { //注意这个是小写只能在当前包使用，大写才能被其他包使用
	dsn := AppConfig.Database.Dsn
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // 连接数据库
	if err != nil {
		log.L().Fatal("DataBase connection failed",
			zap.Error(err),
			zap.String("dsn", dsn),
		)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.L().Error("DataBase connection failed ,got error:", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(AppConfig.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(AppConfig.Database.ConnMaxLifetimeHours) * time.Hour) // 连接到时长后断开重建
	global.DB = db
	fmt.Println("1. DataBase connection success!")
}

func runMigrations() {
	if err := global.DB.AutoMigrate(
		&models.Users{},
		&models.Game{},
		&models.Review{},
		&models.GameCategory{},
		&models.Screenshot{},
		&models.UserLikeGame{},
		&models.BotCnt{},
	); err != nil {
		log.L().Error("DataBase migration failed ,got error:", zap.Error(err))
	}
}
