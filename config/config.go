package config // 建立包

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct { //标明这个配置文件是可以全局使用的
	App struct {
		Name string
		Port string
	}
	Database struct {
		Dsn                  string
		MaxIdleConns         int
		MaxOpenConns         int
		ConnMaxLifetimeHours int
	}
	Redis struct {
		Addr     string
		DB       int
		Password string
	}
	Upload struct {
		Zipspath    string // 上传的游戏zip存放的相对目录，例 media/zips
		Gamespath   string // 解压后游戏目录的相对根，例 media/games
		Mediapath   string // 缩略图/截图等媒体文件目录，例 media/uploads
		PublicGames string // 解压目录对外的URL前缀，例 /media/games
		FileSize    int    // 单文件上限（MB）
	}
	// 聊天机器人分类代理-显式配置对象，进程启动时装配，不放全局可变状态
	Chatbot ChatbotConfig
	Cache struct {
		UserCacheSize int
	}
}

// 外部文本补全服务的连接参数-构造处理器时整体传入
type ChatbotConfig struct {
	BaseURL    string
	ApiKey     string
	Model      string
	DailyLimit int // 每用户每天的调用上限
}

var AppConfig *Config //配置句柄-指针全局可以修改并且避免拷贝

// 使用viper读取配置文件
func InitConfig() {
	viper.SetConfigName("config") //无extension
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	AppConfig = &Config{}
	if err := viper.Unmarshal(AppConfig); err != nil { //将配置文件中的内容解析到结构体中
		log.Fatalf("Error unmarshalling config file: %v", err)
	}
	if AppConfig.Chatbot.DailyLimit <= 0 {
		AppConfig.Chatbot.DailyLimit = 10 // 默认每天10次
	}
	initDB()
	initRedis()
	initUserCache(AppConfig.Cache.UserCacheSize)
	runMigrations()
	printURL()
}

func GetPort() string {
	if AppConfig == nil || AppConfig.App.Port == "" { //要么配置为空要么端口无
		log.Println("Warning: Port is not set in config file, using default port 8080")
		return ":8080"
	}
	// 确保端口格式正确
	port := AppConfig.App.Port
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

func printURL() {
	fmt.Printf("Games:http://localhost%s/api/games\n", GetPort())
}
