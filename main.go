package main

import (
	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/log"
	"github.com/Hyun010/sparta-games/router"
)

// @title       sparta-games API
// @version     0.1.0
// @description 游戏托管平台的后端接口文档
// @BasePath    /api
func main() {
	// 初始化日志
	if err := log.Init(false); err != nil { // false 表示开发模式
		panic(err)
	}
	defer log.Sync()
	log.L().Info("The main app has runned!")
	//配置初始化
	config.InitConfig()       // 初始化配置-只对包里的全局变量初始化
	r := router.SetupRouter() // 单独的路由设置
	port := config.GetPort()  // 获取端口-这里config是包名
	r.Run(port)               // 监听端口并启动服务
}
