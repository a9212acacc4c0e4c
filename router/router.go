package router

//路由组-分组
import (
	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/controllers"
	"github.com/Hyun010/sparta-games/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(middlewares.GinLogger(), middlewares.GinRecovery())
	mountSwagger(r)

	// 解压后的游戏和媒体文件静态伺服-修补后的HTML里引用的就是这个前缀
	r.Static("/media", "./media")

	auth := r.Group("/api/auth") //给出路由组的路径
	auth.POST("/register", controllers.Register)
	auth.POST("/login", controllers.Login)
	auth.POST("/logout", controllers.Logout)

	// 公开的读接口-不登录也能看
	public := r.Group("/api")
	{
		public.GET("/games", controllers.GameList)
		public.GET("/games/:game_pk", controllers.GameDetail)
		public.GET("/games/:game_pk/reviews", controllers.ReviewList)
		public.GET("/reviews/:review_id", controllers.ReviewDetail)
		public.GET("/categories", controllers.CategoryList)
	}

	// 受保护的 API（写接口，需要登录）
	api := r.Group("/api", middlewares.AuthMiddleWare())
	{
		// 基本信息获取模块
		api.GET("/me", controllers.GetUserName)

		// 游戏模块
		api.POST("/games", controllers.GameCreate)
		api.PUT("/games/:game_pk", controllers.GameUpdate)
		api.DELETE("/games/:game_pk", controllers.GameDelete)
		api.POST("/games/:game_pk/like", controllers.ToggleLike)

		// 评价模块
		api.POST("/games/:game_pk/reviews", controllers.ReviewCreate)
		api.PUT("/reviews/:review_id", controllers.ReviewUpdate)
		api.DELETE("/reviews/:review_id", controllers.ReviewDelete)

		// 分类模块-写操作在处理器里再卡一道staff
		api.POST("/categories", controllers.CategoryCreate)
		api.DELETE("/categories", controllers.CategoryDelete)

		// 分类机器人-显式配置在启动时装配
		api.POST("/chatbot", controllers.NewChatbotHandler(config.AppConfig.Chatbot))
	}

	// 检收模块-只对检修人员开放
	admin := r.Group("/api", middlewares.RolePermission("admin"))
	{
		admin.POST("/games/:game_pk/register", controllers.GameRegister)
		admin.POST("/games/:game_pk/deny", controllers.GameRegisterDeny)
		admin.POST("/games/:game_pk/dzip", controllers.GameDzip)
	}
	return r //返回路由组
}
