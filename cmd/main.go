package main

import (
	"context"
	"cryptomood-backend/config"
	"cryptomood-backend/internal/api/community"
	"cryptomood-backend/internal/api/mood"
	"cryptomood-backend/internal/api/prediction"
	"cryptomood-backend/internal/api/stats"
	"cryptomood-backend/internal/api/user"
	"cryptomood-backend/internal/common"
	"cryptomood-backend/internal/middleware"
	"cryptomood-backend/internal/repository/mysql"
	"cryptomood-backend/internal/service"
	"cryptomood-backend/internal/util"
	"cryptomood-backend/migrations"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)

// validCryptoSymbol 校验币种代码：1-10 位字母或数字，大小写在业务层统一
func validCryptoSymbol(fl validator.FieldLevel) bool {
	return symbolPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接，网络抖动时重试几次
	if err := common.WithRetry(db.Ping, 3); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 执行数据库迁移
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		util.Logger.Fatal("设置迁移方言失败", zap.Error(err))
	}
	if err := goose.Up(db, "."); err != nil {
		util.Logger.Fatal("执行数据库迁移失败", zap.Error(err))
	}
	util.Logger.Info("数据库迁移完成")

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	userService := service.NewUserService(userRepo)
	authHandler := user.NewAuthHandler(userService)

	communityRepo := mysql.NewCommunityRepository(db)
	communityService := service.NewCommunityService(communityRepo)
	communityHandler := community.NewCommunityHandler(communityService, userService)

	moodRepo := mysql.NewMoodRepository(db)
	moodService := service.NewMoodService(moodRepo)
	analysisService := service.NewAnalysisService()
	moodHandler := mood.NewMoodHandler(moodService, analysisService)

	predictionRepo := mysql.NewPredictionRepository(db)
	predictionService := service.NewPredictionService(predictionRepo)
	predictionHandler := prediction.NewPredictionHandler(predictionService)

	statsService := service.NewStatsService(moodRepo, predictionRepo)
	statsHandler := stats.NewStatsHandler(statsService, analysisService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 注册自定义校验规则
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("cryptosymbol", validCryptoSymbol); err != nil {
			util.Logger.Fatal("注册校验规则失败", zap.Error(err))
		}
	}

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	r.Use(cors.New(corsConfig))

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 用户相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(userService))
		{
			authorized.POST("/logout", authHandler.Logout)
			authorized.POST("/refresh-token", authHandler.RefreshToken)
		}

		// 社区相关路由
		api.POST("/posts", middleware.AuthMiddleware(userService), communityHandler.CreatePost)
		api.GET("/posts", middleware.OptionalAuthMiddleware(userService), communityHandler.ListPosts)
		api.GET("/posts/stats", communityHandler.GetCommunityStats)
		api.GET("/posts/:id", middleware.OptionalAuthMiddleware(userService), communityHandler.GetPost)
		api.POST("/posts/:id/like", middleware.AuthMiddleware(userService), communityHandler.ToggleLike)
		api.POST("/posts/:id/comments", middleware.AuthMiddleware(userService), communityHandler.CreateComment)
		api.GET("/posts/:id/comments", communityHandler.ListComments)

		// 心情日记路由
		api.POST("/moods", middleware.AuthMiddleware(userService), moodHandler.CreateMood)
		api.GET("/moods", middleware.AuthMiddleware(userService), moodHandler.ListMoods)
		api.GET("/moods/analysis", middleware.AuthMiddleware(userService), moodHandler.AnalyzeMood)

		// 预测相关路由
		api.POST("/predictions", middleware.AuthMiddleware(userService), predictionHandler.CreatePrediction)
		api.GET("/predictions", middleware.AuthMiddleware(userService), predictionHandler.ListPredictions)
		api.POST("/predictions/resolve", middleware.AuthMiddleware(userService), predictionHandler.ResolvePrediction)
		api.GET("/predictions/:id", middleware.AuthMiddleware(userService), predictionHandler.GetPrediction)
		api.DELETE("/predictions/:id", middleware.AuthMiddleware(userService), predictionHandler.DeletePrediction)

		// 个人统计和行情
		api.GET("/stats", middleware.AuthMiddleware(userService), statsHandler.GetUserStats)
		api.GET("/market", statsHandler.GetMarket)
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
