package routes

import (
	"yatube/api/handlers"
	"yatube/api/middleware"
	"yatube/config"
	"yatube/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PublicApi регистрирует страницы сайта. Кеш страниц стоит только на группе чтения.
func PublicApi(router *gin.Engine, conf *config.ConfigSchema) {
	loginRequired := middleware.LoginRequired(conf.Auth.LoginURL)

	cached := router.Group("/", middleware.CachePage(services.Pages, conf.CacheTTL()))
	{
		cached.GET("/", handlers.Index)
		cached.GET("/group/:slug/", handlers.GroupPosts)
		cached.GET("/profile/:username/", handlers.Profile)
		cached.GET("/posts/:post_id/", handlers.PostDetail)
	}

	authorized := router.Group("/", loginRequired)
	{
		authorized.GET("/create/", handlers.CreatePost)
		authorized.POST("/create/", handlers.CreatePost)
		authorized.GET("/posts/:post_id/edit/", handlers.PostEdit)
		authorized.POST("/posts/:post_id/edit/", handlers.PostEdit)
		authorized.POST("/posts/:post_id/comment/", handlers.AddComment)
		authorized.POST("/posts/:post_id/delete/", handlers.DeletePost)
		authorized.GET("/follow/", handlers.FollowIndex)
		authorized.GET("/profile/:username/follow/", handlers.ProfileFollow)
		authorized.GET("/profile/:username/unfollow/", handlers.ProfileUnfollow)
	}

	auth := router.Group("/auth/")
	{
		auth.GET("signup/", handlers.Signup)
		auth.POST("signup/", handlers.Signup)
		auth.GET("login/", handlers.Login)
		auth.POST("login/", handlers.Login)
		auth.GET("logout/", handlers.Logout)
		auth.POST("logout/", handlers.Logout)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if conf.Storage.Backend == config.StorageBackendLocal {
		router.Static(conf.Storage.MediaURL, conf.Storage.MediaDir)
	}
	router.NoRoute(handlers.NotFound)
}
