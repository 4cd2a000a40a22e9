package main

import (
	"context"
	"flag"
	"fmt"
	"yatube/api/middleware"
	"yatube/api/routes"
	"yatube/config"
	"yatube/db"
	"yatube/logs"
	"yatube/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	conf := config.AppConfig
	logs.SetLevel(conf.Logs.Level)
	logs.Info("Starting server", map[string]interface{}{"db": conf.Databases.Driver, "cache": conf.Cache.Backend, "storage": conf.Storage.Backend})

	if err = db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}
	defer db.Close()

	if conf.Cache.Backend == config.CacheBackendRedis {
		if err = services.InitRedis(context.Background()); err != nil {
			panic("Failed to connect to Redis: " + err.Error())
		}
		defer services.CloseRedis()
	}
	if err = services.InitPageCache(); err != nil {
		panic("Failed to init page cache: " + err.Error())
	}

	if err = services.InitImageStore(context.Background()); err != nil {
		panic("Failed to init image storage: " + err.Error())
	}

	if err = services.InitRabbitMQ(); err != nil {
		// Без брокера сайт работает, события просто не уходят
		logs.Error("Failed to connect to RabbitMQ", map[string]interface{}{"error": err})
	}
	defer services.Events.Close()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("yatube"))
	router.Use(middleware.SessionAuth(conf.Auth.CookieName))

	routes.PublicApi(router, conf)

	addr := fmt.Sprintf("%s:%d", conf.Backend.Host, conf.Backend.Port)
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
