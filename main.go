package main

import (
	"time"

	"reluctant-seller-api/config"
	"reluctant-seller-api/database"
	routes "reluctant-seller-api/internal/app/http"
	"reluctant-seller-api/internal/auth"
	"reluctant-seller-api/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

func main() {
	config.LoadEnv()
	database.InitDB()

	r := gin.Default()

	if config.CORS_ORIGIN != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{config.CORS_ORIGIN},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	routes.RegisterRoutes(r, routes.Deps{
		Store:  store.New(database.DB),
		Tokens: auth.NewTokenService(config.JWT_SECRET),
		AI:     openai.NewClient(config.OPENAI_API_KEY),
	})

	r.Run(":" + config.PORT)
}
