package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetPrefix("avocal/nutrition-api: ")

	// A missing .env is fine in deployed environments where the variables
	// are set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env loaded: %v", err)
	}

	h := &Handler{db: getDBPool()}
	defer h.db.Close()

	router := gin.Default()
	router.SetTrustedProxies(nil)
	router.Use(corsMiddleware(allowedOrigins(os.Getenv("CORS_ORIGINS"))))
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
