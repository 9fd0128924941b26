package main

// @title AI Chat Backend APIs
// @version 1.0
// @description Chat backend with streaming LLM replies and conversation context caching.

// @host localhost:9089
// @BasePath /
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
import (
	protocol "ai-chat-backend/protocal"

	_ "github.com/arsmn/fiber-swagger/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	err := protocol.ServeHTTP()
	if err != nil {
		logrus.Println(err)
	}
}
