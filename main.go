package main

import (
	"quickmeet-api/core/logger"
	"quickmeet-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
