package router

import (
	"quickmeet-api/core/middleware"
	"quickmeet-api/modules/chatroom/controller"

	"github.com/labstack/echo/v4"
)

// ChatroomRouter handles chatroom routes
type ChatroomRouter struct {
	ChatroomController *controller.ChatroomController
}

// NewChatroomRouter creates a new router
func NewChatroomRouter(chatroomController *controller.ChatroomController) *ChatroomRouter {
	return &ChatroomRouter{
		ChatroomController: chatroomController,
	}
}

// Setup registers chatroom routes
func (r *ChatroomRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	// chatroom is reached through its meetup on first access
	meetupRoutes := privateRoutes.Group("/meetups", mw.AuthMiddleware())
	meetupRoutes.GET("/:id/chatroom", r.ChatroomController.GetOrCreate)

	chatroomRoutes := privateRoutes.Group("/chatrooms", mw.AuthMiddleware())
	chatroomRoutes.POST("/:id/messages", r.ChatroomController.PostMessage)
	chatroomRoutes.GET("/:id/messages", r.ChatroomController.ListMessages)
}
