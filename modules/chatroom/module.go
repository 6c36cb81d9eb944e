package chatroom

import (
	"time"

	"quickmeet-api/core/database"
	"quickmeet-api/core/middleware"
	"quickmeet-api/modules/chatroom/controller"
	"quickmeet-api/modules/chatroom/repository"
	"quickmeet-api/modules/chatroom/router"
	"quickmeet-api/modules/chatroom/service"
	meetupService "quickmeet-api/modules/meetup/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the chatroom module, registers its routes and returns
// the service for use by the sweeper module.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, meetups meetupService.MeetupServiceInterface, grace time.Duration) service.ChatroomServiceInterface {
	repo := repository.NewChatroomRepository(db)
	svc := service.NewChatroomService(repo, meetups, grace)
	ctrl := controller.NewChatroomController(svc)
	rtr := router.NewChatroomRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
