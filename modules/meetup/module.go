package meetup

import (
	"quickmeet-api/core/cache"
	"quickmeet-api/core/database"
	"quickmeet-api/core/middleware"
	locationService "quickmeet-api/modules/location/service"
	"quickmeet-api/modules/meetup/controller"
	"quickmeet-api/modules/meetup/repository"
	"quickmeet-api/modules/meetup/router"
	"quickmeet-api/modules/meetup/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the meetup module, registers its routes and returns
// the service for use by the chatroom and sweeper modules.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, resolver *locationService.Resolver, bucketer *locationService.Bucketer, c *cache.Cache) service.MeetupServiceInterface {
	repo := repository.NewMeetupRepository(db)
	svc := service.NewMeetupService(repo, resolver, bucketer, c)
	ctrl := controller.NewMeetupController(svc)
	rtr := router.NewMeetupRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
