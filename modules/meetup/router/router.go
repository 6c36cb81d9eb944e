package router

import (
	"quickmeet-api/core/middleware"
	"quickmeet-api/modules/meetup/controller"

	"github.com/labstack/echo/v4"
)

// MeetupRouter handles meetup routes
type MeetupRouter struct {
	MeetupController *controller.MeetupController
}

// NewMeetupRouter creates a new router
func NewMeetupRouter(meetupController *controller.MeetupController) *MeetupRouter {
	return &MeetupRouter{
		MeetupController: meetupController,
	}
}

// Setup registers meetup routes
func (r *MeetupRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	meetupRoutes := privateRoutes.Group("/meetups", mw.AuthMiddleware())

	meetupRoutes.POST("", r.MeetupController.Create)
	meetupRoutes.GET("", r.MeetupController.ListActive)
	meetupRoutes.GET("/archived", r.MeetupController.ListArchived)
	meetupRoutes.GET("/:id", r.MeetupController.Get)
	meetupRoutes.GET("/:id/participants", r.MeetupController.ListParticipants)
	meetupRoutes.POST("/:id/join", r.MeetupController.Join)
	meetupRoutes.POST("/:id/leave", r.MeetupController.Leave)
	meetupRoutes.POST("/:id/reinstate", r.MeetupController.Reinstate)
}
