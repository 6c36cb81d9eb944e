package controller

import (
	"quickmeet-api/core/constants"
	"quickmeet-api/core/controller"
	"quickmeet-api/core/errors"
	"quickmeet-api/core/params"
	"quickmeet-api/core/utils"
	"quickmeet-api/modules/meetup/dto"
	"quickmeet-api/modules/meetup/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MeetupController handles meetup HTTP requests
type MeetupController struct {
	controller.BaseController
	MeetupService service.MeetupServiceInterface
}

// NewMeetupController creates a new controller
func NewMeetupController(svc service.MeetupServiceInterface) *MeetupController {
	return &MeetupController{
		BaseController: controller.NewBaseController(),
		MeetupService:  svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *MeetupController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// Create handles POST /meetups
func (c *MeetupController) Create(ctx echo.Context) error {
	organizerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateMeetupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetupService.Create(ctx.Request().Context(), organizerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meetup created successfully")
}

// Get handles GET /meetups/:id
func (c *MeetupController) Get(ctx echo.Context) error {
	meetupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meetup ID")
	}

	result, appErr := c.MeetupService.GetByID(ctx.Request().Context(), meetupID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListActive handles GET /meetups. With a ?city= triple the list is for
// that location; otherwise it covers the viewer's own buckets.
func (c *MeetupController) ListActive(ctx echo.Context) error {
	viewerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	p := params.FromContext(ctx)

	city := ctx.QueryParam("city")
	if city != "" {
		result, appErr := c.MeetupService.ListActive(ctx.Request().Context(),
			city, ctx.QueryParam("state"), ctx.QueryParam("country"), p)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, paginated(result, p), "Success")
	}

	result, appErr := c.MeetupService.ListActiveForViewer(ctx.Request().Context(), viewerID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, paginated(result, p), "Success")
}

func paginated(items []dto.MeetupResponse, p params.Pagination) dto.PaginatedMeetupResponse {
	return dto.PaginatedMeetupResponse{
		Items:      items,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}
}

// ListArchived handles GET /meetups/archived
func (c *MeetupController) ListArchived(ctx echo.Context) error {
	organizerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	p := params.FromContext(ctx)
	result, appErr := c.MeetupService.ListArchived(ctx.Request().Context(), organizerID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, paginated(result, p), "Success")
}

// ListParticipants handles GET /meetups/:id/participants
func (c *MeetupController) ListParticipants(ctx echo.Context) error {
	viewerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meetup ID")
	}

	result, appErr := c.MeetupService.ListParticipants(ctx.Request().Context(), meetupID, viewerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Join handles POST /meetups/:id/join
func (c *MeetupController) Join(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meetup ID")
	}

	var req dto.JoinMeetupRequest
	if err := ctx.Bind(&req); err != nil {
		req = dto.JoinMeetupRequest{}
	}

	result, appErr := c.MeetupService.Join(ctx.Request().Context(), meetupID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined meetup")
}

// Leave handles POST /meetups/:id/leave
func (c *MeetupController) Leave(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meetup ID")
	}

	removed, appErr := c.MeetupService.Leave(ctx.Request().Context(), meetupID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]bool{"removed": removed}, "Left meetup")
}

// Reinstate handles POST /meetups/:id/reinstate
func (c *MeetupController) Reinstate(ctx echo.Context) error {
	organizerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meetup ID")
	}

	var req dto.ReinstateMeetupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetupService.Reinstate(ctx.Request().Context(), organizerID, meetupID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meetup reinstated")
}
