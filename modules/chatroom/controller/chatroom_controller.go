package controller

import (
	"quickmeet-api/core/constants"
	"quickmeet-api/core/controller"
	"quickmeet-api/core/errors"
	"quickmeet-api/core/utils"
	"quickmeet-api/modules/chatroom/dto"
	"quickmeet-api/modules/chatroom/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ChatroomController handles chatroom HTTP requests
type ChatroomController struct {
	controller.BaseController
	ChatroomService service.ChatroomServiceInterface
}

// NewChatroomController creates a new controller
func NewChatroomController(svc service.ChatroomServiceInterface) *ChatroomController {
	return &ChatroomController{
		BaseController:  controller.NewBaseController(),
		ChatroomService: svc,
	}
}

func (c *ChatroomController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GetOrCreate handles GET /meetups/:id/chatroom
func (c *ChatroomController) GetOrCreate(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetupID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meetup ID")
	}

	result, appErr := c.ChatroomService.GetOrCreate(ctx.Request().Context(), meetupID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// PostMessage handles POST /chatrooms/:id/messages
func (c *ChatroomController) PostMessage(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	chatroomID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid chatroom ID")
	}

	var req dto.PostMessageRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ChatroomService.PostMessage(ctx.Request().Context(), chatroomID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Message posted")
}

// ListMessages handles GET /chatrooms/:id/messages
func (c *ChatroomController) ListMessages(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	chatroomID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid chatroom ID")
	}

	result, appErr := c.ChatroomService.ListMessages(ctx.Request().Context(), chatroomID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
