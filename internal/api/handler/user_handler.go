package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wms-platform/users-service/internal/core/ports"
)

// UserHandler serves token-gated profile reads.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Info returns the authenticated user's profile.
//
// @Summary      Get current user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userInfoResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user [get]
func (h *UserHandler) Info(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	info, err := h.service.GetUserInfo(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserInfoResponse(info))
}

func toUserInfoResponse(info *ports.UserInfo) userInfoResponse {
	companies := make([]companyResponse, len(info.Companies))
	for i, m := range info.Companies {
		companies[i] = companyResponse{
			CompanyID:      m.CompanyID,
			EmployeeID:     m.EmployeeID,
			Roles:          m.Roles,
			ProjectRolesID: m.ProjectRolesID,
		}
	}
	return userInfoResponse{
		ID:        info.ID,
		Name:      info.Name,
		Email:     info.Email,
		Companies: companies,
	}
}
