package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/internal/controller"
	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/service"
)

type AdminUserController struct {
	profileService service.ProfileService
}

func NewAdminUserController(profileService service.ProfileService) *AdminUserController {
	return &AdminUserController{profileService: profileService}
}

// ProvisionProfile godoc
// @Summary (Admin) Provision a user profile
// @Description Idempotent. Returns the existing profile when one is already present.
// @Tags Admin - Users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.ProfileDTO
// @Router /admin/users/{user_id}/profile [post]
func (c *AdminUserController) ProvisionProfile(ctx *gin.Context) {
	userID, ok := controller.ParseID(ctx, "user_id")
	if !ok {
		return
	}
	profile, err := c.profileService.Provision(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// BlockUser godoc
// @Summary (Admin) Block a user until a time
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param block body dto.BlockUserDTO true "Block expiry, must be in the future"
// @Success 200 {object} dto.ProfileDTO
// @Failure 404 {object} dto.ErrorResponse "Profile not provisioned"
// @Failure 422 {object} dto.ErrorResponse "Expiry in the past"
// @Router /admin/users/{user_id}/block [post]
func (c *AdminUserController) BlockUser(ctx *gin.Context) {
	userID, ok := controller.ParseID(ctx, "user_id")
	if !ok {
		return
	}
	var req dto.BlockUserDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	profile, err := c.profileService.Block(ctx.Request.Context(), userID, req.BlockedUntil)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UnblockUser godoc
// @Summary (Admin) Lift a user's block
// @Tags Admin - Users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.ProfileDTO
// @Failure 404 {object} dto.ErrorResponse "Profile not provisioned"
// @Router /admin/users/{user_id}/unblock [post]
func (c *AdminUserController) UnblockUser(ctx *gin.Context) {
	userID, ok := controller.ParseID(ctx, "user_id")
	if !ok {
		return
	}
	profile, err := c.profileService.Unblock(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}
