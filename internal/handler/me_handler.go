package handler

import (
	"net/http"

	"orbitcloud/internal/middleware"
	"orbitcloud/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
}

func NewMeHandler(userRepo *repository.UserRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

// Profile returns the authenticated user's profile and balance.
func (h *MeHandler) Profile(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, envelope{Success: false, Message: "User tidak ditemukan"})
		return
	}
	respondData(c, toUserResponse(u, ""))
}
