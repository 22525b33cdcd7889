package handler

import (
	"errors"
	"net/http"

	"orbitcloud/internal/models"
	"orbitcloud/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Balance int    `json:"balance"`
	Picture string `json:"picture,omitempty"`
	Token   string `json:"token,omitempty"`
}

func toUserResponse(u *models.User, token string) userResponse {
	return userResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Balance: u.Balance,
		Picture: u.Picture,
		Token:   token,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Data registrasi tidak lengkap"})
		return
	}
	u, err := h.authSvc.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Email sudah terdaftar"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Message: "Registrasi berhasil", Data: toUserResponse(u, "")})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Email dan password wajib diisi"})
		return
	}
	u, access, _, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, envelope{Success: false, Message: "Email atau password salah"})
		return
	}
	respondData(c, toUserResponse(u, access))
}
