package controller

import (
	"errors"
	"net/http"

	"opoboost_backend/internal/model"
	"opoboost_backend/internal/service"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines the registration payload
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary Registrar un nuevo usuario
// @Description Crea una cuenta pendiente de validación por un administrador
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "Datos de registro"
// @Success 201 {object} util.Response{data=object} "Cuenta creada"
// @Failure 400 {object} util.Response "Parámetros inválidos"
// @Failure 409 {object} util.Response "Email ya registrado"
// @Failure 500 {object} util.Response "Error interno"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Student,
	}

	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, http.StatusConflict, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// LoginRequest defines the login payload
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Iniciar sesión
// @Description Devuelve un token JWT si las credenciales son válidas y la cuenta está validada
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Credenciales"
// @Success 200 {object} util.Response{data=object} "Token y datos del usuario"
// @Failure 401 {object} util.Response "Credenciales inválidas"
// @Failure 403 {object} util.Response "Cuenta pendiente de validación"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Error(ctx, http.StatusUnauthorized, err.Error())
		case errors.Is(err, util.ErrAccountNotValidated):
			util.Error(ctx, http.StatusForbidden, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Me godoc
// @Summary Usuario actual
// @Tags auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	user.Password = ""
	util.Success(ctx, user)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary Solicitar recuperación de contraseña
// @Description Envía un enlace de recuperación si el email existe; la respuesta es idéntica en ambos casos
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ForgotPasswordRequest true "Email de la cuenta"
// @Success 200 {object} util.Response
// @Router /api/auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	baseURL := ctx.GetHeader("Origin")
	if baseURL == "" {
		baseURL = "https://" + ctx.Request.Host
	}

	if err := c.AuthService.RequestPasswordReset(req.Email, baseURL); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Si el email existe, recibirás un enlace de recuperación"})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary Restablecer contraseña
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordRequest true "Token y nueva contraseña"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Token inválido o caducado"
// @Router /api/auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, util.ErrResetTokenInvalid) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "Contraseña actualizada"})
}
