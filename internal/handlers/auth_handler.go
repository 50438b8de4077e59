package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zhasqoldau/internal/httperr"
	"zhasqoldau/internal/models"
	"zhasqoldau/internal/services"
)

type AuthHandler struct {
	Otp    *services.OtpService
	Tokens *services.TokenService
	Users  services.UserStore
}

func NewAuthHandler(otp *services.OtpService, tokens *services.TokenService, users services.UserStore) *AuthHandler {
	return &AuthHandler{Otp: otp, Tokens: tokens, Users: users}
}

// @Summary      Отправка кода подтверждения
// @Description  Выдаёт одноразовый код для ИИН и отправляет его в канал доставки
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        send  body      models.SendOtpRequest  true  "ИИН"
// @Success      204
// @Failure      400  {object}  httperr.Error
// @Failure      403  {object}  httperr.Error
// @Failure      429  {object}  httperr.Error
// @Router       /auth/otp/send [post]
func (h *AuthHandler) SendOtp(c *gin.Context) {
	var req models.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, httperr.Validation(map[string]string{"iin": "required"}))
		return
	}
	iin := strings.TrimSpace(req.IIN)
	if !services.ValidIIN(iin) {
		httperr.JSON(c, httperr.Validation(map[string]string{"iin": "must be 12 digits"}))
		return
	}

	if err := h.Otp.Send(iin); err != nil {
		switch {
		case errors.Is(err, services.ErrOtpCooldown):
			httperr.JSON(c, httperr.New(http.StatusForbidden, httperr.CodeOtpCooldown, "resend cooldown not elapsed"))
		case errors.Is(err, services.ErrOtpMaxResends):
			httperr.JSON(c, httperr.New(http.StatusForbidden, httperr.CodeOtpMaxResends, "resend limit reached"))
		case errors.Is(err, services.ErrUserNotFound):
			httperr.JSON(c, httperr.New(http.StatusNotFound, httperr.CodeUserNotFound, "user not registered"))
		case errors.Is(err, services.ErrOtpDelivery):
			httperr.JSON(c, httperr.New(http.StatusBadGateway, httperr.CodeOtpDeliveryFailed, "code delivery failed"))
		default:
			log.Printf("[auth][send] service error: %v", err)
			httperr.JSON(c, httperr.Internal())
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Проверка кода подтверждения
// @Description  Сверяет код и возвращает пару токенов с данными пользователя
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        verify  body      models.VerifyOtpRequest  true  "ИИН и код"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  httperr.Error
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, httperr.Validation(map[string]string{"iin": "required", "code": "required"}))
		return
	}

	user, err := h.Otp.Verify(strings.TrimSpace(req.IIN), strings.TrimSpace(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOtpNotFound):
			httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeOtpNotFound, "no active code for this iin"))
		case errors.Is(err, services.ErrOtpExpired):
			httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeOtpExpired, "code expired, please resend"))
		case errors.Is(err, services.ErrOtpMaxAttempts):
			httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeOtpMaxAttempts, "too many attempts, please resend"))
		case errors.Is(err, services.ErrOtpInvalid):
			httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeOtpInvalid, "invalid code"))
		case errors.Is(err, services.ErrUserNotFound):
			httperr.JSON(c, httperr.New(http.StatusNotFound, httperr.CodeUserNotFound, "user not registered"))
		default:
			log.Printf("[auth][verify] service error: %v", err)
			httperr.JSON(c, httperr.Internal())
		}
		return
	}

	pair, err := h.Tokens.Issue(user)
	if err != nil {
		log.Printf("[auth][verify] issue tokens failed for user_id=%d: %v", user.ID, err)
		httperr.JSON(c, httperr.Internal())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeRefreshRequired, "refresh token required"))
		return
	}

	pair, err := h.Tokens.Refresh(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRefreshRequired):
			httperr.JSON(c, httperr.New(http.StatusBadRequest, httperr.CodeRefreshRequired, "refresh token required"))
		case errors.Is(err, services.ErrInvalidRefresh):
			httperr.JSON(c, httperr.New(http.StatusUnauthorized, httperr.CodeInvalidRefresh, "invalid or expired refresh token"))
		default:
			log.Printf("[auth][refresh] service error: %v", err)
			httperr.JSON(c, httperr.Internal())
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}

// GET /auth/me — профиль по access-токену.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := getAuthIdentity(c)
	user, err := h.Users.GetByID(userID)
	if err != nil {
		log.Printf("[auth][me] lookup failed for user_id=%d: %v", userID, err)
		httperr.JSON(c, httperr.Internal())
		return
	}
	if user == nil {
		httperr.JSON(c, httperr.New(http.StatusNotFound, httperr.CodeUserNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}
