package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/model"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	UserRepo *repository.UserRepository
	Email    *EmailService
	Redis    *redis.Client
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, email *EmailService, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Email:    email,
		Redis:    rdb,
		Cfg:      cfg,
	}
}

// Register creates an unvalidated account. The user cannot log in until an
// admin validates it.
func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	user.Validated = false

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	s.Email.SendWelcome(user)
	return nil
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if !user.Validated {
		return "", nil, util.ErrAccountNotValidated
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateUser flips the validated flag (admin action) and notifies the user.
func (s *AuthService) ValidateUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.UserRepo.SetValidated(userID); err != nil {
		return nil, err
	}

	s.Email.SendAccountActivated(user)
	return user, nil
}

func resetTokenKey(token string) string {
	return "pwreset:" + token
}

// RequestPasswordReset issues a one-hour token and mails the reset link.
// The response is identical whether or not the email exists.
func (s *AuthService) RequestPasswordReset(email, frontendBaseURL string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	expiry := time.Now().Add(resetTokenTTL)
	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	if err := s.UserRepo.Update(user); err != nil {
		return err
	}

	if s.Redis != nil {
		s.Redis.Set(context.Background(), resetTokenKey(token), user.ID, resetTokenTTL)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(frontendBaseURL, "/"), token)
	s.Email.SendPasswordReset(user, resetURL)
	return nil
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	user, err := s.UserRepo.FindByResetToken(token)
	if err != nil {
		return util.ErrResetTokenInvalid
	}
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return util.ErrResetTokenInvalid
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := s.UserRepo.Update(user); err != nil {
		return err
	}

	if s.Redis != nil {
		s.Redis.Del(context.Background(), resetTokenKey(token))
	}
	return nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}
