package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/model"
	"opoboost_backend/pkg/logger"

	"go.uber.org/zap"
)

// EmailService talks to the outbound mail relay. Every send is
// fire-and-forget: failures are logged and never surfaced to the caller.
type EmailService struct {
	cfg    config.EmailConfig
	client *http.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		cfg:    cfg.Email,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *EmailService) enabled() bool {
	return s.cfg.APIKey != "" && s.cfg.BaseURL != ""
}

type emailPayload struct {
	To       string `json:"to"`
	From     string `json:"from"`
	FromName string `json:"fromName,omitempty"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
}

func (s *EmailService) send(ctx context.Context, to, subject, html string) error {
	body, err := json.Marshal(emailPayload{
		To:       to,
		From:     s.cfg.FromEmail,
		FromName: s.cfg.FromName,
		Subject:  subject,
		HTML:     html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v1/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *EmailService) sendAsync(to, subject, html string) {
	if !s.enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := s.send(ctx, to, subject, html); err != nil {
			logger.Log.Error("email send failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err))
		}
	}()
}

func (s *EmailService) SendWelcome(user *model.User) {
	html := fmt.Sprintf(
		"<h2>¡Bienvenido a OpoBoost, %s!</h2><p>Tu cuenta ha sido creada y está pendiente de validación por un administrador. Te avisaremos cuando puedas empezar.</p>",
		user.Name)
	s.sendAsync(user.Email, "Bienvenido a OpoBoost", html)
}

func (s *EmailService) SendAccountActivated(user *model.User) {
	html := fmt.Sprintf(
		"<h2>Hola %s</h2><p>Tu cuenta ha sido validada. Ya puedes iniciar sesión y empezar a practicar.</p>",
		user.Name)
	s.sendAsync(user.Email, "Cuenta activada", html)
}

func (s *EmailService) SendPasswordReset(user *model.User, resetURL string) {
	html := fmt.Sprintf(
		"<h2>Hola %s</h2><p>Has solicitado restablecer tu contraseña. El enlace caduca en una hora:</p><p><a href=\"%s\">%s</a></p><p>Si no lo has pedido tú, ignora este mensaje.</p>",
		user.Name, resetURL, resetURL)
	s.sendAsync(user.Email, "Recuperación de contraseña", html)
}

func (s *EmailService) SendFeedbackReply(user *model.User, reply string) {
	html := fmt.Sprintf(
		"<h2>Hola %s</h2><p>Hemos respondido a tu feedback:</p><blockquote>%s</blockquote>",
		user.Name, reply)
	s.sendAsync(user.Email, "Respuesta a tu feedback", html)
}
