package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/swibba/swibba-api/internal/config"
)

// Sender отправляет SMS на номер телефона
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender отправляет SMS через Twilio
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender создает новый экземпляр TwilioSender
func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioSender{
		client: client,
		from:   cfg.PhoneNumber,
	}
}

// Send отправляет SMS через Twilio API
func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("ошибка отправки SMS: %w", err)
	}

	return nil
}
