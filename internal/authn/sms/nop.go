package sms

import (
	"context"
	"log/slog"
)

// NopSender drops messages. Used in dev OTP mode, where the code is read
// back through the dev endpoint instead of delivered by SMS.
type NopSender struct {
	Logger *slog.Logger
}

func (s NopSender) SendOTP(_ context.Context, phone, _ string) error {
	if s.Logger != nil {
		s.Logger.Debug("sms suppressed, dev otp mode", "phone", phone)
	}
	return nil
}
