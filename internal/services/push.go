package services

import (
	"context"
	"fmt"

	"wayfarer-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// TokenStore looks up a user's registered device token.
type TokenStore interface {
	GetPushToken(ctx context.Context, userID string) (*string, error)
}

// APNSPusher delivers notifications to Apple devices. A nil pusher is
// valid and silently drops every send, so the rest of the system never
// branches on whether push is configured.
type APNSPusher struct {
	client *apns2.Client
	topic  string
	tokens TokenStore
}

// NewAPNSPusher builds a token-authenticated APNs client. Returns nil
// (push disabled) when no key is configured.
func NewAPNSPusher(cfg config.APNsConfig, tokens TokenStore) (*APNSPusher, error) {
	if cfg.KeyPath == "" {
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSPusher{
		client: client,
		topic:  cfg.Topic,
		tokens: tokens,
	}, nil
}

// Send pushes a message to the user's device, fire-and-log. Users
// without a registered token are skipped silently.
func (p *APNSPusher) Send(ctx context.Context, userID, message string) {
	if p == nil {
		return
	}

	deviceToken, err := p.tokens.GetPushToken(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to look up push token")
		return
	}
	if deviceToken == nil || *deviceToken == "" {
		return
	}

	notification := &apns2.Notification{
		DeviceToken: *deviceToken,
		Topic:       p.topic,
		Payload:     payload.NewPayload().Alert(message).Sound("default"),
	}

	res, err := p.client.PushWithContext(ctx, notification)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("APNs push failed")
		return
	}
	if !res.Sent() {
		log.Warn().
			Str("user_id", userID).
			Int("status", res.StatusCode).
			Str("reason", res.Reason).
			Msg("APNs push rejected")
	}
}
