package communication

import (
	"fmt"

	"github.com/slack-go/slack"
)

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

// NewSlack returns nil when no token is configured; a nil *Slack drops every message.
func NewSlack(token string, options SlackOption) *Slack {
	if token == "" {
		return nil
	}
	client := slack.New(token)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	if s == nil || channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	if s == nil {
		return nil
	}
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	if s == nil {
		return nil
	}
	return s.postMessage(s.options.ErrorChannelID, message)
}
