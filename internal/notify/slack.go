package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackAPI is the subset of the Slack client used by the ops notifier.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// OpsNotifier announces onboarding outcomes to an operations Slack channel.
// All failures are the caller's to log; an unreachable Slack must never
// affect tenant activation.
type OpsNotifier struct {
	client  SlackAPI
	channel string
}

func NewOpsNotifier(client SlackAPI, channel string) *OpsNotifier {
	return &OpsNotifier{client: client, channel: channel}
}

// Announce posts a plain text message to the ops channel.
func (n *OpsNotifier) Announce(ctx context.Context, message string) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("notify.OpsNotifier.Announce: %w", err)
	}
	return nil
}

// OnboardingCompleted formats the completion announcement.
func OnboardingCompleted(orgName, slug, accessURL string) string {
	return fmt.Sprintf("Onboarding completed for %s (%s): %s", orgName, slug, accessURL)
}

// OnboardingFailed formats the failure announcement.
func OnboardingFailed(orgName, slug, reason string) string {
	return fmt.Sprintf("Onboarding FAILED for %s (%s): %s", orgName, slug, reason)
}
