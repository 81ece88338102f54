package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier sends alert notifications to external channels.
type Notifier interface {
	Notify(ctx context.Context, alerts []Alert) error
}

// slackNotifier posts alerts to a Slack incoming webhook.
type slackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Notifier that sends alerts to the given Slack webhook URL.
func NewSlackNotifier(webhookURL string) Notifier {
	return &slackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify sends the alerts to the webhook. It makes no request when there
// are no alerts.
func (s *slackNotifier) Notify(ctx context.Context, alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(buildSlackMessage(alerts))
	if err != nil {
		return fmt.Errorf("marshalling slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// alertGroups orders the message sections by alert condition.
var alertGroups = []struct {
	condition string
	title     string
}{
	{ConditionMetricBelowTarget, "Metrics below target"},
	{ConditionAgentSuccessLow, "Agents under the success threshold"},
	{ConditionQualityUnresolved, "Quality gates"},
}

// buildSlackMessage renders a header with the alert count, a context line
// tallying severities, and one section per alert condition. Alerts with an
// unrecognised condition go in a trailing "Other" section.
func buildSlackMessage(alerts []Alert) slackMessage {
	summary := fmt.Sprintf("Agent metrics: %d alert(s)", len(alerts))
	blocks := []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: summary}},
		{Type: "context", Elements: []slackText{{Type: "mrkdwn", Text: severityTally(alerts)}}},
	}

	grouped := make(map[string][]Alert)
	for _, a := range alerts {
		grouped[a.Condition] = append(grouped[a.Condition], a)
	}

	addSection := func(title string, group []Alert) {
		if len(group) == 0 {
			return
		}
		if len(blocks) > 2 {
			blocks = append(blocks, slackBlock{Type: "divider"})
		}
		lines := []string{"*" + title + "*"}
		for _, a := range group {
			lines = append(lines, fmt.Sprintf("%s *%s* %s `%s`",
				severityEmoji(a.Severity), strings.ToUpper(string(a.Severity)), a.Message, a.ID))
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: strings.Join(lines, "\n")},
		})
	}

	var other []Alert
	known := make(map[string]bool, len(alertGroups))
	for _, g := range alertGroups {
		known[g.condition] = true
		addSection(g.title, grouped[g.condition])
	}
	for _, a := range alerts {
		if !known[a.Condition] {
			other = append(other, a)
		}
	}
	addSection("Other", other)

	return slackMessage{Text: summary, Blocks: blocks}
}

// severityTally renders "1 high, 2 low | evaluated 2025-11-19 10:30 UTC".
// Alerts from one evaluation share a timestamp, so the first one is used.
func severityTally(alerts []Alert) string {
	counts := NewCounter()
	for _, a := range alerts {
		counts.Inc(string(a.Severity))
	}
	var parts []string
	for _, sev := range []AlertSeverity{SeverityHigh, SeverityMedium, SeverityLow} {
		if n := counts[string(sev)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	tally := strings.Join(parts, ", ")
	if at := alerts[0].TriggeredAt; !at.IsZero() {
		tally += " | evaluated " + at.UTC().Format("2006-01-02 15:04 UTC")
	}
	return tally
}

func severityEmoji(severity AlertSeverity) string {
	switch severity {
	case SeverityHigh:
		return "\U0001f534"
	case SeverityMedium:
		return "\U0001f7e1"
	case SeverityLow:
		return "\U0001f535"
	default:
		return "❓"
	}
}
