package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"github.com/appellation/chess/core/log"
)

const alertTimeout = 10 * time.Second

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	inflight      sync.WaitGroup
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
	}
}

// HTTPMiddleware recovers panics from HTTP handlers and alerts on them
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// WrapTask turns an event task into a worker pool job. Errors and panics are alerted on
// and never escape the job.
func (m *ErrorAlertMiddleware) WrapTask(taskName string, task func() error) func() {
	return func() {
		defer m.recoverAndAlert(fmt.Sprintf("Task: %s", taskName))

		if err := task(); err != nil {
			m.AlertOnError(err, fmt.Sprintf("Task: %s", taskName))
		}
	}
}

// AlertOnError logs err and posts an alert unless the same error was alerted recently
func (m *ErrorAlertMiddleware) AlertOnError(err error, context string) {
	errorMsg := fmt.Sprintf("%s: %v", context, err)
	log.Error("❌ %s", errorMsg)

	if !m.shouldAlert(errorMsg) {
		return
	}
	m.sendAsync(errorMsg, context)
}

// Wait blocks until every alert in flight has been delivered or has failed
func (m *ErrorAlertMiddleware) Wait() {
	m.inflight.Wait()
}

func (m *ErrorAlertMiddleware) shouldAlert(errorMsg string) bool {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		return false
	}
	m.alertedErrors[hash] = time.Now()
	return true
}

func (m *ErrorAlertMiddleware) recoverAndAlert(context string) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", context, r)
		log.Error("❌ %s", errorMsg)
		m.sendAsync(errorMsg, context+" (PANIC)")
	}
}

func (m *ErrorAlertMiddleware) sendAsync(errorMsg, context string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		m.sendSlackAlert(errorMsg, context)
	}()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, alertContext string) {
	ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
	defer cancel()

	if err := slack.PostWebhookContext(ctx, m.config.WebhookURL, m.buildAlert(errorMsg, alertContext)); err != nil {
		log.Error("❌ Failed to send Slack alert: %v", err)
	}
}

func (m *ErrorAlertMiddleware) buildAlert(errorMsg, alertContext string) *slack.WebhookMessage {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}
	title := fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, true, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", alertContext), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil, nil),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil, nil))
	}

	return &slack.WebhookMessage{
		Text:   title,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}
