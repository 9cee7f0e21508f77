// Package mailer delivers portfolio threshold alerts over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/core/metrics"
	"github.com/patrimmo/patrimmo_backend/internal/core/services"
	"github.com/patrimmo/patrimmo_backend/internal/platform/config"
)

// AlertMailer sends one plain-text e-mail per portfolio whose snapshot
// crossed a threshold. It implements services.AlertNotifier.
type AlertMailer struct {
	cfg    *config.Config
	logger *slog.Logger
}

var _ services.AlertNotifier = (*AlertMailer)(nil)

// NewAlertMailer creates a new alert mailer.
func NewAlertMailer(cfg *config.Config, logger *slog.Logger) *AlertMailer {
	return &AlertMailer{cfg: cfg, logger: logger}
}

// Enabled reports whether SMTP delivery is configured. An unconfigured
// mailer should not be wired as a notifier at all.
func (m *AlertMailer) Enabled() bool {
	return m.cfg.SMTPHost != "" && m.cfg.AlertEmailTo != ""
}

// NotifyAlerts sends the threshold alert e-mail for one snapshot.
func (m *AlertMailer) NotifyAlerts(ctx context.Context, portfolio domain.Portfolio, snapshot domain.PortfolioSnapshot) error {
	if !m.Enabled() {
		m.logger.Debug("SMTP not configured, dropping threshold alerts",
			slog.String("portfolio_id", portfolio.PortfolioID))
		return nil
	}

	e := email.NewEmail()
	e.From = m.cfg.SMTPFrom
	e.To = []string{m.cfg.AlertEmailTo}
	e.Subject = fmt.Sprintf("Portfolio alert: %s (%d)", portfolio.Name, snapshot.Year)
	e.Text = []byte(m.alertBody(portfolio, snapshot))

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	if err := e.Send(addr, auth); err != nil {
		m.logger.Error("Failed to send threshold alert e-mail",
			slog.String("portfolio_id", portfolio.PortfolioID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	m.logger.Info("Threshold alert e-mail sent",
		slog.String("portfolio_id", portfolio.PortfolioID),
		slog.Int("alerts", len(snapshot.Alerts)))
	return nil
}

func (m *AlertMailer) alertBody(portfolio domain.Portfolio, snapshot domain.PortfolioSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio %q crossed one or more risk thresholds for %d.\n\n", portfolio.Name, snapshot.Year)

	for _, alert := range snapshot.Alerts {
		switch alert {
		case metrics.AlertLTVHigh:
			fmt.Fprintf(&b, "- Loan-to-value is %s (threshold %s). Outstanding debt: %s, portfolio value: %s.\n",
				ratioString(snapshot.LTV), metrics.LTVAlertThreshold, snapshot.TotalDebt, snapshot.TotalValue)
		case metrics.AlertDSCRLow:
			fmt.Fprintf(&b, "- Debt service coverage is %s (threshold %s). Annual debt service: %s.\n",
				ratioString(snapshot.DSCR), metrics.DSCRAlertThreshold, snapshot.TotalDebtService)
		default:
			fmt.Fprintf(&b, "- %s\n", alert)
		}
	}

	b.WriteString("\nReview the portfolio in the dashboard for details.\n")
	return b.String()
}

func ratioString(r domain.Ratio) string {
	if !r.Valid {
		return "n/a"
	}
	return r.Value.String()
}
