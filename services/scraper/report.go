package scraper

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

// sendReport mails a scrape summary to the configured recipients. Only
// invoked when report.to is non-empty.
func (s Service) sendReport(ctx context.Context, results Results) error {
	_, span := tracer.Start(ctx, "sendReport")
	defer span.End()

	cfg := s.config.Report

	var body strings.Builder
	fmt.Fprintf(&body, "Scrape finished at %s.\n\n", results.Stats.ScrapedAt)
	fmt.Fprintf(&body, "Total unique games: %d\n\n", results.Stats.TotalGames)

	names := make([]string, 0, len(results.Stats.Sources))
	for name := range results.Stats.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&body, "  %s: %d\n", name, results.Stats.Sources[name])
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("gamescrape <%s>", cfg.Smtp.EmailAddress)
	mail.To = cfg.To
	mail.Subject = fmt.Sprintf("Scrape report: %d games", results.Stats.TotalGames)
	mail.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%d", cfg.Smtp.Server, cfg.Smtp.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.Smtp.EmailAddress, cfg.Smtp.Password, cfg.Smtp.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send report")
		return err
	}
	return nil
}
