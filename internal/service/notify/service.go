// Package notify sends the daily alert digest over WhatsApp.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/stats"
	client "github.com/mamadbah2/herdbook/pkg/clients/whatsapp"
)

const (
	dueWindow   = 7
	sendTimeout = 10 * time.Second
)

// FeedAlert is a feed item that is low or expired.
type FeedAlert struct {
	FeedType     models.FeedType
	Quantity     float64
	Unit         string
	MinThreshold float64
	Status       models.StockStatus
}

// HealthAlert is an open health record due within the week or overdue.
type HealthAlert struct {
	TagNumber   string
	RecordType  models.HealthRecordType
	Description string
	Scheduled   time.Time
	DaysUntil   int
}

// Digest groups everything worth flagging to the farm manager.
type Digest struct {
	Date   time.Time
	Feed   []FeedAlert
	Health []HealthAlert
}

// Empty reports whether there is nothing to send.
func (d Digest) Empty() bool { return len(d.Feed) == 0 && len(d.Health) == 0 }

// Service builds and sends digests.
type Service struct {
	stores    *sqldb.Stores
	sender    client.Sender
	recipient string
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(stores *sqldb.Stores, sender client.Sender, recipient string, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		stores:    stores,
		sender:    sender,
		recipient: recipient,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// BuildDigest collects low or expired feed and open health records due within
// seven days.
func (s *Service) BuildDigest(ctx context.Context) (Digest, error) {
	now := s.now().In(s.loc)
	d := Digest{Date: stats.StartOfDay(now)}

	items, err := s.stores.Feed.List(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("load feed inventory: %w", err)
	}
	for _, it := range items {
		status := stats.StockStatusOf(it.Quantity, it.MinThreshold, it.ExpiryDate, now)
		if status == models.StockGood {
			continue
		}
		d.Feed = append(d.Feed, FeedAlert{
			FeedType:     it.FeedType,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			MinThreshold: it.MinThreshold,
			Status:       status,
		})
	}

	records, err := s.stores.Health.Open(ctx, now.AddDate(0, 0, dueWindow))
	if err != nil {
		return Digest{}, fmt.Errorf("load open health records: %w", err)
	}
	for _, r := range records {
		alert := HealthAlert{
			RecordType:  r.RecordType,
			Description: r.Description,
			Scheduled:   r.ScheduledDate,
			DaysUntil:   stats.DaysUntilDue(r.ScheduledDate, now),
		}
		if r.Cattle != nil {
			alert.TagNumber = r.Cattle.TagNumber
		}
		d.Health = append(d.Health, alert)
	}
	return d, nil
}

// Format renders d as a WhatsApp text message.
func (s *Service) Format(d Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Herd alerts for %s\n", d.Date.Format("Mon 02 Jan 2006"))

	if len(d.Feed) > 0 {
		b.WriteString("\nFeed\n")
		for _, f := range d.Feed {
			fmt.Fprintf(&b, "- %s: %.1f %s (%s, min %.1f)\n", f.FeedType, f.Quantity, f.Unit, f.Status, f.MinThreshold)
		}
	}

	if len(d.Health) > 0 {
		b.WriteString("\nHealth\n")
		for _, h := range d.Health {
			when := fmt.Sprintf("due in %d day(s)", h.DaysUntil)
			switch {
			case h.DaysUntil < 0:
				when = fmt.Sprintf("overdue by %d day(s)", -h.DaysUntil)
			case h.DaysUntil == 0:
				when = "due today"
			}
			fmt.Fprintf(&b, "- %s %s: %s (%s)\n", h.TagNumber, h.RecordType, h.Description, when)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// SendDigest builds today's digest and sends it. An empty digest is not sent.
func (s *Service) SendDigest(ctx context.Context) error {
	if s.sender == nil || s.recipient == "" {
		return errors.New("whatsapp alerts are not configured")
	}

	d, err := s.BuildDigest(ctx)
	if err != nil {
		return err
	}
	if d.Empty() {
		s.logger.Info("no alerts to send")
		return nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	id, err := s.sender.SendText(ctxWithTimeout, s.recipient, s.Format(d))
	if err != nil {
		return fmt.Errorf("send alert digest: %w", err)
	}
	s.logger.Info("alert digest sent",
		zap.String("message_id", id),
		zap.Int("feed_alerts", len(d.Feed)),
		zap.Int("health_alerts", len(d.Health)),
	)
	return nil
}
