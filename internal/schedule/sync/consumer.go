// Package sync consumes bulk schedule feeds from Kafka and replays them
// through the schedule service.
package sync

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"muster/internal/platform/config"
	"muster/internal/schedule/models"
	"muster/internal/schedule/service"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// Applier is the slice of the schedule service the consumer drives.
type Applier interface {
	ApplySyncBatch(ctx context.Context, source string, batch []models.Entry) (service.BatchResult, error)
}

// Consumer reads EntryBatch records from the schedule sync topic.
// Malformed records are logged and skipped; the poll loop exits when the
// context is cancelled.
type Consumer struct {
	client  *kgo.Client
	applier Applier
	logger  *slog.Logger
}

// NewConsumer connects a group consumer to the configured topic.
func NewConsumer(cfg config.Kafka, applier Applier, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "connect kafka")
	}
	return &Consumer{client: client, applier: applier, logger: logger}, nil
}

// Run polls until ctx is cancelled. Offsets are committed only after a
// batch has been fully handed to the service, so a crash replays rather
// than drops entries; replays are safe because conflicting duplicates
// are skipped on apply.
func (c *Consumer) Run(ctx context.Context) {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic, "partition", partition, "error", err.Error())
		})
		fetches.EachRecord(func(record *kgo.Record) {
			c.handle(ctx, record)
		})
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil && ctx.Err() == nil {
			c.logger.ErrorContext(ctx, "kafka commit failed", "error", err.Error())
		}
	}
}

func (c *Consumer) handle(ctx context.Context, record *kgo.Record) {
	var msg batchMessage
	if err := json.Unmarshal(record.Value, &msg); err != nil {
		c.logger.WarnContext(ctx, "skipping undecodable sync record",
			"topic", record.Topic, "offset", record.Offset, "error", err.Error())
		return
	}

	entries, bad := msg.toEntries()
	for _, reason := range bad {
		c.logger.WarnContext(ctx, "skipping malformed sync entry",
			"source", msg.Source, "error", reason)
	}

	result, err := c.applier.ApplySyncBatch(ctx, msg.Source, entries)
	if err != nil {
		c.logger.ErrorContext(ctx, "sync batch aborted",
			"source", msg.Source, "applied", result.Applied, "error", err.Error())
		return
	}
	c.logger.InfoContext(ctx, "sync batch applied",
		"source", msg.Source,
		"applied", result.Applied,
		"skipped", result.Skipped+len(bad),
	)
}

type batchMessage struct {
	Source  string         `json:"source"`
	Entries []entryMessage `json:"entries"`
}

type entryMessage struct {
	InmateID      string `json:"inmate_id"`
	LocationID    string `json:"location_id"`
	Day           int    `json:"day_of_week"`
	Start         string `json:"start_time"`
	End           string `json:"end_time"`
	Activity      string `json:"activity_type"`
	Recurring     bool   `json:"is_recurring"`
	EffectiveDate string `json:"effective_date,omitempty"`
}

// toEntries converts the decoded records, collecting per-entry parse
// failures instead of failing the whole batch.
func (m batchMessage) toEntries() ([]models.Entry, []string) {
	entries := make([]models.Entry, 0, len(m.Entries))
	var bad []string
	for _, raw := range m.Entries {
		entry, err := raw.toEntry()
		if err != nil {
			bad = append(bad, err.Error())
			continue
		}
		entries = append(entries, entry)
	}
	return entries, bad
}

func (m entryMessage) toEntry() (models.Entry, error) {
	inmateID, err := id.ParseInmateID(m.InmateID)
	if err != nil {
		return models.Entry{}, err
	}
	locationID, err := id.ParseLocationID(m.LocationID)
	if err != nil {
		return models.Entry{}, err
	}
	start, err := models.ParseClock(m.Start)
	if err != nil {
		return models.Entry{}, err
	}
	end, err := models.ParseClock(m.End)
	if err != nil {
		return models.Entry{}, err
	}

	entry := models.Entry{
		InmateID:   inmateID,
		LocationID: locationID,
		Day:        models.Weekday(m.Day),
		Start:      start,
		End:        end,
		Activity:   models.ActivityType(m.Activity),
		Recurring:  m.Recurring,
	}
	if m.EffectiveDate != "" {
		date, err := models.ParseDate(m.EffectiveDate)
		if err != nil {
			return models.Entry{}, err
		}
		entry.EffectiveDate = &date
	}
	return entry, nil
}
