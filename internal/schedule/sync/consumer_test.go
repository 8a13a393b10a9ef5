package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"muster/internal/schedule/models"
	"muster/internal/schedule/service"
	id "muster/pkg/domain"
)

type captureApplier struct {
	source  string
	entries []models.Entry
}

func (c *captureApplier) ApplySyncBatch(_ context.Context, source string, batch []models.Entry) (service.BatchResult, error) {
	c.source = source
	c.entries = batch
	return service.BatchResult{Applied: len(batch)}, nil
}

func TestHandleRecord(t *testing.T) {
	inmate := id.NewInmateID()
	location := id.NewLocationID()

	payload, err := json.Marshal(map[string]any{
		"source": "prison-sys-a",
		"entries": []map[string]any{
			{
				"inmate_id":     inmate.String(),
				"location_id":   location.String(),
				"day_of_week":   0,
				"start_time":    "08:00",
				"end_time":      "09:00",
				"activity_type": "work",
				"is_recurring":  true,
			},
			{
				"inmate_id":      inmate.String(),
				"location_id":    location.String(),
				"day_of_week":    0,
				"start_time":     "21:00",
				"end_time":       "06:00",
				"activity_type":  "cell_time",
				"is_recurring":   false,
				"effective_date": "2026-08-31",
			},
			{
				"inmate_id":     "not-a-uuid",
				"location_id":   location.String(),
				"day_of_week":   0,
				"start_time":    "08:00",
				"end_time":      "09:00",
				"activity_type": "work",
				"is_recurring":  true,
			},
		},
	})
	require.NoError(t, err)

	applier := &captureApplier{}
	c := &Consumer{applier: applier, logger: slog.Default()}
	c.handle(context.Background(), &kgo.Record{Topic: "muster.schedule.sync", Value: payload})

	assert.Equal(t, "prison-sys-a", applier.source)
	require.Len(t, applier.entries, 2, "malformed entry is dropped, valid ones survive")

	first := applier.entries[0]
	assert.Equal(t, inmate, first.InmateID)
	assert.Equal(t, models.MustClock("08:00"), first.Start)
	assert.True(t, first.Recurring)

	second := applier.entries[1]
	require.NotNil(t, second.EffectiveDate)
	assert.Equal(t, models.Date{Year: 2026, Month: 8, Day: 31}, *second.EffectiveDate)
}

func TestHandleRecord_Undecodable(t *testing.T) {
	applier := &captureApplier{}
	c := &Consumer{applier: applier, logger: slog.Default()}
	c.handle(context.Background(), &kgo.Record{Value: []byte("{not json")})
	assert.Empty(t, applier.entries)
	assert.Empty(t, applier.source)
}
