package main

import (
	"time"

	hmodels "muster/internal/hierarchy/models"
	hierarchystore "muster/internal/hierarchy/store"
	rcmodels "muster/internal/rollcall/models"
	rollcallstore "muster/internal/rollcall/store"
	rostermodels "muster/internal/roster/models"
	rosterstore "muster/internal/roster/store"
	schedulemodels "muster/internal/schedule/models"
	schedulestore "muster/internal/schedule/store"
	vmodels "muster/internal/verification/models"
	verificationstore "muster/internal/verification/store"
	id "muster/pkg/domain"
)

type memoryStores struct {
	locations     *hierarchystore.InMemoryLocationStore
	roster        *rosterstore.InMemoryInmateStore
	entries       *schedulestore.InMemoryEntryStore
	rollCalls     *rollcallstore.InMemoryRollCallStore
	verifications *verificationstore.InMemoryVerificationStore
}

// seedMemoryStores stands up a small demo facility so the service is
// explorable without a database: one wing, two cells, a workshop, two
// inmates with weekday schedules and one completed roll call.
func seedMemoryStores() memoryStores {
	stores := memoryStores{
		locations:     hierarchystore.NewMemory(),
		roster:        rosterstore.NewMemory(),
		entries:       schedulestore.NewMemory(),
		rollCalls:     rollcallstore.NewMemory(),
		verifications: verificationstore.NewMemory(),
	}

	facility := id.NewLocationID()
	wing := id.NewLocationID()
	cellA := id.NewLocationID()
	cellB := id.NewLocationID()
	workshop := id.NewLocationID()
	stores.locations.Seed([]hmodels.Location{
		{ID: facility, Name: "HMP Demo", Type: hmodels.TypeFacility},
		{ID: wing, Name: "A Wing", Type: hmodels.TypeWing, ParentID: &facility},
		{ID: cellA, Name: "A-101", Type: hmodels.TypeCell, ParentID: &wing, Capacity: 1},
		{ID: cellB, Name: "A-102", Type: hmodels.TypeCell, ParentID: &wing, Capacity: 1},
		{ID: workshop, Name: "Workshop", Type: hmodels.TypeWorkshop, ParentID: &facility, Capacity: 20},
	})

	alice := id.NewInmateID()
	bob := id.NewInmateID()
	stores.roster.Seed([]rostermodels.Inmate{
		{ID: alice, Name: "Alice Price", HomeCellID: &cellA, Active: true},
		{ID: bob, Name: "Bob Stone", HomeCellID: &cellB, Active: true},
	})

	var entries []schedulemodels.Entry
	for day := schedulemodels.Monday; day <= schedulemodels.Friday; day++ {
		entries = append(entries,
			schedulemodels.Entry{
				ID:         id.NewScheduleEntryID(),
				InmateID:   alice,
				LocationID: workshop,
				Day:        day,
				Start:      schedulemodels.MustClock("08:00"),
				End:        schedulemodels.MustClock("16:00"),
				Activity:   schedulemodels.ActivityWork,
				Recurring:  true,
				Source:     "seed",
			},
			schedulemodels.Entry{
				ID:         id.NewScheduleEntryID(),
				InmateID:   alice,
				LocationID: cellA,
				Day:        day,
				Start:      schedulemodels.MustClock("19:00"),
				End:        schedulemodels.MustClock("07:00"),
				Activity:   schedulemodels.ActivityCellTime,
				Recurring:  true,
				Source:     "seed",
			},
			schedulemodels.Entry{
				ID:         id.NewScheduleEntryID(),
				InmateID:   bob,
				LocationID: cellB,
				Day:        day,
				Start:      schedulemodels.MustClock("18:00"),
				End:        schedulemodels.MustClock("08:00"),
				Activity:   schedulemodels.ActivityCellTime,
				Recurring:  true,
				Source:     "seed",
			},
		)
	}
	stores.entries.Seed(entries)

	scheduledAt := time.Now().Add(-2 * time.Hour)
	completedAt := scheduledAt.Add(30 * time.Minute)
	rc := rcmodels.RollCall{
		ID:          id.NewRollCallID(),
		Status:      rcmodels.StatusCompleted,
		ScheduledAt: scheduledAt,
		StartedAt:   &scheduledAt,
		CompletedAt: &completedAt,
		Route: []rcmodels.RouteStop{
			{LocationID: cellA, Order: 1, Expected: []id.InmateID{alice}, Status: rcmodels.StopCompleted},
			{LocationID: cellB, Order: 2, Expected: []id.InmateID{bob}, Status: rcmodels.StopCompleted},
		},
	}
	stores.rollCalls.Seed([]rcmodels.RollCall{rc})

	stores.verifications.Seed([]vmodels.Verification{
		{
			ID:         id.NewVerificationID(),
			RollCallID: rc.ID,
			InmateID:   alice,
			LocationID: cellA,
			Status:     vmodels.StatusVerified,
			Confidence: 0.98,
			Timestamp:  completedAt.Add(-10 * time.Minute),
		},
		{
			ID:         id.NewVerificationID(),
			RollCallID: rc.ID,
			InmateID:   bob,
			LocationID: cellB,
			Status:     vmodels.StatusNotFound,
			Confidence: 0.6,
			Timestamp:  completedAt.Add(-5 * time.Minute),
		},
	})

	return stores
}
