package availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// snapshotRecord формат хранения снапшота слотов в Redis
type snapshotRecord struct {
	Seq               int64        `json:"seq"`
	DurationID        string       `json:"duration_id"`
	Date              time.Time    `json:"date"`
	TimeZone          string       `json:"time_zone"`
	Slots             []slotRecord `json:"slots"`
	DateRangeStart    time.Time    `json:"date_range_start"`
	DateRangeEnd      time.Time    `json:"date_range_end"`
	AvailableWeekdays []int        `json:"available_weekdays"`
	FetchedAt         time.Time    `json:"fetched_at"`
}

type slotRecord struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func toRecord(snapshot *domain.AvailabilitySnapshot) snapshotRecord {
	slots := make([]slotRecord, len(snapshot.Slots))
	for i, slot := range snapshot.Slots {
		slots[i] = slotRecord{StartTime: slot.StartTime, EndTime: slot.EndTime}
	}

	return snapshotRecord{
		Seq:               snapshot.Seq,
		DurationID:        snapshot.DurationID,
		Date:              snapshot.Date,
		TimeZone:          snapshot.TimeZone,
		Slots:             slots,
		DateRangeStart:    snapshot.DateRange.Start,
		DateRangeEnd:      snapshot.DateRange.End,
		AvailableWeekdays: snapshot.AvailableWeekdays,
		FetchedAt:         snapshot.FetchedAt,
	}
}

func (r snapshotRecord) toDomain() *domain.AvailabilitySnapshot {
	slots := make([]domain.TimeSlot, len(r.Slots))
	for i, slot := range r.Slots {
		slots[i] = domain.TimeSlot{StartTime: slot.StartTime, EndTime: slot.EndTime}
	}

	return &domain.AvailabilitySnapshot{
		Seq:               r.Seq,
		DurationID:        r.DurationID,
		Date:              r.Date,
		TimeZone:          r.TimeZone,
		Slots:             slots,
		DateRange:         domain.DateRange{Start: r.DateRangeStart, End: r.DateRangeEnd},
		AvailableWeekdays: r.AvailableWeekdays,
		FetchedAt:         r.FetchedAt,
	}
}
