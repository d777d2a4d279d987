package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fieldservice-booking/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func testAppointment(techID uuid.UUID, date time.Time, start domain.TimeOfDay, duration int) domain.ScheduledAppointment {
	return domain.ScheduledAppointment{
		ID:              uuid.New(),
		TechnicianID:    techID,
		Date:            date,
		Start:           start,
		End:             start.Add(duration),
		DurationMinutes: duration,
		ServiceType:     domain.ServiceMaintenance,
		Location: domain.Location{
			Lat:        33.4484,
			Lng:        -112.074,
			Address:    "1901 W Madison St, Phoenix, AZ",
			PostalCode: "85009",
		},
	}
}

func TestSqliteAppointmentRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteAppointmentRepository(db)
	ctx := context.Background()

	techID := uuid.New()
	otherTech := uuid.New()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	early := testAppointment(techID, day, 600, 60)
	late := testAppointment(techID, day, 480, 90)
	other := testAppointment(otherTech, day, 480, 60)

	for _, a := range []domain.ScheduledAppointment{early, late, other} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListForDay(ctx, techID, day)
	if err != nil {
		t.Fatalf("list for day: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("appointment count = %d, want 2", len(got))
	}
	if got[0].Start != 480 || got[1].Start != 600 {
		t.Fatalf("appointments not ordered by start: %v, %v", got[0].Start, got[1].Start)
	}
	if got[0].Location.PostalCode != "85009" {
		t.Errorf("postal code = %q, want 85009", got[0].Location.PostalCode)
	}
	if got[0].ServiceType != domain.ServiceMaintenance {
		t.Errorf("service type = %q, want maintenance", got[0].ServiceType)
	}
}

func TestSqliteAppointmentRepositoryListNearby(t *testing.T) {
	db := openTestDB(t)
	repo := NewSqliteAppointmentRepository(db)
	ctx := context.Background()

	techID := uuid.New()
	target := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	sameDay := testAppointment(techID, target, 480, 60)
	dayBefore := testAppointment(techID, target.AddDate(0, 0, -1), 480, 60)
	twoAfter := testAppointment(techID, target.AddDate(0, 0, 2), 540, 60)
	threeAfter := testAppointment(techID, target.AddDate(0, 0, 3), 540, 60)

	for _, a := range []domain.ScheduledAppointment{sameDay, dayBefore, twoAfter, threeAfter} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListNearby(ctx, techID, target, 2)
	if err != nil {
		t.Fatalf("list nearby: %v", err)
	}

	// ±2 days excluding the target day itself: dayBefore and twoAfter.
	if len(got) != 2 {
		t.Fatalf("nearby count = %d, want 2", len(got))
	}
	ids := map[uuid.UUID]bool{got[0].ID: true, got[1].ID: true}
	if !ids[dayBefore.ID] || !ids[twoAfter.ID] {
		t.Fatalf("unexpected nearby set: %v", ids)
	}
}
