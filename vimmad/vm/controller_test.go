package vm

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"vimma/vimmad/expiration"
	"vimma/vimmad/schedule"
)

// workday schedule: Monday to Friday 08:00-18:00 UTC
func workdaySchedule() schedule.Schedule {
	matrix := make([][]bool, schedule.MatrixRows)
	for day := range matrix {
		matrix[day] = make([]bool, schedule.MatrixCols)
		if day >= 5 {
			continue
		}
		for col := 16; col < 36; col++ {
			matrix[day][col] = true
		}
	}
	out, _ := json.Marshal(matrix)

	return schedule.Schedule{
		Matrix:   string(out),
		TimeZone: schedule.TimeZone{Name: "UTC"},
	}
}

func TestPoweredAtNow(t *testing.T) {
	t.Parallel()

	// a Wednesday
	workHours := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	nightTime := time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC)

	liveExp := &expiration.Expiration{ExpiresAt: workHours.Add(30 * 24 * time.Hour)}
	deadExp := &expiration.Expiration{ExpiresAt: workHours.Add(-time.Hour)}

	override := func(poweredOn bool, until time.Time) (sql.NullBool, sql.NullTime) {
		return sql.NullBool{Bool: poweredOn, Valid: true},
			sql.NullTime{Time: until, Valid: true}
	}

	onUntilTomorrow, untilTomorrow := override(true, workHours.Add(24*time.Hour))
	offUntilTomorrow, _ := override(false, workHours.Add(24*time.Hour))
	onUntilYesterday, untilYesterday := override(true, workHours.Add(-24*time.Hour))

	tests := []struct {
		name          string
		exp           *expiration.Expiration
		overrideState sql.NullBool
		overrideUntil sql.NullTime
		now           time.Time
		want          bool
	}{
		{
			name: "ScheduleSaysOn",
			exp:  liveExp,
			now:  workHours,
			want: true,
		},
		{
			name: "ScheduleSaysOff",
			exp:  liveExp,
			now:  nightTime,
			want: false,
		},
		{
			name: "NoExpirationForcesOff",
			exp:  nil,
			now:  workHours,
			want: false,
		},
		{
			name: "ExpiredForcesOffDespiteSchedule",
			exp:  deadExp,
			now:  workHours,
			want: false,
		},
		{
			name:          "ExpiredForcesOffDespiteOverride",
			exp:           deadExp,
			overrideState: onUntilTomorrow,
			overrideUntil: untilTomorrow,
			now:           workHours,
			want:          false,
		},
		{
			name:          "OverrideOnBeatsScheduleOff",
			exp:           liveExp,
			overrideState: onUntilTomorrow,
			overrideUntil: untilTomorrow,
			now:           nightTime,
			want:          true,
		},
		{
			name:          "OverrideOffBeatsScheduleOn",
			exp:           liveExp,
			overrideState: offUntilTomorrow,
			overrideUntil: untilTomorrow,
			now:           workHours,
			want:          false,
		},
		{
			name:          "StaleOverrideIgnored",
			exp:           liveExp,
			overrideState: onUntilYesterday,
			overrideUntil: untilYesterday,
			now:           nightTime,
			want:          false,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			aVM := VM{
				ID:                 "vm1",
				Name:               "happy-llama-1234",
				ScheduleID:         "sched1",
				Schedule:           workdaySchedule(),
				SchedOverrideState: testCase.overrideState,
				SchedOverrideUntil: testCase.overrideUntil,
			}

			got, err := aVM.PoweredAtNow(testCase.exp, testCase.now)
			if err != nil {
				t.Fatalf("PoweredAtNow() error = %v", err)
			}
			if got != testCase.want {
				t.Errorf("PoweredAtNow() = %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestPoweredAtNowNoSchedule(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	liveExp := &expiration.Expiration{ExpiresAt: now.Add(30 * 24 * time.Hour)}

	aVM := VM{ID: "vm1", Name: "happy-llama-1234"}

	got, err := aVM.PoweredAtNow(liveExp, now)
	if err != nil {
		t.Fatalf("PoweredAtNow() error = %v", err)
	}
	if got {
		t.Errorf("PoweredAtNow() with no schedule = true, want false")
	}
}
