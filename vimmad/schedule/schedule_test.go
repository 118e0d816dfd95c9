package schedule

import (
	"encoding/json"
	"testing"
	"time"
)

func matrixWith(on map[int][]int) string {
	matrix := make([][]bool, MatrixRows)
	for i := range matrix {
		matrix[i] = make([]bool, MatrixCols)
	}
	for row, cols := range on {
		for _, col := range cols {
			matrix[row][col] = true
		}
	}
	out, _ := json.Marshal(matrix)

	return string(out)
}

func TestValidateMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name:    "Default",
			raw:     DefaultMatrix(),
			wantErr: false,
		},
		{
			name:    "NotJSON",
			raw:     "not json at all",
			wantErr: true,
		},
		{
			name:    "Empty",
			raw:     "[]",
			wantErr: true,
		},
		{
			name:    "TooFewRows",
			raw:     "[[true],[true],[true]]",
			wantErr: true,
		},
		{
			name:    "ShortRow",
			raw:     matrixShortRow(),
			wantErr: true,
		},
		{
			name:    "NonBool",
			raw:     "[[1,2,3],[],[],[],[],[],[]]",
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateMatrix(testCase.raw)
			if (err != nil) != testCase.wantErr {
				t.Errorf("ValidateMatrix() error = %v, wantErr %v", err, testCase.wantErr)
			}
		})
	}
}

func matrixShortRow() string {
	matrix := make([][]bool, MatrixRows)
	for i := range matrix {
		matrix[i] = make([]bool, MatrixCols)
	}
	matrix[3] = matrix[3][:MatrixCols-1]
	out, _ := json.Marshal(matrix)

	return string(out)
}

func TestScheduleAtTime(t *testing.T) {
	t.Parallel()

	// Wednesday 12:00-13:00 and Monday 00:00-00:30 local Helsinki time
	sched := Schedule{
		Matrix:   matrixWith(map[int][]int{2: {24, 25}, 0: {0}}),
		TimeZone: TimeZone{Name: "Europe/Helsinki"},
	}

	helsinki, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}

	tests := []struct {
		name    string
		instant time.Time
		want    bool
	}{
		{
			name:    "WedNoonLocal",
			instant: time.Date(2026, 7, 15, 12, 0, 0, 0, helsinki),
			want:    true,
		},
		{
			name:    "WedLastSecondOfWindow",
			instant: time.Date(2026, 7, 15, 12, 59, 59, 0, helsinki),
			want:    true,
		},
		{
			name:    "WedJustAfterWindow",
			instant: time.Date(2026, 7, 15, 13, 0, 0, 0, helsinki),
			want:    false,
		},
		{
			name: "WedNoonExpressedInUTC",
			// 09:00 UTC is 12:00 in Helsinki during summer time
			instant: time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC),
			want:    true,
		},
		{
			name: "SundayUTCIsMondayLocal",
			// Sunday 22:10 UTC is Monday 00:10 in Helsinki in winter
			instant: time.Date(2026, 1, 11, 22, 10, 0, 0, time.UTC),
			want:    true,
		},
		{
			name:    "MondayFirstSlotEnds",
			instant: time.Date(2026, 1, 12, 0, 30, 0, 0, helsinki),
			want:    false,
		},
	}

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := sched.AtTime(testCase.instant)
			if err != nil {
				t.Fatalf("AtTime() error = %v", err)
			}
			if got != testCase.want {
				t.Errorf("AtTime() = %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestScheduleAtTimeBadTimeZone(t *testing.T) {
	t.Parallel()

	sched := Schedule{
		Matrix:   DefaultMatrix(),
		TimeZone: TimeZone{Name: "Nowhere/Special"},
	}

	_, err := sched.AtTime(time.Now())
	if err == nil {
		t.Errorf("AtTime() with bad timezone did not error")
	}
}
