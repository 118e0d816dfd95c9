package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MatrixRows = 7
	MatrixCols = 48
)

type TimeZone struct {
	gorm.Model
	ID string `gorm:"uniqueIndex;not null"`
	// IANA name, e.g. "Europe/Helsinki"
	Name string `gorm:"uniqueIndex;not null"`
}

// A Schedule marks when a VM should be powered on or off, as a 7x48 boolean
// matrix stored as JSON. Each row is a day of the week, Monday first. Each
// column is a 30 minute interval of local time in the schedule's timezone:
// column 0 is [0:00, 0:30), column 47 is [23:30, 24:00).
type Schedule struct {
	gorm.Model
	ID         string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"uniqueIndex;not null"`
	TimeZoneID string `gorm:"not null"`
	TimeZone   TimeZone
	Matrix     string
	// special schedules (e.g. always on) need an extra permission to use
	IsSpecial bool `gorm:"default:False;check:is_special IN (0,1)"`
}

func (tz *TimeZone) BeforeCreate(_ *gorm.DB) error {
	if tz.ID == "" {
		tz.ID = uuid.NewString()
	}
	return nil
}

func (s *Schedule) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SpecialFlag implements the authorization target interface.
func (s *Schedule) SpecialFlag() bool { return s.IsSpecial }

// DefaultMatrix returns an all-off week.
func DefaultMatrix() string {
	matrix := make([][]bool, MatrixRows)
	for i := range matrix {
		matrix[i] = make([]bool, MatrixCols)
	}
	out, _ := json.Marshal(matrix)

	return string(out)
}

// ValidateMatrix parses raw and checks it is exactly 7 rows of 48 booleans.
func ValidateMatrix(raw string) ([][]bool, error) {
	var matrix [][]bool
	if err := json.Unmarshal([]byte(raw), &matrix); err != nil {
		return nil, fmt.Errorf("%w: %w", errScheduleBadMatrix, err)
	}
	if len(matrix) != MatrixRows {
		return nil, fmt.Errorf("%w: has %d rows instead of %d",
			errScheduleBadMatrix, len(matrix), MatrixRows)
	}
	for _, row := range matrix {
		if len(row) != MatrixCols {
			return nil, fmt.Errorf("%w: row has %d items instead of %d",
				errScheduleBadMatrix, len(row), MatrixCols)
		}
	}

	return matrix, nil
}

// AtTime reports whether the schedule says ON at the given instant,
// evaluated on the wall clock of the schedule's timezone.
func (s *Schedule) AtTime(instant time.Time) (bool, error) {
	matrix, err := ValidateMatrix(s.Matrix)
	if err != nil {
		return false, err
	}

	loc, err := time.LoadLocation(s.TimeZone.Name)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", errScheduleBadTimeZone, s.TimeZone.Name, err)
	}

	local := instant.In(loc)
	// Go counts weekdays from Sunday, the matrix from Monday
	row := (int(local.Weekday()) + 6) % 7
	col := local.Hour()*2 + local.Minute()/30

	return matrix[row][col], nil
}

func Create(s *Schedule) error {
	if s.Name == "" {
		return errScheduleInvalidName
	}
	if s.Matrix == "" {
		s.Matrix = DefaultMatrix()
	}
	if _, err := ValidateMatrix(s.Matrix); err != nil {
		return err
	}
	if _, err := GetByName(s.Name); err == nil {
		return errScheduleDupe
	}

	db := GetScheduleDB()
	res := db.Create(s)
	if res.Error != nil {
		return res.Error
	}

	return nil
}

func GetByID(id string) (*Schedule, error) {
	if id == "" {
		return nil, errScheduleNotFound
	}

	var s Schedule

	db := GetScheduleDB()
	db.Preload("TimeZone").Limit(1).Find(&s, &Schedule{ID: id})
	if s.ID == "" {
		return nil, errScheduleNotFound
	}

	return &s, nil
}

func GetByName(name string) (*Schedule, error) {
	if name == "" {
		return nil, errScheduleNotFound
	}

	var s Schedule

	db := GetScheduleDB()
	db.Preload("TimeZone").Limit(1).Find(&s, &Schedule{Name: name})
	if s.ID == "" {
		return nil, errScheduleNotFound
	}

	return &s, nil
}

func GetAll() []*Schedule {
	var result []*Schedule

	db := GetScheduleDB()
	db.Preload("TimeZone").Find(&result)

	return result
}

func (s *Schedule) Save() error {
	if _, err := ValidateMatrix(s.Matrix); err != nil {
		return err
	}

	db := GetScheduleDB()
	res := db.Model(&Schedule{}).Where(&Schedule{ID: s.ID}).Limit(1).
		Select("Matrix", "IsSpecial", "TimeZoneID", "Name").Updates(s)
	if res.Error != nil {
		return errScheduleInternalDB
	}

	return nil
}

func (s *Schedule) Delete() error {
	db := GetScheduleDB()
	res := db.Limit(1).Delete(&Schedule{ID: s.ID})
	if res.RowsAffected != 1 {
		return errScheduleInternalDB
	}

	return nil
}

func CreateTimeZone(name string) (*TimeZone, error) {
	if _, err := time.LoadLocation(name); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errScheduleBadTimeZone, name, err)
	}

	var existing TimeZone

	db := GetScheduleDB()
	db.Limit(1).Find(&existing, &TimeZone{Name: name})
	if existing.ID != "" {
		return &existing, nil
	}

	tz := TimeZone{Name: name}
	if res := db.Create(&tz); res.Error != nil {
		return nil, res.Error
	}

	return &tz, nil
}
