package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Level string

// Levels sort lexicographically so the API can query by minimum level.
const (
	DEBUG   Level = "1-DEBUG"
	INFO    Level = "2-INFO"
	WARNING Level = "3-WARNING"
	ERROR   Level = "4-ERROR"
)

const TextMaxLength = 4096

type Audit struct {
	gorm.Model
	ID        string `gorm:"uniqueIndex;not null"`
	Timestamp time.Time
	Level     Level  `gorm:"type:audit_level;index"`
	Text      string `gorm:"not null"`
	UserID    string `gorm:"index"`
	ProjectID string `gorm:"index"`
	VMID      string `gorm:"index"`
}

func (a *Audit) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Meta carries the optional object references of an audit entry.
type Meta struct {
	UserID    string
	ProjectID string
	VMID      string
}

// An Auditor persists leveled messages and mirrors them to slog. Failures
// to persist are logged and otherwise suppressed so auditing never breaks
// the operation being audited.
type Auditor struct {
	name string
}

func NewAuditor(name string) Auditor {
	return Auditor{name: name}
}

func (aud Auditor) log(level Level, text string, meta Meta) {
	if len(text) > TextMaxLength {
		text = text[:TextMaxLength]
	}

	entry := Audit{
		Timestamp: time.Now(),
		Level:     level,
		Text:      text,
		UserID:    meta.UserID,
		ProjectID: meta.ProjectID,
		VMID:      meta.VMID,
	}

	db := GetAuditDB()
	if res := db.Create(&entry); res.Error != nil {
		slog.Error("failed saving audit entry", "name", aud.name, "err", res.Error)
	}

	attrs := []any{"name", aud.name}
	if meta.VMID != "" {
		attrs = append(attrs, "vm_id", meta.VMID)
	}
	if meta.UserID != "" {
		attrs = append(attrs, "user_id", meta.UserID)
	}
	if meta.ProjectID != "" {
		attrs = append(attrs, "project_id", meta.ProjectID)
	}

	switch level {
	case DEBUG:
		slog.Debug(text, attrs...)
	case INFO:
		slog.Info(text, attrs...)
	case WARNING:
		slog.Warn(text, attrs...)
	case ERROR:
		slog.Error(text, attrs...)
	}
}

func (aud Auditor) Debug(text string, meta Meta) { aud.log(DEBUG, text, meta) }

func (aud Auditor) Info(text string, meta Meta) { aud.log(INFO, text, meta) }

func (aud Auditor) Warning(text string, meta Meta) { aud.log(WARNING, text, meta) }

func (aud Auditor) Error(text string, meta Meta) { aud.log(ERROR, text, meta) }

// GetByVM returns the audit trail of one VM, oldest first.
func GetByVM(vmID string) ([]Audit, error) {
	var result []Audit

	db := GetAuditDB()
	res := db.Where(&Audit{VMID: vmID}).Order("timestamp").Find(&result)
	if res.Error != nil {
		return nil, res.Error
	}

	return result, nil
}
