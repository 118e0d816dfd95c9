package requests

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reqType string

const (
	ALLVMSTATUS       reqType = "ALLVMSTATUS"
	VMSTATUS          reqType = "VMSTATUS"
	VMSTART           reqType = "VMSTART"
	VMSTOP            reqType = "VMSTOP"
	VMREBOOT          reqType = "VMREBOOT"
	VMCREATE          reqType = "VMCREATE"
	VMDESTROY         reqType = "VMDESTROY"
	INSTANCETERMINATE reqType = "INSTANCETERMINATE"
	SECGROUPDELETE    reqType = "SECGROUPDELETE"
	DNSADD            reqType = "DNSADD"
	DNSDELETE         reqType = "DNSDELETE"
	FWRULEADD         reqType = "FWRULEADD"
	FWRULEDELETE      reqType = "FWRULEDELETE"
	EXPIRENOTIFYSWEEP reqType = "EXPIRENOTIFYSWEEP"
	EXPIREGRACESWEEP  reqType = "EXPIREGRACESWEEP"
)

// A Request is one durable task. Delivery is at least once: a request
// stays in the queue until marked complete, and a handler asking for a
// retry puts it back with a not-before time.
type Request struct {
	gorm.Model
	ID         string       `gorm:"uniqueIndex;not null"`
	StartedAt  sql.NullTime `gorm:"index"`
	NotBefore  sql.NullTime `gorm:"index"`
	Attempts   int
	Successful bool    `gorm:"default:False;check:successful IN (0,1)"`
	Complete   bool    `gorm:"default:False;check:complete IN (0,1)"`
	Type       reqType `gorm:"type:req_type"`
	Data       string
}

func (req *Request) BeforeCreate(_ *gorm.DB) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return nil
}

type VMReqData struct {
	VMID string `json:"vm_id"`
}

type RuleReqData struct {
	RuleID string `json:"rule_id"`
	VMID   string `json:"vm_id"`
}

func validVMReqType(aReqType reqType) bool {
	switch aReqType {
	case VMSTATUS, VMSTART, VMSTOP, VMREBOOT, VMCREATE, VMDESTROY,
		INSTANCETERMINATE, SECGROUPDELETE, DNSADD, DNSDELETE:
		return true
	case ALLVMSTATUS, FWRULEADD, FWRULEDELETE, EXPIRENOTIFYSWEEP, EXPIREGRACESWEEP:
		return false
	default:
		return false
	}
}

func validSweepReqType(aReqType reqType) bool {
	switch aReqType {
	case ALLVMSTATUS, EXPIRENOTIFYSWEEP, EXPIREGRACESWEEP:
		return true
	case VMSTATUS, VMSTART, VMSTOP, VMREBOOT, VMCREATE, VMDESTROY,
		INSTANCETERMINATE, SECGROUPDELETE, DNSADD, DNSDELETE,
		FWRULEADD, FWRULEDELETE:
		return false
	default:
		return false
	}
}

// CreateVMReq enqueues a task targeting one VM.
func CreateVMReq(aReqType reqType, vmID string) (Request, error) {
	db := GetReqDB()

	return createVMReq(db, aReqType, vmID)
}

// CreateVMReqTx enqueues a task targeting one VM inside the caller's
// transaction, so the enqueue commits together with the caller's writes.
func CreateVMReqTx(tx *gorm.DB, aReqType reqType, vmID string) (Request, error) {
	return createVMReq(tx, aReqType, vmID)
}

func createVMReq(db *gorm.DB, aReqType reqType, vmID string) (Request, error) {
	if !validVMReqType(aReqType) {
		return Request{}, errInvalidRequest
	}
	if vmID == "" {
		return Request{}, errInvalidRequest
	}

	reqData, err := json.Marshal(VMReqData{VMID: vmID})
	if err != nil {
		return Request{}, errRequestCreateFailure
	}

	newReq := Request{Data: string(reqData), Type: aReqType}
	if res := db.Create(&newReq); res.Error != nil {
		return Request{}, res.Error
	}

	return newReq, nil
}

// CreateRuleReq enqueues a firewall rule task.
func CreateRuleReq(aReqType reqType, ruleID string, vmID string) (Request, error) {
	db := GetReqDB()

	return createRuleReq(db, aReqType, ruleID, vmID)
}

// CreateRuleReqTx enqueues a firewall rule task inside the caller's
// transaction.
func CreateRuleReqTx(tx *gorm.DB, aReqType reqType, ruleID string, vmID string) (Request, error) {
	return createRuleReq(tx, aReqType, ruleID, vmID)
}

func createRuleReq(db *gorm.DB, aReqType reqType, ruleID string, vmID string) (Request, error) {
	if aReqType != FWRULEADD && aReqType != FWRULEDELETE {
		return Request{}, errInvalidRequest
	}
	if ruleID == "" || vmID == "" {
		return Request{}, errInvalidRequest
	}

	reqData, err := json.Marshal(RuleReqData{RuleID: ruleID, VMID: vmID})
	if err != nil {
		return Request{}, errRequestCreateFailure
	}

	newReq := Request{Data: string(reqData), Type: aReqType}
	if res := db.Create(&newReq); res.Error != nil {
		return Request{}, res.Error
	}

	return newReq, nil
}

// CreateSweepReq enqueues one of the periodic sweeps.
func CreateSweepReq(aReqType reqType) (Request, error) {
	if !validSweepReqType(aReqType) {
		return Request{}, errInvalidRequest
	}

	newReq := Request{Type: aReqType}

	db := GetReqDB()
	if res := db.Create(&newReq); res.Error != nil {
		return Request{}, res.Error
	}

	return newReq, nil
}

func GetByID(requestID string) (Request, error) {
	var aRequest Request

	if requestID == "" {
		return Request{}, errRequestNotFound
	}

	db := GetReqDB()
	res := db.Model(&Request{}).Limit(1).Find(&aRequest, &Request{ID: requestID})
	if res.Error != nil {
		return Request{}, res.Error
	}
	if res.RowsAffected != 1 {
		return Request{}, errRequestNotFound
	}

	return aRequest, nil
}

// GetUnStarted returns the oldest runnable request: not started, not
// complete, and past its not-before time if it has one.
func GetUnStarted() Request {
	var result Request

	db := GetReqDB()
	db.Limit(1).
		Where("started_at IS NULL AND complete = ?", false).
		Where("not_before IS NULL OR not_before <= ?", time.Now()).
		Order("created_at asc").
		Find(&result)

	return result
}

func (req *Request) Start() {
	db := GetReqDB()
	req.StartedAt = sql.NullTime{Time: time.Now(), Valid: true}
	db.Model(req).Limit(1).Updates(req)
}

func (req *Request) Succeeded() {
	db := GetReqDB()
	db.Model(req).Limit(1).Updates(
		Request{
			Successful: true,
			Complete:   true,
		},
	)
}

func (req *Request) Failed() {
	db := GetReqDB()
	db.Model(req).Limit(1).Updates(
		Request{
			Complete: true,
		},
	)
}

// Requeue puts the request back in the queue after delay, counting the
// attempt it just used.
func (req *Request) Requeue(delay time.Duration) {
	db := GetReqDB()
	db.Model(req).Limit(1).Updates(map[string]any{
		"started_at": nil,
		"not_before": time.Now().Add(delay),
		"attempts":   req.Attempts + 1,
	})
	req.StartedAt = sql.NullTime{}
	req.NotBefore = sql.NullTime{Time: time.Now().Add(delay), Valid: true}
	req.Attempts++
}

// PendingReqExists returns the IDs of incomplete requests mentioning the
// given object ID.
func PendingReqExists(objID string) []string {
	var reqIDs []string
	var err error
	var rows *sql.Rows

	reqDB := GetReqDB()
	rows, err = reqDB.Model(&Request{}).
		Select("id").
		Where("complete = ?", false).
		Where("data LIKE ?", "%"+objID+"%").
		Rows()
	if err != nil {
		return reqIDs
	}

	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var reqID string
		err = rows.Scan(&reqID)
		if err != nil {
			continue
		}
		reqIDs = append(reqIDs, reqID)
	}
	if rows.Err() != nil {
		return []string{}
	}

	return reqIDs
}

// FailAllPending marks requests that were mid-flight when the daemon
// stopped as failed. Runs at boot, before workers start.
func FailAllPending() int64 {
	db := GetReqDB()
	res := db.Model(&Request{}).
		Where("started_at IS NOT NULL AND complete = ?", false).
		Updates(Request{Complete: true})

	return res.RowsAffected
}
