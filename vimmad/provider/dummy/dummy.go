// Package dummy is a provider adapter with no real machines behind it.
// It keeps simulated state in the daemon's own database, which makes it
// usable both for development and in tests.
package dummy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vimma/vimmad/provider"
)

type DummyVM struct {
	gorm.Model
	ID              string `gorm:"uniqueIndex;not null"`
	MachineID       string `gorm:"uniqueIndex;not null"`
	Name            string
	InstanceID      string
	SecurityGroupID string
	PoweredOn       bool `gorm:"default:False;check:powered_on IN (0,1)"`
	Destroyed       bool `gorm:"default:False;check:destroyed IN (0,1)"`
	HasDNS          bool `gorm:"default:False;check:has_dns IN (0,1)"`
}

func (d *DummyVM) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type Adapter struct{}

func NewAdapter() *Adapter { return &Adapter{} }

func get(machineID string) (*DummyVM, error) {
	var dvm DummyVM

	db := GetDummyDB()
	db.Limit(1).Find(&dvm, &DummyVM{MachineID: machineID})
	if dvm.ID == "" {
		return nil, errDummyNotFound
	}

	return &dvm, nil
}

func (a *Adapter) Create(_ context.Context, machine provider.Machine,
	_ string,
) (provider.CreateResult, error) {
	// a retried create returns the IDs already assigned
	if existing, err := get(machine.ID); err == nil {
		return provider.CreateResult{
			InstanceID:      existing.InstanceID,
			SecurityGroupID: existing.SecurityGroupID,
		}, nil
	}

	dvm := DummyVM{
		MachineID:       machine.ID,
		Name:            machine.Name,
		InstanceID:      "dummy-i-" + uuid.NewString()[:8],
		SecurityGroupID: "dummy-sg-" + uuid.NewString()[:8],
	}

	db := GetDummyDB()
	if res := db.Create(&dvm); res.Error != nil {
		return provider.CreateResult{}, res.Error
	}

	return provider.CreateResult{
		InstanceID:      dvm.InstanceID,
		SecurityGroupID: dvm.SecurityGroupID,
	}, nil
}

func (a *Adapter) PowerOn(_ context.Context, machine provider.Machine) error {
	return a.setPower(machine, true)
}

func (a *Adapter) PowerOff(_ context.Context, machine provider.Machine) error {
	return a.setPower(machine, false)
}

func (a *Adapter) setPower(machine provider.Machine, poweredOn bool) error {
	dvm, err := get(machine.ID)
	if err != nil {
		return err
	}
	if dvm.Destroyed {
		return fmt.Errorf("%w: %s", errDummyDestroyed, machine.Name)
	}

	db := GetDummyDB()
	res := db.Model(&DummyVM{}).Where(&DummyVM{ID: dvm.ID}).Limit(1).
		Update("powered_on", poweredOn)

	return res.Error
}

func (a *Adapter) Reboot(_ context.Context, machine provider.Machine) error {
	return a.setPower(machine, true)
}

func (a *Adapter) Terminate(_ context.Context, machine provider.Machine) error {
	dvm, err := get(machine.ID)
	if err != nil {
		// nothing was ever created, nothing to terminate
		return nil
	}

	db := GetDummyDB()
	res := db.Model(&DummyVM{}).Where(&DummyVM{ID: dvm.ID}).Limit(1).
		Updates(map[string]any{"destroyed": true, "powered_on": false})

	return res.Error
}

func (a *Adapter) DeleteSecurityGroup(_ context.Context, machine provider.Machine) error {
	dvm, err := get(machine.ID)
	if err != nil {
		return nil
	}

	db := GetDummyDB()
	res := db.Model(&DummyVM{}).Where(&DummyVM{ID: dvm.ID}).Limit(1).
		Update("security_group_id", "")

	return res.Error
}

func (a *Adapter) Status(_ context.Context, machine provider.Machine) (provider.Status, error) {
	dvm, err := get(machine.ID)
	if err != nil {
		return provider.Status{RawState: "missing", Power: provider.PowerUnknown}, nil
	}

	switch {
	case dvm.Destroyed:
		return provider.Status{RawState: "destroyed", Power: provider.PowerOff, Terminal: true}, nil
	case dvm.PoweredOn:
		return provider.Status{RawState: "poweredon", Power: provider.PowerOn}, nil
	default:
		return provider.Status{RawState: "poweredoff", Power: provider.PowerOff}, nil
	}
}

func (a *Adapter) DNSAdd(_ context.Context, machine provider.Machine) error {
	return a.setDNS(machine, true)
}

func (a *Adapter) DNSDelete(_ context.Context, machine provider.Machine) error {
	return a.setDNS(machine, false)
}

func (a *Adapter) setDNS(machine provider.Machine, hasDNS bool) error {
	dvm, err := get(machine.ID)
	if err != nil {
		return nil
	}

	db := GetDummyDB()
	res := db.Model(&DummyVM{}).Where(&DummyVM{ID: dvm.ID}).Limit(1).
		Update("has_dns", hasDNS)

	return res.Error
}

func (a *Adapter) AuthorizeFirewall(_ context.Context, _ provider.Machine,
	_ provider.Rule,
) error {
	return nil
}

func (a *Adapter) RevokeFirewall(_ context.Context, _ provider.Machine,
	_ provider.Rule,
) error {
	return nil
}
