package provider

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindDummy Kind = "dummy"
	KindEC2   Kind = "ec2"
)

// PowerState is the classified power state of a machine, derived from the
// provider's raw state by each adapter.
type PowerState string

const (
	PowerOn      PowerState = "on"
	PowerOff     PowerState = "off"
	PowerUnknown PowerState = "unknown"
)

// A Provider is a place where VMs live, e.g. an EC2 region.
type Provider struct {
	gorm.Model
	ID   string `gorm:"uniqueIndex;not null"`
	Name string `gorm:"uniqueIndex;not null"`
	Kind Kind   `gorm:"not null"`
	// longest schedule override users may set on VMs of this provider
	MaxOverrideSeconds int64
	IsSpecial          bool `gorm:"default:False;check:is_special IN (0,1)"`
	Default            bool `gorm:"default:False;check:\"default\" IN (0,1)"`
	// adapter settings as a JSON blob (region, VPC, DNS zones, ...)
	Config string
}

func (p *Provider) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// SpecialFlag implements the authorization target interface.
func (p *Provider) SpecialFlag() bool { return p.IsSpecial }

// Machine is the adapter's view of a VM. Adapters never see VM records,
// only the fields relevant on the provider side.
type Machine struct {
	ID              string
	Name            string
	ProjectID       string
	InstanceID      string
	SecurityGroupID string
	PublicIP        string
	PrivateIP       string
}

// CreateResult carries the provider-side IDs assigned to a new machine.
type CreateResult struct {
	InstanceID      string
	SecurityGroupID string
	ReservationID   string
}

// Status is one observation of a machine's provider-side state.
// Terminal marks states the machine can never leave again, so the
// reconciliation loop stops trying to power it on.
type Status struct {
	RawState  string
	Power     PowerState
	Terminal  bool
	PublicIP  string
	PrivateIP string
}

// Rule is a firewall rule as the provider sees it.
type Rule struct {
	Proto    string
	FromPort int
	ToPort   int
	CIDR     string
}

// Adapter is implemented once per provider kind. All methods must be
// idempotent: the task runtime delivers at least once. Transient provider
// failures are reported by wrapping ErrTransient.
type Adapter interface {
	// Create brings up a machine and returns its provider IDs. Retried
	// calls for a machine that already has an instance ID must not create
	// a second instance.
	Create(ctx context.Context, machine Machine, extras string) (CreateResult, error)
	PowerOn(ctx context.Context, machine Machine) error
	PowerOff(ctx context.Context, machine Machine) error
	Reboot(ctx context.Context, machine Machine) error
	// Terminate and DeleteSecurityGroup tolerate missing provider IDs
	// and report success for them.
	Terminate(ctx context.Context, machine Machine) error
	DeleteSecurityGroup(ctx context.Context, machine Machine) error
	Status(ctx context.Context, machine Machine) (Status, error)
	// DNSAdd writes the public CNAME and private A record, replacing
	// existing records. DNSDelete removes both.
	DNSAdd(ctx context.Context, machine Machine) error
	DNSDelete(ctx context.Context, machine Machine) error
	AuthorizeFirewall(ctx context.Context, machine Machine, rule Rule) error
	RevokeFirewall(ctx context.Context, machine Machine, rule Rule) error
}
