//go:generate go run go.uber.org/mock/mockgen -destination=ec2_mocks.go -package=ec2 . EC2Client,DNSClient

// Package ec2 adapts an EC2-style cloud to the provider interface. The
// actual wire calls live behind the EC2Client and DNSClient interfaces so
// the adapter logic is testable without cloud credentials.
package ec2

import (
	"context"
	"fmt"

	"vimma/vimmad/provider"
)

// Instance is one described cloud instance.
type Instance struct {
	InstanceID string
	State      string
	PublicDNS  string
	PublicIP   string
	PrivateIP  string
}

type EC2Client interface {
	CreateSecurityGroup(ctx context.Context, name string, description string) (string, error)
	AuthorizeSecurityGroup(ctx context.Context, groupID string, proto string,
		fromPort int, toPort int, cidr string) error
	RevokeSecurityGroup(ctx context.Context, groupID string, proto string,
		fromPort int, toPort int, cidr string) error
	DeleteSecurityGroup(ctx context.Context, groupID string) error
	RunInstance(ctx context.Context, groupID string, extras string) (string, string, error)
	StartInstance(ctx context.Context, instanceID string) error
	StopInstance(ctx context.Context, instanceID string) error
	RebootInstance(ctx context.Context, instanceID string) error
	TerminateInstance(ctx context.Context, instanceID string) error
	DescribeInstance(ctx context.Context, instanceID string) (Instance, error)
	CreateTags(ctx context.Context, resourceID string, tags map[string]string) error
}

type DNSClient interface {
	UpsertCNAME(ctx context.Context, name string, target string) error
	UpsertA(ctx context.Context, name string, address string) error
	DeleteRecord(ctx context.Context, name string) error
}

type Adapter struct {
	ec2Client   EC2Client
	dnsClient   DNSClient
	publicZone  string
	privateZone string
}

func NewAdapter(ec2Client EC2Client, dnsClient DNSClient,
	publicZone string, privateZone string,
) *Adapter {
	return &Adapter{
		ec2Client:   ec2Client,
		dnsClient:   dnsClient,
		publicZone:  publicZone,
		privateZone: privateZone,
	}
}

// classifyState maps a raw EC2 instance state to a power state.
func classifyState(raw string) provider.PowerState {
	switch raw {
	case "pending", "running", "stopping", "shutting-down":
		return provider.PowerOn
	case "stopped", "terminated":
		return provider.PowerOff
	default:
		return provider.PowerUnknown
	}
}

// transient marks a cloud error as retryable.
func transient(err error) error {
	return fmt.Errorf("%w: %w", provider.ErrTransient, err)
}

func (a *Adapter) Create(ctx context.Context, machine provider.Machine,
	extras string,
) (provider.CreateResult, error) {
	// a retried create with an instance ID already recorded must not
	// launch a second instance
	if machine.InstanceID != "" {
		return provider.CreateResult{
			InstanceID:      machine.InstanceID,
			SecurityGroupID: machine.SecurityGroupID,
		}, nil
	}

	groupID := machine.SecurityGroupID
	if groupID == "" {
		var err error
		groupID, err = a.ec2Client.CreateSecurityGroup(ctx, machine.Name,
			"security group for "+machine.Name)
		if err != nil {
			return provider.CreateResult{}, transient(err)
		}
	}

	instanceID, reservationID, err := a.ec2Client.RunInstance(ctx, groupID, extras)
	if err != nil {
		return provider.CreateResult{SecurityGroupID: groupID}, transient(err)
	}

	// the instance exists at this point, tagging is best-effort
	_ = a.ec2Client.CreateTags(ctx, instanceID, map[string]string{
		"Name":    machine.Name,
		"Project": machine.ProjectID,
	})

	return provider.CreateResult{
		InstanceID:      instanceID,
		SecurityGroupID: groupID,
		ReservationID:   reservationID,
	}, nil
}

func (a *Adapter) PowerOn(ctx context.Context, machine provider.Machine) error {
	if machine.InstanceID == "" {
		return errNoInstanceID
	}
	if err := a.ec2Client.StartInstance(ctx, machine.InstanceID); err != nil {
		return transient(err)
	}

	return nil
}

func (a *Adapter) PowerOff(ctx context.Context, machine provider.Machine) error {
	if machine.InstanceID == "" {
		return errNoInstanceID
	}
	if err := a.ec2Client.StopInstance(ctx, machine.InstanceID); err != nil {
		return transient(err)
	}

	return nil
}

func (a *Adapter) Reboot(ctx context.Context, machine provider.Machine) error {
	if machine.InstanceID == "" {
		return errNoInstanceID
	}
	if err := a.ec2Client.RebootInstance(ctx, machine.InstanceID); err != nil {
		return transient(err)
	}

	return nil
}

// Terminate succeeds immediately when no instance ID was ever assigned.
func (a *Adapter) Terminate(ctx context.Context, machine provider.Machine) error {
	if machine.InstanceID == "" {
		return nil
	}
	if err := a.ec2Client.TerminateInstance(ctx, machine.InstanceID); err != nil {
		return transient(err)
	}

	return nil
}

// DeleteSecurityGroup succeeds immediately when no group ID was ever
// assigned.
func (a *Adapter) DeleteSecurityGroup(ctx context.Context, machine provider.Machine) error {
	if machine.SecurityGroupID == "" {
		return nil
	}
	if err := a.ec2Client.DeleteSecurityGroup(ctx, machine.SecurityGroupID); err != nil {
		return transient(err)
	}

	return nil
}

func (a *Adapter) Status(ctx context.Context, machine provider.Machine) (provider.Status, error) {
	if machine.InstanceID == "" {
		return provider.Status{RawState: "not-created", Power: provider.PowerUnknown}, nil
	}

	inst, err := a.ec2Client.DescribeInstance(ctx, machine.InstanceID)
	if err != nil {
		return provider.Status{}, transient(err)
	}

	return provider.Status{
		RawState:  inst.State,
		Power:     classifyState(inst.State),
		Terminal:  inst.State == "terminated",
		PublicIP:  inst.PublicIP,
		PrivateIP: inst.PrivateIP,
	}, nil
}

func (a *Adapter) publicName(machine provider.Machine) string {
	return machine.Name + "." + a.publicZone
}

func (a *Adapter) privateName(machine provider.Machine) string {
	return machine.Name + "." + a.privateZone
}

// DNSAdd writes the public CNAME and private A record for the machine,
// replacing existing records. If either write fails the whole call fails
// so the task retries both; the upserts make that safe.
func (a *Adapter) DNSAdd(ctx context.Context, machine provider.Machine) error {
	if machine.InstanceID == "" {
		return transient(errNoInstanceID)
	}

	inst, err := a.ec2Client.DescribeInstance(ctx, machine.InstanceID)
	if err != nil {
		return transient(err)
	}
	if inst.PublicDNS == "" || inst.PrivateIP == "" {
		// still booting
		return transient(errNoAddressYet)
	}

	if err := a.dnsClient.UpsertCNAME(ctx, a.publicName(machine), inst.PublicDNS); err != nil {
		return transient(err)
	}
	if err := a.dnsClient.UpsertA(ctx, a.privateName(machine), inst.PrivateIP); err != nil {
		return transient(err)
	}

	return nil
}

func (a *Adapter) DNSDelete(ctx context.Context, machine provider.Machine) error {
	if err := a.dnsClient.DeleteRecord(ctx, a.publicName(machine)); err != nil {
		return transient(err)
	}
	if err := a.dnsClient.DeleteRecord(ctx, a.privateName(machine)); err != nil {
		return transient(err)
	}

	return nil
}

func (a *Adapter) AuthorizeFirewall(ctx context.Context, machine provider.Machine,
	rule provider.Rule,
) error {
	if machine.SecurityGroupID == "" {
		return transient(errNoSecurityGroupID)
	}

	err := a.ec2Client.AuthorizeSecurityGroup(ctx, machine.SecurityGroupID,
		rule.Proto, rule.FromPort, rule.ToPort, rule.CIDR)
	if err != nil {
		return transient(err)
	}

	return nil
}

func (a *Adapter) RevokeFirewall(ctx context.Context, machine provider.Machine,
	rule provider.Rule,
) error {
	if machine.SecurityGroupID == "" {
		return nil
	}

	err := a.ec2Client.RevokeSecurityGroup(ctx, machine.SecurityGroupID,
		rule.Proto, rule.FromPort, rule.ToPort, rule.CIDR)
	if err != nil {
		return transient(err)
	}

	return nil
}
