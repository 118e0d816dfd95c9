package fwrule

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"vimma/vimmad/config"
	"vimma/vimmad/util"
)

// A FirewallRule opens a port range on one VM's provider-side firewall
// for a source network. Rules classified as special expire sooner.
type FirewallRule struct {
	gorm.Model
	ID       string `gorm:"uniqueIndex;not null"`
	VMID     string `gorm:"index;not null"`
	Proto    string `gorm:"not null"`
	FromPort int
	ToPort   int
	CIDR     string `gorm:"not null"`
	// special means the source network is neither trusted nor small
	IsSpecial bool `gorm:"default:False;check:is_special IN (0,1)"`
}

func (r *FirewallRule) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func validate(r *FirewallRule) error {
	if r.Proto != "tcp" && r.Proto != "udp" {
		return errRuleBadProto
	}
	if r.FromPort < 0 || r.FromPort > 65535 || r.ToPort < 0 || r.ToPort > 65535 {
		return errRuleBadPort
	}
	if r.FromPort > r.ToPort {
		return errRuleBadPortRange
	}

	return nil
}

// Create validates, classifies and persists the rule. A rule is special
// unless its CIDR is contained in a trusted network or covers at most
// 256 addresses.
func Create(r *FirewallRule) error {
	if r.VMID == "" {
		return errRuleInvalid
	}
	if err := validate(r); err != nil {
		return err
	}

	special, err := util.IsSpecialCIDR(r.CIDR, config.Config.Firewall.TrustedNetworks)
	if err != nil {
		return err
	}
	r.IsSpecial = special

	db := GetFwRuleDB()
	if res := db.Create(r); res.Error != nil {
		return res.Error
	}

	return nil
}

func GetByID(id string) (*FirewallRule, error) {
	if id == "" {
		return nil, errRuleNotFound
	}

	var r FirewallRule

	db := GetFwRuleDB()
	db.Limit(1).Find(&r, &FirewallRule{ID: id})
	if r.ID == "" {
		return nil, errRuleNotFound
	}

	return &r, nil
}

// GetByVM returns all rules of one VM.
func GetByVM(vmID string) []*FirewallRule {
	var result []*FirewallRule

	db := GetFwRuleDB()
	db.Find(&result, &FirewallRule{VMID: vmID})

	return result
}

func (r *FirewallRule) Delete() error {
	db := GetFwRuleDB()
	res := db.Limit(1).Delete(&FirewallRule{ID: r.ID})
	if res.RowsAffected != 1 {
		return errRuleInternalDB
	}

	return nil
}
