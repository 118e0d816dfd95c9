package fwrule

import "errors"

var errRuleNotFound = errors.New("firewall rule not found")
var errRuleInvalid = errors.New("firewall rule vm not specified")
var errRuleBadProto = errors.New("firewall rule protocol must be tcp or udp")
var errRuleBadPort = errors.New("firewall rule port out of range")
var errRuleBadPortRange = errors.New("firewall rule from port greater than to port")
var errRuleInternalDB = errors.New("internal firewall rule database error")
