package util

import (
	"fmt"
	"math/big"
	"net/netip"
	"regexp"
)

// DNS-safe: alphanumeric with interior dashes, as required by providers
// which publish the VM name as a DNS record.
var vmNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

func ValidateVMName(name string) error {
	if name == "" || len(name) > 50 || !vmNameRegexp.MatchString(name) {
		return fmt.Errorf("%w: %s", errInvalidVMName, name)
	}

	return nil
}

func ContainsStr(elems []string, v string) bool {
	for _, s := range elems {
		if v == s {
			return true
		}
	}

	return false
}

// PrefixContains reports whether inner is fully contained in outer.
func PrefixContains(outer netip.Prefix, inner netip.Prefix) bool {
	return outer.Overlaps(inner) && outer.Bits() <= inner.Bits()
}

func prefixAddresses(p netip.Prefix) *big.Int {
	hostBits := p.Addr().BitLen() - p.Bits()

	return new(big.Int).Lsh(big.NewInt(1), uint(hostBits))
}

// IsSpecialCIDR classifies a firewall rule network. A network fully
// contained in a trusted network is never special; otherwise a network
// covering more than 256 addresses is special.
func IsSpecialCIDR(cidr string, trustedNetworks []string) (bool, error) {
	network, err := netip.ParsePrefix(cidr)
	if err != nil {
		return false, fmt.Errorf("%w: %w", errInvalidCIDR, err)
	}
	network = network.Masked()

	for _, trusted := range trustedNetworks {
		trustedNet, err := netip.ParsePrefix(trusted)
		if err != nil {
			return false, fmt.Errorf("%w: bad trusted network %s: %w", errInvalidCIDR, trusted, err)
		}
		if PrefixContains(trustedNet.Masked(), network) {
			return false, nil
		}
	}

	return prefixAddresses(network).Cmp(big.NewInt(256)) > 0, nil
}
