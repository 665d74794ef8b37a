package enums

import "strings"

// LimitPolicy controls what happens when a non-premium user exhausts a
// feature's monthly quota.
type LimitPolicy string

const (
	// LimitPolicyDeny rejects the request outright.
	LimitPolicyDeny LimitPolicy = "deny"
	// LimitPolicyCharge lets the request through for a nominal fee.
	LimitPolicyCharge LimitPolicy = "charge"
)

func ParseLimitPolicy(value string) (LimitPolicy, bool) {
	switch LimitPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case LimitPolicyDeny:
		return LimitPolicyDeny, true
	case LimitPolicyCharge:
		return LimitPolicyCharge, true
	default:
		return "", false
	}
}
