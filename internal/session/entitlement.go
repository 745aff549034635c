package session

// CanAccess is the entitlement gate: free content is always accessible,
// premium content requires an active subscription. The engine consults it
// exactly once, before Start — a subscription lapsing mid-test does not
// interrupt the session.
func CanAccess(isPremiumContent, hasActiveSubscription bool) bool {
	if !isPremiumContent {
		return true
	}
	return hasActiveSubscription
}
