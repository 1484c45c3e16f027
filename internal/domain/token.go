package domain

import "time"

// TokenCodePrefix is the reserved prefix of every access code. Inbound text
// starting with it is always routed to the claim flow.
const TokenCodePrefix = "tk-"

// Token is a single-use, time-limited access code. A claimed, non-expired
// token makes its holder a subscriber.
type Token struct {
	ID        int64
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ClaimedBy *int64
}

// IsClaimed returns true if the token has been bound to a user.
func (t *Token) IsClaimed() bool {
	return t.ClaimedBy != nil
}

// IsClaimedBy returns true if the token is bound to the given chat user.
func (t *Token) IsClaimedBy(chatUserID int64) bool {
	return t.ClaimedBy != nil && *t.ClaimedBy == chatUserID
}

// ClaimOutcome describes the result of a claim attempt.
type ClaimOutcome string

// Claim outcomes.
const (
	// ClaimOutcomeClaimed means the token was unclaimed and is now bound
	// to the requester.
	ClaimOutcomeClaimed ClaimOutcome = "claimed"
	// ClaimOutcomeAlreadyYours means the requester re-sent a code that is
	// already bound to them. Idempotent, no state change.
	ClaimOutcomeAlreadyYours ClaimOutcome = "already_yours"
	// ClaimOutcomeBelongsToOther means the code is bound to someone else.
	// No state change, the binding is never reassigned.
	ClaimOutcomeBelongsToOther ClaimOutcome = "belongs_to_other"
	// ClaimOutcomeInvalid means the code is unknown.
	ClaimOutcomeInvalid ClaimOutcome = "invalid"
	// ClaimOutcomeAdminBypass means the admin sent an unclaimed code. The
	// admin never needs a subscription, so the token stays unclaimed.
	ClaimOutcomeAdminBypass ClaimOutcome = "admin_bypass"
	// ClaimOutcomeAlreadySubscribed means the requester already holds a
	// claimed token. One active subscription per user; the new token
	// stays unclaimed.
	ClaimOutcomeAlreadySubscribed ClaimOutcome = "already_subscribed"
)
