// Package bot maps inbound chat messages to bot operations: a pure parse
// step producing a command variant, a router enforcing admin/subscriber
// gating, and the webhook endpoint feeding it.
package bot

import (
	"strings"

	"github.com/dkotenko/stock-sentry/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// CommandKind identifies a parsed command.
type CommandKind int

// Command kinds.
const (
	CommandUnknown CommandKind = iota
	CommandStart
	CommandSubscribeInfo
	CommandRegistrationDate
	CommandListProducts
	CommandIssueToken
	CommandSubscriberCount
	CommandClaim
)

// Command is the parsed form of an inbound message. TokenCode is set only
// for CommandClaim.
type Command struct {
	Kind      CommandKind
	TokenCode string
}

// Parse maps message text to a command. Matching is exact after trimming
// and NFC normalization, except the reserved token prefix, which routes to
// the claim flow regardless of what follows it. Anything else is
// CommandUnknown, which the router ignores silently.
func Parse(text string) Command {
	text = norm.NFC.String(strings.TrimSpace(text))

	switch text {
	case "/start":
		return Command{Kind: CommandStart}
	case "/subscribe":
		return Command{Kind: CommandSubscribeInfo}
	case "/regdate":
		return Command{Kind: CommandRegistrationDate}
	case "/products":
		return Command{Kind: CommandListProducts}
	case "/newtoken":
		return Command{Kind: CommandIssueToken}
	case "/subscribers":
		return Command{Kind: CommandSubscriberCount}
	}

	if strings.HasPrefix(text, domain.TokenCodePrefix) {
		return Command{Kind: CommandClaim, TokenCode: text}
	}

	return Command{Kind: CommandUnknown}
}
