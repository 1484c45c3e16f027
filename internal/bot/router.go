package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkotenko/stock-sentry/internal/catalog"
	"github.com/dkotenko/stock-sentry/internal/domain"
	"github.com/dkotenko/stock-sentry/internal/identity"
	"github.com/dkotenko/stock-sentry/internal/notify"
	"github.com/dkotenko/stock-sentry/internal/pkg/ctxlog"
	"github.com/dkotenko/stock-sentry/internal/subscription"
)

// Reply texts.
const (
	msgAdminNoSubscription = "You are the admin and do not need a subscription."
	msgRegisterFirst       = "Please register first."
	msgTokenNotFound       = "This code was not found. Please register first."
	msgTokenYours          = "This code is already yours."
	msgRestartBot          = "Something went wrong, please restart the bot with /start."
)

// Router executes parsed commands against the bot's services. All replies
// are fire-and-forget: a failed send is logged, never propagated.
type Router struct {
	identity     *identity.Service
	subs         *subscription.Service
	products     catalog.Repository
	sender       notify.Sender
	renderer     *notify.Renderer
	adminID      int64
	adminContact string
}

// NewRouter creates a new command router.
func NewRouter(
	identitySvc *identity.Service,
	subs *subscription.Service,
	products catalog.Repository,
	sender notify.Sender,
	renderer *notify.Renderer,
	adminID int64,
	adminContact string,
) *Router {
	return &Router{
		identity:     identitySvc,
		subs:         subs,
		products:     products,
		sender:       sender,
		renderer:     renderer,
		adminID:      adminID,
		adminContact: adminContact,
	}
}

// HandleUpdate routes one inbound update. Updates without a text message
// and unrecognized commands are silent no-ops.
func (r *Router) HandleUpdate(ctx context.Context, upd Update) {
	if upd.Message == nil || upd.Message.From == nil || upd.Message.Text == "" {
		return
	}

	userID := upd.Message.From.ID
	chatID := upd.Message.Chat.ID
	cmd := Parse(upd.Message.Text)

	switch cmd.Kind {
	case CommandStart:
		r.handleStart(ctx, userID, chatID)
	case CommandSubscribeInfo:
		r.handleSubscribeInfo(ctx, userID)
	case CommandRegistrationDate:
		r.handleRegistrationDate(ctx, userID)
	case CommandListProducts:
		r.handleListProducts(ctx, userID)
	case CommandIssueToken:
		r.handleIssueToken(ctx, userID)
	case CommandSubscriberCount:
		r.handleSubscriberCount(ctx, userID)
	case CommandClaim:
		r.handleClaim(ctx, cmd.TokenCode, userID)
	}
}

func (r *Router) isAdmin(userID int64) bool {
	return userID == r.adminID
}

func (r *Router) subscribeInstructions() string {
	return fmt.Sprintf("To subscribe and receive alerts, send a message to %s.", r.adminContact)
}

// reply sends text to the user and logs any transport failure.
func (r *Router) reply(ctx context.Context, userID int64, text string) {
	if err := r.sender.SendText(ctx, userID, text); err != nil {
		ctxlog.FromContext(ctx).Error("failed to send reply", "chat_user_id", userID, "error", err)
	}
}

// handleStart shows the command keyboard and registers the user on their
// first interaction. Repeated /start is registration-silent.
func (r *Router) handleStart(ctx context.Context, userID, chatID int64) {
	if err := r.sender.SendReplyKeyboard(ctx, chatID); err != nil {
		ctxlog.FromContext(ctx).Error("failed to send keyboard", "chat_id", chatID, "error", err)
	}

	created, err := r.identity.RegisterOnce(ctx, userID)
	if err != nil {
		ctxlog.FromContext(ctx).Error("failed to register user", "chat_user_id", userID, "error", err)
		return
	}
	if !created {
		return
	}

	if r.isAdmin(userID) {
		r.reply(ctx, userID, msgAdminNoSubscription)
		return
	}
	r.reply(ctx, userID, r.subscribeInstructions())
}

func (r *Router) handleSubscribeInfo(ctx context.Context, userID int64) {
	if r.isAdmin(userID) {
		r.reply(ctx, userID, msgAdminNoSubscription)
		return
	}
	r.reply(ctx, userID, r.subscribeInstructions())
}

func (r *Router) handleRegistrationDate(ctx context.Context, userID int64) {
	date, err := r.identity.RegistrationDate(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			r.reply(ctx, userID, msgRestartBot)
			return
		}
		ctxlog.FromContext(ctx).Error("failed to get registration date", "chat_user_id", userID, "error", err)
		return
	}

	r.reply(ctx, userID, "You registered on: "+date.UTC().Format("2006-01-02 15:04:05"))
}

// handleListProducts sends one message per stored product to admins and
// subscribers; everyone else gets the register prompt. A render or send
// failure for one product does not stop the rest.
func (r *Router) handleListProducts(ctx context.Context, userID int64) {
	if !r.isAdmin(userID) {
		subscribed, err := r.subs.IsSubscriber(ctx, userID)
		if err != nil {
			ctxlog.FromContext(ctx).Error("failed to check subscriber", "chat_user_id", userID, "error", err)
			return
		}
		if !subscribed {
			r.reply(ctx, userID, msgRegisterFirst)
			r.reply(ctx, userID, r.subscribeInstructions())
			return
		}
	}

	products, err := r.products.FindAllProducts(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Error("failed to list products", "error", err)
		return
	}

	for _, p := range products {
		text, err := r.renderer.ProductStatus(p)
		if err != nil {
			ctxlog.FromContext(ctx).Error("failed to render product", "product", p.Name, "error", err)
			continue
		}
		r.reply(ctx, userID, text)
	}
}

// handleIssueToken replies with a fresh code to the admin; silently
// ignored for everyone else.
func (r *Router) handleIssueToken(ctx context.Context, userID int64) {
	token, err := r.subs.IssueToken(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrNotAdmin) {
			return
		}
		ctxlog.FromContext(ctx).Error("failed to issue token", "error", err)
		return
	}

	r.reply(ctx, r.adminID, token.Code)
}

func (r *Router) handleSubscriberCount(ctx context.Context, userID int64) {
	if !r.isAdmin(userID) {
		return
	}

	count, err := r.subs.SubscriberCount(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Error("failed to count subscribers", "error", err)
		return
	}

	r.reply(ctx, r.adminID, fmt.Sprintf("There are %d subscribers.", count))
}

func (r *Router) handleClaim(ctx context.Context, code string, userID int64) {
	result, err := r.subs.Claim(ctx, code, userID)
	if err != nil {
		ctxlog.FromContext(ctx).Error("failed to claim token", "chat_user_id", userID, "error", err)
		return
	}

	switch result.Outcome {
	case domain.ClaimOutcomeInvalid:
		r.reply(ctx, userID, msgTokenNotFound)
		r.reply(ctx, userID, r.subscribeInstructions())
		return
	case domain.ClaimOutcomeAlreadyYours:
		r.reply(ctx, userID, msgTokenYours)
	}

	if result.ExpiryVisibleTo(userID, r.adminID) {
		expiry := result.Token.ExpiresAt.Format("2006-01-02")
		r.reply(ctx, userID, "Subscription expires on: "+expiry)
	}
}
