// Package discord connects the roll service to Discord: prefix commands,
// inline rolling in chat, and the reaction-to-roll flow.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/ProperAttorney/avrae/internal/config"
	"github.com/ProperAttorney/avrae/internal/logger"
	"github.com/ProperAttorney/avrae/internal/rolls"
	"github.com/ProperAttorney/avrae/internal/store"
)

const inlineRollingEmoji = "\U0001F3B2"

// processedTTL bounds how long a message reaction stays claimed. After it
// lapses the message can be rolled again.
const processedTTL = 24 * time.Hour

// Bot is the Discord gateway adapter. It owns the session and routes
// message and reaction events to the roll service.
type Bot struct {
	logger  *slog.Logger
	session *discordgo.Session
	svc     *rolls.Service
	store   *store.Store

	prefix        string
	inlineEnabled bool
	reactOnly     bool
}

// NewBot builds the bot and its gateway session. The session is not
// opened; call Open on start.
func NewBot(log *slog.Logger, token, prefix string, inlineCfg config.InlineConfig, svc *rolls.Service, st *store.Store) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		logger:        log.With(slog.String("component", "discord")),
		session:       session,
		svc:           svc,
		store:         st,
		prefix:        prefix,
		inlineEnabled: inlineCfg.Enabled,
		reactOnly:     inlineCfg.ReactOnly,
	}
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onReactionAdd)
	return b, nil
}

// Open connects the gateway session.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	b.logger.Info("gateway connected")
	return nil
}

// Close disconnects the gateway session.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	ctx := b.eventContext(m.ChannelID, m.ID)

	if strings.HasPrefix(m.Content, b.prefix) {
		b.handleCommand(ctx, m)
		return
	}
	if !b.inlineEnabled || !rolls.HasInline(m.Content) {
		return
	}

	if b.reactOnly {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, inlineRollingEmoji); err != nil {
			logger.FromContext(ctx).Warn("reaction add failed", slog.Any("error", err))
			return
		}
		b.maybeOnboardReaction(ctx, m.Author)
		return
	}

	body := b.svc.InlineReply(ctx, m.Content)
	if body == "" {
		return
	}
	b.reply(ctx, m.ChannelID, m.Reference(), body)
	b.maybeOnboardMessage(ctx, m.Author)
}

// onReactionAdd rolls a message's inline expressions when its author
// clicks the dice reaction. A marker claims the message so repeated or
// concurrently delivered reactions roll it once.
func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if !b.inlineEnabled || !b.reactOnly {
		return
	}
	if r.Emoji.Name != inlineRollingEmoji {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}
	ctx := b.eventContext(r.ChannelID, r.MessageID)

	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		logger.FromContext(ctx).Warn("message fetch failed", slog.Any("error", err))
		return
	}
	// Only the author may trigger their own message.
	if msg.Author == nil || msg.Author.ID != r.UserID {
		return
	}
	if !rolls.HasInline(msg.Content) {
		return
	}

	key := fmt.Sprintf("inline_rolling.messages.%s.processed", msg.ID)
	claimed, err := b.store.SetMarkerIfAbsent(ctx, key, r.UserID, processedTTL)
	if err != nil {
		logger.FromContext(ctx).Error("marker claim failed", slog.Any("error", err))
		return
	}
	if !claimed {
		return
	}

	body := b.svc.InlineReply(ctx, msg.Content)
	if body == "" {
		return
	}
	b.reply(ctx, r.ChannelID, msg.Reference(), body)
}

// eventContext scopes the bot logger to one gateway event so every log
// line written while handling it carries the channel and message ids.
func (b *Bot) eventContext(channelID, messageID string) context.Context {
	return logger.WithContext(context.Background(), b.logger.With(
		slog.String("channel_id", channelID),
		slog.String("message_id", messageID),
	))
}

func (b *Bot) handleCommand(ctx context.Context, m *discordgo.MessageCreate) {
	name, args := splitCommand(strings.TrimPrefix(m.Content, b.prefix))
	var body string
	switch name {
	case "roll", "r":
		body = b.svc.Roll(ctx, args)
	case "2":
		body = b.svc.QuickRoll(ctx, args)
	case "multiroll", "rr":
		body = b.rollMany(ctx, args, false)
	case "iterroll", "rrr":
		body = b.rollMany(ctx, args, true)
	default:
		return
	}
	if body == "" {
		return
	}
	// The invocation is deleted, so mention the author instead of replying
	// to a message that may no longer exist.
	b.tryDelete(ctx, m.ChannelID, m.ID)
	b.reply(ctx, m.ChannelID, nil, m.Author.Mention()+"\n"+body)
}

// rollMany parses "<iterations> <dice...>" and, when withDC is set, a
// trailing DC argument: "<iterations> <dice...> <dc>".
func (b *Bot) rollMany(ctx context.Context, args string, withDC bool) string {
	fields := strings.Fields(args)
	minArgs := 2
	if withDC {
		minArgs = 3
	}
	if len(fields) < minArgs {
		return "Too many or too few iterations."
	}

	iterations, err := strconv.Atoi(fields[0])
	if err != nil {
		return "Too many or too few iterations."
	}

	var dc *int
	rest := fields[1:]
	if withDC {
		n, err := strconv.Atoi(rest[len(rest)-1])
		if err != nil {
			return "Invalid DC."
		}
		dc = &n
		rest = rest[:len(rest)-1]
	}

	input, adv := rolls.StripAdv(strings.Join(rest, " "))
	return b.svc.RollMany(ctx, iterations, input, dc, adv)
}

func (b *Bot) reply(ctx context.Context, channelID string, ref *discordgo.MessageReference, body string) {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         body,
		Reference:       ref,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	if err != nil {
		logger.FromContext(ctx).Warn("reply failed", slog.Any("error", err))
	}
}

// tryDelete removes the invoking command message when permissions allow.
func (b *Bot) tryDelete(ctx context.Context, channelID, messageID string) {
	if err := b.session.ChannelMessageDelete(channelID, messageID); err != nil {
		logger.FromContext(ctx).Debug("message delete failed", slog.Any("error", err))
	}
}

func splitCommand(s string) (name, args string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\n' || r == '\t' }); i >= 0 {
		return strings.ToLower(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return strings.ToLower(s), ""
}
