package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/ProperAttorney/avrae/internal/logger"
)

// Onboarding DMs teach a user how inline rolling works the first time
// they trigger it. Each flow variant has its own one-shot flag; the flag
// is only recorded after the DM actually goes out, so a failed delivery
// retries on the next trigger.
const (
	onboardMessageFlag  = "inline_rolling.users.%s.onboarded.message"
	onboardReactionFlag = "inline_rolling.users.%s.onboarded.reaction"
)

func (b *Bot) maybeOnboardMessage(ctx context.Context, user *discordgo.User) {
	embed := &discordgo.MessageEmbed{
		Title: "Inline rolling is enabled here!",
		Description: "Whenever you send a message with some dice in double brackets " +
			"(e.g. `[[1d20+3]]`), I'll roll it for you and reply with the result.",
	}
	b.onboard(ctx, user, onboardMessageFlag, embed)
}

func (b *Bot) maybeOnboardReaction(ctx context.Context, user *discordgo.User) {
	embed := &discordgo.MessageEmbed{
		Title: "Inline rolling is enabled here!",
		Description: "Whenever you send a message with some dice in double brackets " +
			"(e.g. `[[1d20+3]]`), I'll react with " + inlineRollingEmoji + ". " +
			"Click the reaction to roll it and I'll reply with the result.",
	}
	b.onboard(ctx, user, onboardReactionFlag, embed)
}

func (b *Bot) onboard(ctx context.Context, user *discordgo.User, flagFmt string, embed *discordgo.MessageEmbed) {
	if user == nil {
		return
	}
	log := logger.FromContext(ctx)
	key := fmt.Sprintf(flagFmt, user.ID)
	seen, err := b.store.Flag(ctx, key)
	if err != nil {
		log.Warn("onboarding flag read failed", slog.Any("error", err))
		return
	}
	if seen {
		return
	}

	dm, err := b.session.UserChannelCreate(user.ID)
	if err != nil {
		log.Debug("dm channel create failed", slog.Any("error", err))
		return
	}
	if _, err := b.session.ChannelMessageSendEmbed(dm.ID, embed); err != nil {
		// DMs may be closed; try again on the next trigger.
		log.Debug("onboarding dm failed", slog.Any("error", err))
		return
	}
	if err := b.store.SetFlag(ctx, key); err != nil {
		log.Warn("onboarding flag write failed", slog.Any("error", err))
	}
}
