// Package modlog reports review decisions to the staff #mod-log channel and
// mirrors them to the structured log.
//
// Posting is best-effort: a decision has already been applied by the time it
// is logged here, so a missing channel or failed send must never surface to
// the actor or undo anything. Each decision carries a short id so the
// channel line and the zap entry can be correlated.
package modlog

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChannelName is the staff log channel the provisioning plan creates.
const ChannelName = "mod-log"

// Gateway is the slice of the platform client needed to post log lines.
type Gateway interface {
	Channels(guildID string) ([]*discordgo.Channel, error)
	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
}

// Logger posts decision entries for one guild.
type Logger struct {
	gw      Gateway
	guildID string
	log     *zap.Logger
}

// New creates a Logger for the given guild.
func New(gw Gateway, guildID string, log *zap.Logger) *Logger {
	return &Logger{gw: gw, guildID: guildID, log: log}
}

// Decision records one accept/deny outcome. outcome is a short past-tense
// phrase ("accepted as Member", "denied and kicked", "kick failed").
// A nil *Logger is valid and records nothing.
func (l *Logger) Decision(actorTag, targetTag, targetID, outcome string) {
	if l == nil {
		return
	}
	id := uuid.NewString()[:8]

	l.log.Info("review decision",
		zap.String("decision_id", id),
		zap.String("actor", actorTag),
		zap.String("target", targetTag),
		zap.String("target_id", targetID),
		zap.String("outcome", outcome))

	ch, err := l.channel()
	if err != nil {
		l.log.Warn("mod-log channel lookup failed", zap.Error(err))
		return
	}
	if ch == nil {
		l.log.Debug("mod-log channel not found, skipping channel entry")
		return
	}

	line := fmt.Sprintf("`%s` **%s** %s — %s (`%s`)", id, actorTag, outcome, targetTag, targetID)
	if _, err := l.gw.SendMessage(ch.ID, &discordgo.MessageSend{Content: line}); err != nil {
		l.log.Warn("mod-log post failed", zap.String("decision_id", id), zap.Error(err))
	}
}

func (l *Logger) channel() (*discordgo.Channel, error) {
	channels, err := l.gw.Channels(l.guildID)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, ChannelName) {
			return ch, nil
		}
	}
	return nil, nil
}
