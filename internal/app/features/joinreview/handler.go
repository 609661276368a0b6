// Package joinreview runs the member-onboarding flow: tag new members
// Unverified, post a review card to the staff inbox, and apply the
// accept/deny decision a staff member picks on the card.
//
// All authoritative state lives in the platform; the handler keeps nothing
// between events except an in-process guard against concurrent decisions on
// the same member. Role adds and removes are individually idempotent, so a
// replayed decision cannot corrupt role state.
package joinreview

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/clanhq/warden/internal/app/system/gates"
	"github.com/clanhq/warden/internal/app/system/modlog"
	"github.com/clanhq/warden/internal/app/system/respond"
)

// Gateway is the slice of the platform client the review flow needs.
type Gateway interface {
	Channel(channelID string) (*discordgo.Channel, error)
	Channels(guildID string) ([]*discordgo.Channel, error)
	Member(guildID, userID string) (*discordgo.Member, error)
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	Kick(guildID, userID, reason string) error
	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	Message(channelID, messageID string) (*discordgo.Message, error)
	EditComponents(channelID, messageID string, components []discordgo.MessageComponent) error
	respond.Responder
}

// KickReason is the audit-log reason attached to deny removals.
const KickReason = "Denied on join by moderation"

// Config is the immutable operating snapshot for the review flow.
type Config struct {
	// GuildID filters join events when set; events from other guilds are
	// ignored.
	GuildID string
	// InboxChannelID short-circuits inbox resolution when set; otherwise
	// the inbox is found by name (InboxChannelName).
	InboxChannelID string

	CoLeaderRoleID   string
	ElderRoleID      string
	MemberRoleID     string
	UnverifiedRoleID string
}

// Handler reacts to member-joined events and review-card interactions.
type Handler struct {
	gw  Gateway
	cfg Config
	mod *modlog.Logger
	log *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewHandler constructs the review handler. mod may be nil to disable
// mod-log reporting.
func NewHandler(gw Gateway, cfg Config, mod *modlog.Logger, log *zap.Logger) *Handler {
	return &Handler{
		gw:       gw,
		cfg:      cfg,
		mod:      mod,
		log:      log,
		inflight: make(map[string]struct{}),
	}
}

// Command declares the /reviewcard test command for guild registration.
func Command() *discordgo.ApplicationCommand {
	var manageRoles int64 = discordgo.PermissionManageRoles
	return &discordgo.ApplicationCommand{
		Name:                     "reviewcard",
		Description:              "Post a sample join-review card (for testing).",
		DefaultMemberPermissions: &manageRoles,
	}
}

// MemberJoined handles a member-joined event: assign the Unverified role if
// the member lacks it, then post a review card to the inbox. A missing
// inbox skips the card silently; a failed role add is logged but does not
// block the card.
func (h *Handler) MemberJoined(m *discordgo.Member) {
	if m == nil || m.User == nil {
		return
	}
	guildID := m.GuildID
	if h.cfg.GuildID != "" && guildID != h.cfg.GuildID {
		return
	}

	if h.cfg.UnverifiedRoleID != "" && !hasRole(m, h.cfg.UnverifiedRoleID) {
		if err := h.gw.AddRole(guildID, m.User.ID, h.cfg.UnverifiedRoleID); err != nil {
			h.log.Warn("unverified role add failed",
				zap.String("user_id", m.User.ID),
				zap.Error(err))
		}
	}

	h.postCard(guildID, m)
}

// HandleReviewCard serves /reviewcard: posts a sample card targeting the
// invoking staff member.
func (h *Handler) HandleReviewCard(i *discordgo.Interaction) {
	res := gates.RequireManageRoles(h.gw, i, "You need Manage Roles to use this.")
	if !res.OK {
		return
	}
	if err := respond.Ephemeral(h.gw, i, "Posting a sample review card…"); err != nil {
		h.log.Warn("reviewcard acknowledgment failed", zap.Error(err))
	}
	h.postCard(i.GuildID, res.Actor)
}

// HandleDecision serves a button activation on a review card. The actor's
// Manage Roles permission is checked per activation; the target is resolved
// fresh from the platform. After any recognized decision the card's
// controls are re-fetched and re-rendered disabled, best-effort.
func (h *Handler) HandleDecision(i *discordgo.Interaction) {
	res := gates.RequireManageRoles(h.gw, i, "You need Manage Roles to do that.")
	if !res.OK {
		return
	}

	decision, targetID, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		h.log.Warn("malformed review control", zap.String("custom_id", i.MessageComponentData().CustomID))
		_ = respond.Ephemeral(h.gw, i, "Something went wrong.")
		return
	}

	if !h.begin(targetID) {
		_ = respond.Ephemeral(h.gw, i, "That join request is already being handled.")
		return
	}
	defer h.end(targetID)

	target, err := h.gw.Member(i.GuildID, targetID)
	if err != nil || target == nil || target.User == nil {
		_ = respond.Ephemeral(h.gw, i, "User not found (may have left).")
		return
	}

	actorTag := memberTag(res.Actor)
	switch decision {
	case decisionAcceptMember:
		h.grant(i, target, h.cfg.MemberRoleID, "Member", actorTag)
	case decisionAcceptElder:
		roleID := h.cfg.ElderRoleID
		if roleID == "" {
			roleID = h.cfg.MemberRoleID
		}
		h.grant(i, target, roleID, "Elder", actorTag)
	case decisionAcceptCo:
		h.grant(i, target, h.cfg.CoLeaderRoleID, "Co-Leader", actorTag)
	case decisionDeny:
		h.deny(i, target, actorTag)
	default:
		h.log.Warn("unknown review decision", zap.String("decision", decision))
		_ = respond.Ephemeral(h.gw, i, "Something went wrong.")
		return
	}

	h.disableCard(i)
}

// grant removes Unverified if present and adds the target role if absent.
// Both mutations are no-ops when the member is already in the desired
// state, and failures of either are cosmetic at this point: the decision
// stands and the actor gets the confirmation.
func (h *Handler) grant(i *discordgo.Interaction, target *discordgo.Member, roleID, label, actorTag string) {
	tag := memberTag(target)
	if h.cfg.UnverifiedRoleID != "" && hasRole(target, h.cfg.UnverifiedRoleID) {
		if err := h.gw.RemoveRole(i.GuildID, target.User.ID, h.cfg.UnverifiedRoleID); err != nil {
			h.log.Warn("unverified role removal failed", zap.String("user_id", target.User.ID), zap.Error(err))
		}
	}
	if roleID != "" && !hasRole(target, roleID) {
		if err := h.gw.AddRole(i.GuildID, target.User.ID, roleID); err != nil {
			h.log.Warn("role grant failed",
				zap.String("user_id", target.User.ID),
				zap.String("role_id", roleID),
				zap.Error(err))
		}
	}
	_ = respond.Ephemeral(h.gw, i, fmt.Sprintf("✔️ Set %s → %s", tag, label))
	h.mod.Decision(actorTag, tag, target.User.ID, "accepted as "+label)
}

// deny kicks the target. On failure the member keeps Unverified and stays
// pending; the failure is reported to the actor only.
func (h *Handler) deny(i *discordgo.Interaction, target *discordgo.Member, actorTag string) {
	tag := memberTag(target)
	if err := h.gw.Kick(i.GuildID, target.User.ID, KickReason); err != nil {
		h.log.Error("kick failed", zap.String("user_id", target.User.ID), zap.Error(err))
		_ = respond.Ephemeral(h.gw, i, fmt.Sprintf("Failed to kick %s. Keeping Unverified.", tag))
		h.mod.Decision(actorTag, tag, target.User.ID, "deny failed (kick rejected)")
		return
	}
	_ = respond.Ephemeral(h.gw, i, "🛑 Kicked "+tag)
	h.mod.Decision(actorTag, tag, target.User.ID, "denied and kicked")
}

// disableCard fetches the originating card fresh and re-renders its
// controls disabled. Purely cosmetic; failures never affect role changes
// already applied.
func (h *Handler) disableCard(i *discordgo.Interaction) {
	if i.Message == nil {
		return
	}
	msg, err := h.gw.Message(i.ChannelID, i.Message.ID)
	if err != nil {
		h.log.Warn("card fetch failed", zap.String("message_id", i.Message.ID), zap.Error(err))
		return
	}
	if err := h.gw.EditComponents(i.ChannelID, msg.ID, DisableComponents(msg.Components)); err != nil {
		h.log.Warn("card disable failed", zap.String("message_id", msg.ID), zap.Error(err))
	}
}

func (h *Handler) postCard(guildID string, m *discordgo.Member) {
	ch := h.inboxChannel(guildID)
	if ch == nil || ch.Type != discordgo.ChannelTypeGuildText {
		h.log.Debug("no inbox channel resolved, skipping review card", zap.String("guild_id", guildID))
		return
	}
	embed, components := Card(m.User.ID, memberTag(m))
	_, err := h.gw.SendMessage(ch.ID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		h.log.Warn("review card post failed",
			zap.String("channel_id", ch.ID),
			zap.String("user_id", m.User.ID),
			zap.Error(err))
	}
}

// inboxChannel resolves the review inbox: the configured id when it still
// points at a channel, otherwise the first text channel named
// InboxChannelName.
func (h *Handler) inboxChannel(guildID string) *discordgo.Channel {
	if h.cfg.InboxChannelID != "" {
		if ch, err := h.gw.Channel(h.cfg.InboxChannelID); err == nil && ch != nil {
			return ch
		}
	}
	channels, err := h.gw.Channels(guildID)
	if err != nil {
		h.log.Warn("channel listing failed", zap.String("guild_id", guildID), zap.Error(err))
		return nil
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, InboxChannelName) {
			return ch
		}
	}
	return nil
}

func (h *Handler) begin(targetID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[targetID]; busy {
		return false
	}
	h.inflight[targetID] = struct{}{}
	return true
}

func (h *Handler) end(targetID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, targetID)
}

func hasRole(m *discordgo.Member, roleID string) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

func memberTag(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return "unknown user"
	}
	return m.User.String()
}
