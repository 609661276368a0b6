// Package roles serves /listroles, which dumps every role id in the guild
// so staff can harvest them for the role-id configuration.
package roles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/clanhq/warden/internal/app/system/gates"
	"github.com/clanhq/warden/internal/app/system/respond"
)

// Gateway is the slice of the platform client the lister needs.
type Gateway interface {
	Roles(guildID string) ([]*discordgo.Role, error)
	respond.Responder
}

// Handler serves the /listroles command.
type Handler struct {
	gw  Gateway
	log *zap.Logger
}

// NewHandler constructs the role lister.
func NewHandler(gw Gateway, log *zap.Logger) *Handler {
	return &Handler{gw: gw, log: log}
}

var adminOnly int64 = discordgo.PermissionAdministrator

// Command declares /listroles for guild registration.
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "listroles",
		Description:              "Show all role IDs in this server.",
		DefaultMemberPermissions: &adminOnly,
	}
}

// HandleList replies ephemerally with every guild role as "name → `id`",
// highest role first.
func (h *Handler) HandleList(i *discordgo.Interaction) {
	if res := gates.RequireAdministrator(h.gw, i, "You need Administrator to use this."); !res.OK {
		return
	}

	guildRoles, err := h.gw.Roles(i.GuildID)
	if err != nil {
		h.log.Error("role listing failed", zap.String("guild_id", i.GuildID), zap.Error(err))
		_ = respond.Ephemeral(h.gw, i, "Couldn't fetch roles.")
		return
	}
	if len(guildRoles) == 0 {
		_ = respond.Ephemeral(h.gw, i, "No roles found.")
		return
	}

	sorted := make([]*discordgo.Role, len(guildRoles))
	copy(sorted, guildRoles)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Position > sorted[b].Position
	})

	lines := make([]string, 0, len(sorted))
	for _, r := range sorted {
		lines = append(lines, fmt.Sprintf("%s → `%s`", r.Name, r.ID))
	}
	_ = respond.Ephemeral(h.gw, i, strings.Join(lines, "\n"))
}
