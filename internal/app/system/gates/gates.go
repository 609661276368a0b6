// Package gates provides authorization gates for interaction handlers.
// Gates check the acting member's guild permissions, send the ephemeral
// rejection themselves when the check fails, and return a Result so the
// handler can stop before any state change.
//
// Permissions are checked per activation against the computed permission
// set the platform attaches to the interaction; nothing is cached between
// activations, so a role change takes effect on the next click.
package gates

import (
	"github.com/bwmarrin/discordgo"

	"github.com/clanhq/warden/internal/app/system/respond"
)

// Result carries the outcome of a gate check.
type Result struct {
	// Actor is the guild member that triggered the interaction; nil when
	// the interaction arrived without member context (e.g. from a DM).
	Actor *discordgo.Member
	OK    bool
}

// RequireManageRoles ensures the acting member holds Manage Roles (or
// Administrator, which implies it). On failure it sends denyMsg
// ephemerally and returns OK=false.
func RequireManageRoles(r respond.Responder, i *discordgo.Interaction, denyMsg string) Result {
	return require(r, i, discordgo.PermissionManageRoles, denyMsg)
}

// RequireAdministrator ensures the acting member holds Administrator.
// On failure it sends denyMsg ephemerally and returns OK=false.
func RequireAdministrator(r respond.Responder, i *discordgo.Interaction, denyMsg string) Result {
	return require(r, i, discordgo.PermissionAdministrator, denyMsg)
}

func require(r respond.Responder, i *discordgo.Interaction, perm int64, denyMsg string) Result {
	m := i.Member
	if m == nil {
		_ = respond.Ephemeral(r, i, "This only works inside the server.")
		return Result{OK: false}
	}
	if m.Permissions&perm == 0 && m.Permissions&discordgo.PermissionAdministrator == 0 {
		_ = respond.Ephemeral(r, i, denyMsg)
		return Result{Actor: m, OK: false}
	}
	return Result{Actor: m, OK: true}
}
