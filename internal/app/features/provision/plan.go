package provision

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/clanhq/warden/internal/app/features/joinreview"
	"github.com/clanhq/warden/internal/app/system/modlog"
)

// Channel and category names the plan provisions. Lookup during
// reconciliation is case-insensitive, so these are display forms.
const (
	StaffCategoryName  = "STAFF"
	ClanHQCategoryName = "CLAN HQ"

	WarAnnouncementsName = "war-announcements"
	WarChatName          = "war-chat"
	BaseLinksName        = "base-links"
	RecruitingName       = "recruiting"
	WarVoiceName         = "War VC"
	VerifyName           = "verify"
)

// ErrMissingRoleIDs aborts a provisioning run before any platform call when
// the required role ids are not configured.
var ErrMissingRoleIDs = errors.New("missing role ids: leader_role_id, coleader_role_id, member_role_id, and unverified_role_id must all be set (use /listroles to fetch them)")

// RoleIDs are the guild roles the plan references. Everyone is the guild's
// @everyone role (its id equals the guild id). Elder is optional; every
// other field is required.
type RoleIDs struct {
	Everyone   string
	Leader     string
	CoLeader   string
	Elder      string
	Member     string
	Unverified string
}

// Overwrite declares a permission overwrite for one role subject.
// Allow and Deny must not share bits; platform behavior is undefined when
// they overlap.
type Overwrite struct {
	RoleID string
	Allow  int64
	Deny   int64
}

// ChannelSpec declares one channel to ensure.
type ChannelSpec struct {
	Name       string
	Kind       discordgo.ChannelType
	Overwrites []Overwrite
}

// CategorySpec declares one category and the channels under it.
type CategorySpec struct {
	Name       string
	Overwrites []Overwrite
	Children   []ChannelSpec
}

// Plan is the declarative server layout: categories with their children,
// then top-level channels. Apply walks it in order.
type Plan struct {
	Categories []CategorySpec
	TopLevel   []ChannelSpec
}

// BuildPlan constructs the clan server layout for the given roles:
//
//   - STAFF (staff-only): #join-requests, #mod-log
//   - CLAN HQ (public): #war-announcements (staff-post-only), #war-chat,
//     #base-links, #recruiting (all hidden from Unverified), War VC
//   - #verify at top level, where Unverified members can type and everyone
//     else reads.
//
// It fails with ErrMissingRoleIDs before declaring anything when a required
// role id is absent.
func BuildPlan(ids RoleIDs) (Plan, error) {
	if ids.Leader == "" || ids.CoLeader == "" || ids.Member == "" || ids.Unverified == "" {
		return Plan{}, ErrMissingRoleIDs
	}
	if ids.Everyone == "" {
		return Plan{}, errors.New("missing @everyone role id")
	}

	const (
		view    = discordgo.PermissionViewChannel
		send    = discordgo.PermissionSendMessages
		history = discordgo.PermissionReadMessageHistory
		connect = discordgo.PermissionVoiceConnect
		speak   = discordgo.PermissionVoiceSpeak
	)

	staffOnly := []Overwrite{
		{RoleID: ids.Everyone, Deny: view},
		{RoleID: ids.Leader, Allow: view},
		{RoleID: ids.CoLeader, Allow: view},
	}

	announceOnly := []Overwrite{
		{RoleID: ids.Everyone, Allow: view | history, Deny: send},
		{RoleID: ids.Unverified, Allow: view, Deny: send},
		{RoleID: ids.Leader, Allow: view | send | history},
		{RoleID: ids.CoLeader, Allow: view | send | history},
	}

	membersOnly := []Overwrite{
		{RoleID: ids.Everyone, Allow: view | send | history},
		{RoleID: ids.Unverified, Deny: view},
	}

	membersVoice := []Overwrite{
		{RoleID: ids.Everyone, Allow: view | connect | speak},
		{RoleID: ids.Unverified, Deny: view},
	}

	verifyOver := []Overwrite{
		{RoleID: ids.Everyone, Allow: view | history, Deny: send},
		{RoleID: ids.Unverified, Allow: view | send | history},
		{RoleID: ids.Leader, Allow: view | history},
		{RoleID: ids.CoLeader, Allow: view | history},
		{RoleID: ids.Member, Allow: view | history},
	}
	if ids.Elder != "" {
		verifyOver = append(verifyOver, Overwrite{RoleID: ids.Elder, Allow: view | history})
	}

	plan := Plan{
		Categories: []CategorySpec{
			{
				Name:       StaffCategoryName,
				Overwrites: staffOnly,
				Children: []ChannelSpec{
					{Name: joinreview.InboxChannelName, Kind: discordgo.ChannelTypeGuildText, Overwrites: staffOnly},
					{Name: modlog.ChannelName, Kind: discordgo.ChannelTypeGuildText, Overwrites: staffOnly},
				},
			},
			{
				Name: ClanHQCategoryName,
				Children: []ChannelSpec{
					{Name: WarAnnouncementsName, Kind: discordgo.ChannelTypeGuildText, Overwrites: announceOnly},
					{Name: WarChatName, Kind: discordgo.ChannelTypeGuildText, Overwrites: membersOnly},
					{Name: BaseLinksName, Kind: discordgo.ChannelTypeGuildText, Overwrites: membersOnly},
					{Name: RecruitingName, Kind: discordgo.ChannelTypeGuildText, Overwrites: membersOnly},
					{Name: WarVoiceName, Kind: discordgo.ChannelTypeGuildVoice, Overwrites: membersVoice},
				},
			},
		},
		TopLevel: []ChannelSpec{
			{Name: VerifyName, Kind: discordgo.ChannelTypeGuildText, Overwrites: verifyOver},
		},
	}

	if err := plan.validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// validate rejects overwrites whose allow and deny masks overlap.
func (p Plan) validate() error {
	check := func(channel string, overwrites []Overwrite) error {
		for _, o := range overwrites {
			if o.Allow&o.Deny != 0 {
				return fmt.Errorf("channel %q role %s: allow and deny masks overlap (bits %#x)", channel, o.RoleID, o.Allow&o.Deny)
			}
		}
		return nil
	}
	for _, cat := range p.Categories {
		if err := check(cat.Name, cat.Overwrites); err != nil {
			return err
		}
		for _, ch := range cat.Children {
			if err := check(ch.Name, ch.Overwrites); err != nil {
				return err
			}
		}
	}
	for _, ch := range p.TopLevel {
		if err := check(ch.Name, ch.Overwrites); err != nil {
			return err
		}
	}
	return nil
}

func apiOverwrites(overwrites []Overwrite) []*discordgo.PermissionOverwrite {
	if len(overwrites) == 0 {
		return nil
	}
	out := make([]*discordgo.PermissionOverwrite, 0, len(overwrites))
	for _, o := range overwrites {
		out = append(out, &discordgo.PermissionOverwrite{
			ID:    o.RoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: o.Allow,
			Deny:  o.Deny,
		})
	}
	return out
}
