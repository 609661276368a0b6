// Package testutil provides shared test scaffolding: a fake gateway that
// records every mutation and serves fixture guild state, plus builders for
// the discordgo values handlers consume.
package testutil

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// RoleCall records one role add or remove.
type RoleCall struct {
	GuildID string
	UserID  string
	RoleID  string
}

// KickCall records one member removal.
type KickCall struct {
	GuildID string
	UserID  string
	Reason  string
}

// SentMessage records one channel message send.
type SentMessage struct {
	ChannelID string
	Msg       *discordgo.MessageSend
}

// CreatedChannel records one channel creation.
type CreatedChannel struct {
	GuildID string
	Data    discordgo.GuildChannelCreateData
}

// ChannelEditCall records one channel edit.
type ChannelEditCall struct {
	ChannelID string
	Edit      *discordgo.ChannelEdit
}

// ComponentEdit records one message component replacement.
type ComponentEdit struct {
	ChannelID  string
	MessageID  string
	Components []discordgo.MessageComponent
}

// Reply records one interaction response or follow-up.
type Reply struct {
	Content   string
	Ephemeral bool
	FollowUp  bool
}

// FakeGateway implements the features' gateway interfaces. Behavior is
// customized per test through the *Func fields; unset fields fall back to
// benign defaults (empty listings, synthesized channels on create). Every
// mutating call is recorded regardless of the outcome the Func returns.
//
// The zero value is ready to use. All methods are safe for concurrent use.
type FakeGateway struct {
	mu sync.Mutex

	RolesFunc          func(guildID string) ([]*discordgo.Role, error)
	ChannelsFunc       func(guildID string) ([]*discordgo.Channel, error)
	ChannelFunc        func(channelID string) (*discordgo.Channel, error)
	MemberFunc         func(guildID, userID string) (*discordgo.Member, error)
	CreateChannelFunc  func(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	EditChannelFunc    func(channelID string, edit *discordgo.ChannelEdit) (*discordgo.Channel, error)
	AddRoleFunc        func(guildID, userID, roleID string) error
	RemoveRoleFunc     func(guildID, userID, roleID string) error
	KickFunc           func(guildID, userID, reason string) error
	SendMessageFunc    func(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	MessageFunc        func(channelID, messageID string) (*discordgo.Message, error)
	EditComponentsFunc func(channelID, messageID string, components []discordgo.MessageComponent) error

	Created        []CreatedChannel
	Edits          []ChannelEditCall
	RoleAdds       []RoleCall
	RoleRemovals   []RoleCall
	Kicks          []KickCall
	Sent           []SentMessage
	ComponentEdits []ComponentEdit
	Replies        []Reply

	nextID int
}

func (f *FakeGateway) Roles(guildID string) ([]*discordgo.Role, error) {
	if f.RolesFunc != nil {
		return f.RolesFunc(guildID)
	}
	return nil, nil
}

func (f *FakeGateway) Channels(guildID string) ([]*discordgo.Channel, error) {
	if f.ChannelsFunc != nil {
		return f.ChannelsFunc(guildID)
	}
	return nil, nil
}

func (f *FakeGateway) Channel(channelID string) (*discordgo.Channel, error) {
	if f.ChannelFunc != nil {
		return f.ChannelFunc(channelID)
	}
	return nil, fmt.Errorf("testutil: channel %s not found", channelID)
}

func (f *FakeGateway) Member(guildID, userID string) (*discordgo.Member, error) {
	if f.MemberFunc != nil {
		return f.MemberFunc(guildID, userID)
	}
	return nil, fmt.Errorf("testutil: member %s not found", userID)
}

func (f *FakeGateway) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	f.Created = append(f.Created, CreatedChannel{GuildID: guildID, Data: data})
	f.nextID++
	id := fmt.Sprintf("created-%d", f.nextID)
	f.mu.Unlock()

	if f.CreateChannelFunc != nil {
		return f.CreateChannelFunc(guildID, data)
	}
	return &discordgo.Channel{
		ID:                   id,
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}, nil
}

func (f *FakeGateway) EditChannel(channelID string, edit *discordgo.ChannelEdit) (*discordgo.Channel, error) {
	f.mu.Lock()
	f.Edits = append(f.Edits, ChannelEditCall{ChannelID: channelID, Edit: edit})
	f.mu.Unlock()

	if f.EditChannelFunc != nil {
		return f.EditChannelFunc(channelID, edit)
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *FakeGateway) AddRole(guildID, userID, roleID string) error {
	f.mu.Lock()
	f.RoleAdds = append(f.RoleAdds, RoleCall{GuildID: guildID, UserID: userID, RoleID: roleID})
	f.mu.Unlock()

	if f.AddRoleFunc != nil {
		return f.AddRoleFunc(guildID, userID, roleID)
	}
	return nil
}

func (f *FakeGateway) RemoveRole(guildID, userID, roleID string) error {
	f.mu.Lock()
	f.RoleRemovals = append(f.RoleRemovals, RoleCall{GuildID: guildID, UserID: userID, RoleID: roleID})
	f.mu.Unlock()

	if f.RemoveRoleFunc != nil {
		return f.RemoveRoleFunc(guildID, userID, roleID)
	}
	return nil
}

func (f *FakeGateway) Kick(guildID, userID, reason string) error {
	f.mu.Lock()
	f.Kicks = append(f.Kicks, KickCall{GuildID: guildID, UserID: userID, Reason: reason})
	f.mu.Unlock()

	if f.KickFunc != nil {
		return f.KickFunc(guildID, userID, reason)
	}
	return nil
}

func (f *FakeGateway) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, Msg: msg})
	f.mu.Unlock()

	if f.SendMessageFunc != nil {
		return f.SendMessageFunc(channelID, msg)
	}
	return &discordgo.Message{ID: "sent-1", ChannelID: channelID}, nil
}

func (f *FakeGateway) Message(channelID, messageID string) (*discordgo.Message, error) {
	if f.MessageFunc != nil {
		return f.MessageFunc(channelID, messageID)
	}
	return nil, fmt.Errorf("testutil: message %s not found", messageID)
}

func (f *FakeGateway) EditComponents(channelID, messageID string, components []discordgo.MessageComponent) error {
	f.mu.Lock()
	f.ComponentEdits = append(f.ComponentEdits, ComponentEdit{ChannelID: channelID, MessageID: messageID, Components: components})
	f.mu.Unlock()

	if f.EditComponentsFunc != nil {
		return f.EditComponentsFunc(channelID, messageID, components)
	}
	return nil
}

func (f *FakeGateway) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := Reply{}
	if resp.Data != nil {
		r.Content = resp.Data.Content
		r.Ephemeral = resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
	}
	f.Replies = append(f.Replies, r)
	return nil
}

func (f *FakeGateway) FollowUp(i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Replies = append(f.Replies, Reply{
		Content:   params.Content,
		Ephemeral: params.Flags&discordgo.MessageFlagsEphemeral != 0,
		FollowUp:  true,
	})
	return nil
}

// LastReply returns the most recent interaction reply, or a zero Reply if
// none was sent.
func (f *FakeGateway) LastReply() Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Replies) == 0 {
		return Reply{}
	}
	return f.Replies[len(f.Replies)-1]
}
