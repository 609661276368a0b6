// Package provision ensures the guild's category/channel layout and
// permission overwrites match a declarative plan.
//
// Every ensure call is an idempotent find-or-create: an existing channel of
// the right kind and name (case-insensitive) is reconciled to the declared
// parent and overwrites, otherwise it is created with them. Creation
// failures abort the run; reconciliation failures are cosmetic and only
// logged, per the error policy in the rest of the bot.
package provision

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the slice of the platform client the engine needs.
type Gateway interface {
	Channels(guildID string) ([]*discordgo.Channel, error)
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	EditChannel(channelID string, edit *discordgo.ChannelEdit) (*discordgo.Channel, error)
}

// Engine runs one provisioning pass against a guild. Create one per run;
// the name index is a snapshot built from a fresh listing on first use and
// is not refreshed afterwards.
type Engine struct {
	gw      Gateway
	guildID string
	log     *zap.Logger
	index   map[indexKey]*discordgo.Channel
}

type indexKey struct {
	kind discordgo.ChannelType
	name string
}

// NewEngine creates an engine for one provisioning run. All log entries for
// the run share a generated run id.
func NewEngine(gw Gateway, guildID string, log *zap.Logger) *Engine {
	return &Engine{
		gw:      gw,
		guildID: guildID,
		log:     log.With(zap.String("provision_run", uuid.NewString()[:8])),
	}
}

// Apply walks the plan in order: each category, its children under it, then
// top-level channels. The first creation failure aborts the remaining
// sequence.
func (e *Engine) Apply(plan Plan) error {
	for _, cat := range plan.Categories {
		category, err := e.EnsureCategory(cat.Name, cat.Overwrites)
		if err != nil {
			return err
		}
		for _, ch := range cat.Children {
			if _, err := e.EnsureChannel(ch.Kind, ch.Name, category.ID, ch.Overwrites); err != nil {
				return err
			}
		}
	}
	for _, ch := range plan.TopLevel {
		if _, err := e.EnsureChannel(ch.Kind, ch.Name, "", ch.Overwrites); err != nil {
			return err
		}
	}
	e.log.Info("provisioning complete")
	return nil
}

// EnsureCategory finds or creates a category by name and reconciles its
// overwrites.
func (e *Engine) EnsureCategory(name string, overwrites []Overwrite) (*discordgo.Channel, error) {
	return e.ensure(discordgo.ChannelTypeGuildCategory, name, "", overwrites)
}

// EnsureChannel finds or creates a channel of the given kind by name and
// reconciles its parent and overwrites. An empty parentID leaves the
// existing parent alone.
func (e *Engine) EnsureChannel(kind discordgo.ChannelType, name, parentID string, overwrites []Overwrite) (*discordgo.Channel, error) {
	return e.ensure(kind, name, parentID, overwrites)
}

func (e *Engine) ensure(kind discordgo.ChannelType, name, parentID string, overwrites []Overwrite) (*discordgo.Channel, error) {
	if err := e.buildIndex(); err != nil {
		return nil, err
	}

	key := indexKey{kind: kind, name: strings.ToLower(name)}
	if ch := e.index[key]; ch != nil {
		e.reconcile(ch, parentID, overwrites)
		return ch, nil
	}

	ch, err := e.gw.CreateChannel(e.guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 kind,
		ParentID:             parentID,
		PermissionOverwrites: apiOverwrites(overwrites),
	})
	if err != nil {
		return nil, fmt.Errorf("create channel %q: %w", name, err)
	}
	e.index[key] = ch
	e.log.Info("channel created",
		zap.String("name", name),
		zap.Int("kind", int(kind)),
		zap.String("channel_id", ch.ID))
	return ch, nil
}

// reconcile moves an existing channel under the declared parent and
// replaces its overwrites with the declared list. Both edits are cosmetic:
// failures are logged and the run continues. The overwrite replacement is a
// full replace, so manually added overwrites are cleared.
func (e *Engine) reconcile(ch *discordgo.Channel, parentID string, overwrites []Overwrite) {
	if parentID != "" && ch.ParentID != parentID {
		if _, err := e.gw.EditChannel(ch.ID, &discordgo.ChannelEdit{ParentID: parentID}); err != nil {
			e.log.Warn("parent move failed",
				zap.String("name", ch.Name),
				zap.String("parent_id", parentID),
				zap.Error(err))
		} else {
			ch.ParentID = parentID
		}
	}
	if len(overwrites) > 0 {
		if _, err := e.gw.EditChannel(ch.ID, &discordgo.ChannelEdit{PermissionOverwrites: apiOverwrites(overwrites)}); err != nil {
			e.log.Warn("overwrite update failed", zap.String("name", ch.Name), zap.Error(err))
		}
	}
}

// buildIndex snapshots the guild's channels into a (kind, lowercased name)
// index. Duplicate names are a pre-existing data-quality issue the engine
// does not resolve; it picks a deterministic winner (lowest position, then
// lowest id) and logs the rest.
func (e *Engine) buildIndex() error {
	if e.index != nil {
		return nil
	}
	channels, err := e.gw.Channels(e.guildID)
	if err != nil {
		return fmt.Errorf("list channels: %w", err)
	}
	e.index = make(map[indexKey]*discordgo.Channel, len(channels))
	for _, ch := range channels {
		key := indexKey{kind: ch.Type, name: strings.ToLower(ch.Name)}
		cur := e.index[key]
		if cur == nil {
			e.index[key] = ch
			continue
		}
		if ch.Position < cur.Position || (ch.Position == cur.Position && ch.ID < cur.ID) {
			e.index[key] = ch
			cur, ch = ch, cur
		}
		e.log.Warn("duplicate channel name in guild",
			zap.String("name", ch.Name),
			zap.String("kept", cur.ID),
			zap.String("ignored", ch.ID))
	}
	return nil
}
