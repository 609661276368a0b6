package joinreview

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// InboxChannelName is the staff channel review cards are posted to when no
// channel id is configured.
const InboxChannelName = "join-requests"

// Decision custom-id prefixes. A button's custom id is "<decision>:<userID>"
// so the card itself carries everything needed to act on it.
const (
	decisionAcceptMember = "accept_member"
	decisionAcceptElder  = "accept_elder"
	decisionAcceptCo     = "accept_co"
	decisionDeny         = "deny"
)

// Card renders the review card for a pending member: an embed naming the
// member and one row of decision buttons. Pure; both the join-event path
// and the /reviewcard test command consume it.
func Card(userID, tag string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title:       "New Join Request",
		Description: fmt.Sprintf("<@%s> just joined.\n\nReview and choose a role:", userID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (%s)", tag, userID)},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return embed, reviewButtons(userID)
}

func reviewButtons(userID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Accept → Member",
					Style:    discordgo.SuccessButton,
					CustomID: decisionAcceptMember + ":" + userID,
				},
				discordgo.Button{
					Label:    "Accept → Elder",
					Style:    discordgo.PrimaryButton,
					CustomID: decisionAcceptElder + ":" + userID,
				},
				discordgo.Button{
					Label:    "Accept → Co-Leader",
					Style:    discordgo.SecondaryButton,
					CustomID: decisionAcceptCo + ":" + userID,
				},
				discordgo.Button{
					Label:    "Deny (Kick)",
					Style:    discordgo.DangerButton,
					CustomID: decisionDeny + ":" + userID,
				},
			},
		},
	}
}

// DisableComponents re-renders component rows with every button disabled,
// leaving non-button components untouched. It handles both the pointer and
// value forms discordgo produces depending on whether the rows came off the
// wire or were built locally.
func DisableComponents(rows []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		switch r := row.(type) {
		case *discordgo.ActionsRow:
			out = append(out, disableRow(*r))
		case discordgo.ActionsRow:
			out = append(out, disableRow(r))
		default:
			out = append(out, row)
		}
	}
	return out
}

func disableRow(row discordgo.ActionsRow) discordgo.ActionsRow {
	disabled := discordgo.ActionsRow{Components: make([]discordgo.MessageComponent, 0, len(row.Components))}
	for _, c := range row.Components {
		switch b := c.(type) {
		case *discordgo.Button:
			btn := *b
			btn.Disabled = true
			disabled.Components = append(disabled.Components, btn)
		case discordgo.Button:
			b.Disabled = true
			disabled.Components = append(disabled.Components, b)
		default:
			disabled.Components = append(disabled.Components, c)
		}
	}
	return disabled
}

// parseCustomID splits "<decision>:<userID>".
func parseCustomID(customID string) (decision, userID string, ok bool) {
	decision, userID, ok = strings.Cut(customID, ":")
	if !ok || decision == "" || userID == "" {
		return "", "", false
	}
	return decision, userID, true
}
