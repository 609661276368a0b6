// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/bwmarrin/discordgo"

	"github.com/clanhq/warden/internal/app/system/gateway"
)

// Deps holds back-end dependencies for the app: the Discord session and the
// gateway wrapper features consume.
type Deps struct {
	Session *discordgo.Session
	Gateway *gateway.Client
}
