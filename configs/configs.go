// Package configs embeds the default runtime files written by the installer.
package configs

import "embed"

//go:embed messages.yaml
var FS embed.FS

const MessagesFile = "messages.yaml"
