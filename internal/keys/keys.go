package keys

import (
	"strings"
)

// EnemyKeyFromName produces the canonical bestiary key for an enemy name.
// Behavior: trims, lower-cases and replaces spaces with underscores so the
// same enemy generated with different casing maps to a single bestiary row.
func EnemyKeyFromName(name string) string {
	s := strings.TrimSpace(name)
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}
