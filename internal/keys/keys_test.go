package keys

import "testing"

func TestEnemyKeyFromName(t *testing.T) {
	cases := map[string]string{
		"Tower Rat":        "tower_rat",
		"  Mirror Warden ": "mirror_warden",
		"HOLLOW KNIGHT":    "hollow_knight",
		"slime":            "slime",
	}
	for in, want := range cases {
		if got := EnemyKeyFromName(in); got != want {
			t.Fatalf("EnemyKeyFromName(%q): expected %q, got %q", in, want, got)
		}
	}
}
