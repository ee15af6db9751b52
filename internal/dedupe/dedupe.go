package dedupe

// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent enemy-generation requests. Using a centralized
// singleflight.Group ensures that only one generation job runs for a given
// key while other callers wait for the result.

import "golang.org/x/sync/singleflight"

// EnemyGroup deduplicates floor-enemy generation requests keyed by the
// player identity.
var EnemyGroup singleflight.Group
