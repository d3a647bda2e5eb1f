package engine

import "time"

// nowMillis stamps wall-clock-dependent records (DamageEvent.Timestamp)
// — the one place the deterministic core touches real time, since
// damage-event expiry is a host/UI concern, not part of world state
// determinism (spec §3, §8).
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
