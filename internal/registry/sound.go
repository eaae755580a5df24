package registry

// SoundID indexes a registered sound event, referenced by block-break/place
// feedback and entity-damage effects.
type SoundID int32

const (
	SoundBlockBreak SoundID = iota
	SoundBlockPlace
	SoundBlockStep
	SoundEntityDamage
	SoundEntityDeath
	SoundPlayerHurt
	SoundItemPickup
	SoundDoorOpen
	SoundDoorClose
)

var soundNames = map[SoundID]string{
	SoundBlockBreak:   "block.generic.break",
	SoundBlockPlace:   "block.generic.place",
	SoundBlockStep:    "block.generic.step",
	SoundEntityDamage: "entity.generic.hurt",
	SoundEntityDeath:  "entity.generic.death",
	SoundPlayerHurt:   "entity.player.hurt",
	SoundItemPickup:   "entity.item.pickup",
	SoundDoorOpen:     "block.door.open",
	SoundDoorClose:    "block.door.close",
}

// String returns the sound's registry name, or "unknown" for an
// unregistered value.
func (s SoundID) String() string {
	if n, ok := soundNames[s]; ok {
		return n
	}
	return "unknown"
}
