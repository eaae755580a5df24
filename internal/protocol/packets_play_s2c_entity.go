package protocol

// SetEntityVelocity pushes an entity's velocity to viewers, in
// 1/8000ths of a block per tick per axis.
type SetEntityVelocity struct {
	EntityID         int32
	VelX, VelY, VelZ int16
}

func (p *SetEntityVelocity) PacketID() int32 { return 0x54 }

func (p *SetEntityVelocity) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.I16(p.VelX)
	w.I16(p.VelY)
	w.I16(p.VelZ)
}

func decodeSetEntityVelocity(r *Reader) Packet {
	return &SetEntityVelocity{EntityID: r.VarInt(), VelX: r.I16(), VelY: r.I16(), VelZ: r.I16()}
}

// SetHeadRotation turns an entity's head independently of its body.
type SetHeadRotation struct {
	EntityID int32
	HeadYaw  float32
}

func (p *SetHeadRotation) PacketID() int32 { return 0x44 }

func (p *SetHeadRotation) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.Angle(p.HeadYaw)
}

func decodeSetHeadRotation(r *Reader) Packet {
	return &SetHeadRotation{EntityID: r.VarInt(), HeadYaw: r.Angle()}
}

// AnimationKind is EntityAnimation's discriminant.
type AnimationKind uint8

const (
	AnimationSwingMainArm AnimationKind = 0
	AnimationLeaveBed     AnimationKind = 2
	AnimationSwingOffhand AnimationKind = 3
	AnimationCriticalHit  AnimationKind = 4
	AnimationMagicHit     AnimationKind = 5
)

// EntityAnimation plays a one-shot animation on an entity, most commonly
// the arm swing rebroadcast from another player's SwingArm.
type EntityAnimation struct {
	EntityID  int32
	Animation AnimationKind
}

func (p *EntityAnimation) PacketID() int32 { return 0x03 }

func (p *EntityAnimation) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.U8(uint8(p.Animation))
}

func decodeEntityAnimation(r *Reader) Packet {
	return &EntityAnimation{EntityID: r.VarInt(), Animation: AnimationKind(r.U8())}
}

// EntityEvent triggers one of the byte-coded per-entity status effects
// (hurt flash, death smoke, totem pop).
type EntityEvent struct {
	EntityID int32
	Status   int8
}

func (p *EntityEvent) PacketID() int32 { return 0x1C }

func (p *EntityEvent) Encode(w *Writer) {
	w.I32(p.EntityID)
	w.I8(p.Status)
}

func decodeEntityEvent(r *Reader) Packet {
	return &EntityEvent{EntityID: r.I32(), Status: r.I8()}
}

// DamageEvent tells viewers an entity took typed damage, optionally with
// a source entity and position.
type DamageEvent struct {
	EntityID         int32
	SourceTypeID     int32
	SourceCauseID    int32 // 0 = none; ids are offset by one on the wire
	SourceDirectID   int32
	HasSourcePos     bool
	SrcX, SrcY, SrcZ float64
}

func (p *DamageEvent) PacketID() int32 { return 0x18 }

func (p *DamageEvent) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.VarInt(p.SourceTypeID)
	w.VarInt(p.SourceCauseID)
	w.VarInt(p.SourceDirectID)
	w.Bool(p.HasSourcePos)
	if p.HasSourcePos {
		w.F64(p.SrcX)
		w.F64(p.SrcY)
		w.F64(p.SrcZ)
	}
}

func decodeDamageEvent(r *Reader) Packet {
	p := &DamageEvent{
		EntityID:       r.VarInt(),
		SourceTypeID:   r.VarInt(),
		SourceCauseID:  r.VarInt(),
		SourceDirectID: r.VarInt(),
		HasSourcePos:   r.Bool(),
	}
	if p.HasSourcePos {
		p.SrcX, p.SrcY, p.SrcZ = r.F64(), r.F64(), r.F64()
	}
	return p
}

// HurtAnimation tilts an entity's camera/model toward the damage source.
type HurtAnimation struct {
	EntityID int32
	Yaw      float32
}

func (p *HurtAnimation) PacketID() int32 { return 0x22 }

func (p *HurtAnimation) Encode(w *Writer) {
	w.VarInt(p.EntityID)
	w.F32(p.Yaw)
}

func decodeHurtAnimation(r *Reader) Packet {
	return &HurtAnimation{EntityID: r.VarInt(), Yaw: r.F32()}
}

// PickupItem animates an item entity flying into its collector.
type PickupItem struct {
	CollectedID int32
	CollectorID int32
	Count       int32
}

func (p *PickupItem) PacketID() int32 { return 0x67 }

func (p *PickupItem) Encode(w *Writer) {
	w.VarInt(p.CollectedID)
	w.VarInt(p.CollectorID)
	w.VarInt(p.Count)
}

func decodePickupItem(r *Reader) Packet {
	return &PickupItem{CollectedID: r.VarInt(), CollectorID: r.VarInt(), Count: r.VarInt()}
}

// SetExperience updates the client's XP bar.
type SetExperience struct {
	Bar   float32 // 0..1
	Level int32
	Total int32
}

func (p *SetExperience) PacketID() int32 { return 0x58 }

func (p *SetExperience) Encode(w *Writer) {
	w.F32(p.Bar)
	w.VarInt(p.Level)
	w.VarInt(p.Total)
}

func decodeSetExperience(r *Reader) Packet {
	return &SetExperience{Bar: r.F32(), Level: r.VarInt(), Total: r.VarInt()}
}

// SetHealth updates the client's own health/food HUD; health at or below
// zero triggers the death screen.
type SetHealth struct {
	Health     float32
	Food       int32
	Saturation float32
}

func (p *SetHealth) PacketID() int32 { return 0x59 }

func (p *SetHealth) Encode(w *Writer) {
	w.F32(p.Health)
	w.VarInt(p.Food)
	w.F32(p.Saturation)
}

func decodeSetHealth(r *Reader) Packet {
	return &SetHealth{Health: r.F32(), Food: r.VarInt(), Saturation: r.F32()}
}

// PlayerAbilities flag bits.
const (
	AbilityInvulnerable = 1 << 0
	AbilityFlying       = 1 << 1
	AbilityAllowFlying  = 1 << 2
	AbilityInstantBreak = 1 << 3
)

// PlayerAbilitiesS2C pushes the server-authoritative ability flags and
// speeds (flight, invulnerability) to the client.
type PlayerAbilitiesS2C struct {
	Flags       uint8
	FlyingSpeed float32
	FOVModifier float32
}

func (p *PlayerAbilitiesS2C) PacketID() int32 { return 0x34 }

func (p *PlayerAbilitiesS2C) Encode(w *Writer) {
	w.U8(p.Flags)
	w.F32(p.FlyingSpeed)
	w.F32(p.FOVModifier)
}

func decodePlayerAbilitiesS2C(r *Reader) Packet {
	return &PlayerAbilitiesS2C{Flags: r.U8(), FlyingSpeed: r.F32(), FOVModifier: r.F32()}
}

// SetHeldItemS2C forces the client's hotbar selection.
type SetHeldItemS2C struct {
	Slot int8
}

func (p *SetHeldItemS2C) PacketID() int32  { return 0x4D }
func (p *SetHeldItemS2C) Encode(w *Writer) { w.I8(p.Slot) }

func decodeSetHeldItemS2C(r *Reader) Packet { return &SetHeldItemS2C{Slot: r.I8()} }

func registerPlayClientboundEntity(reg *Registry) {
	reg.Register(StatePlay, Clientbound, (&EntityAnimation{}).PacketID(), "entity_animation", decodeEntityAnimation)
	reg.Register(StatePlay, Clientbound, (&DamageEvent{}).PacketID(), "damage_event", decodeDamageEvent)
	reg.Register(StatePlay, Clientbound, (&EntityEvent{}).PacketID(), "entity_event", decodeEntityEvent)
	reg.Register(StatePlay, Clientbound, (&HurtAnimation{}).PacketID(), "hurt_animation", decodeHurtAnimation)
	reg.Register(StatePlay, Clientbound, (&PlayerAbilitiesS2C{}).PacketID(), "player_abilities", decodePlayerAbilitiesS2C)
	reg.Register(StatePlay, Clientbound, (&SetHeadRotation{}).PacketID(), "set_head_rotation", decodeSetHeadRotation)
	reg.Register(StatePlay, Clientbound, (&SetHeldItemS2C{}).PacketID(), "set_held_item", decodeSetHeldItemS2C)
	reg.Register(StatePlay, Clientbound, (&SetEntityVelocity{}).PacketID(), "set_entity_velocity", decodeSetEntityVelocity)
	reg.Register(StatePlay, Clientbound, (&SetExperience{}).PacketID(), "set_experience", decodeSetExperience)
	reg.Register(StatePlay, Clientbound, (&SetHealth{}).PacketID(), "set_health", decodeSetHealth)
	reg.Register(StatePlay, Clientbound, (&PickupItem{}).PacketID(), "pickup_item", decodePickupItem)
}
