package registry

import (
	"encoding/binary"
	"math"
	"sort"
	"sync"
)

// The registry codec is the NBT compound LoginPlay hands the client: the
// dimension-type, biome, chat-type, and damage-type tables it caches for
// the session. Everywhere else NBT is an opaque pass-through blob; this
// file is the one producer, so the tag writing lives here rather than in
// a general serializer.

const (
	nbtEnd      = 0x00
	nbtByte     = 0x01
	nbtInt      = 0x03
	nbtFloat    = 0x05
	nbtDouble   = 0x06
	nbtString   = 0x08
	nbtList     = 0x09
	nbtCompound = 0x0A
)

type nbtWriter struct{ buf []byte }

func (w *nbtWriter) raw(b ...byte) { w.buf = append(w.buf, b...) }

func (w *nbtWriter) str(s string) {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(s)))
	w.raw(l[:]...)
	w.buf = append(w.buf, s...)
}

func (w *nbtWriter) name(tag byte, n string) {
	w.raw(tag)
	w.str(n)
}

func (w *nbtWriter) byteTag(n string, v byte) { w.name(nbtByte, n); w.raw(v) }
func (w *nbtWriter) stringTag(n, v string)    { w.name(nbtString, n); w.str(v) }
func (w *nbtWriter) compoundTag(n string)     { w.name(nbtCompound, n) }
func (w *nbtWriter) end()                     { w.raw(nbtEnd) }

func (w *nbtWriter) intTag(n string, v int32) {
	w.name(nbtInt, n)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.raw(b[:]...)
}

func (w *nbtWriter) floatTag(n string, v float32) {
	w.name(nbtFloat, n)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	w.raw(b[:]...)
}

func (w *nbtWriter) doubleTag(n string, v float64) {
	w.name(nbtDouble, n)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.raw(b[:]...)
}

// listOfCompounds writes the list header for n compound elements; the
// caller then writes each element's payload followed by end().
func (w *nbtWriter) listOfCompounds(n string, count int) {
	w.name(nbtList, n)
	w.raw(nbtCompound)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(count))
	w.raw(b[:]...)
}

// registryHeader opens one `{type, value: [...]}` registry compound.
func (w *nbtWriter) registryHeader(name string, count int) {
	w.compoundTag(name)
	w.stringTag("type", name)
	w.listOfCompounds("value", count)
}

// entryHeader opens one `{name, id, element: {...}}` registry entry.
func (w *nbtWriter) entryHeader(name string, id int32) {
	w.stringTag("name", name)
	w.intTag("id", id)
	w.compoundTag("element")
}

// damageTypes is the full vanilla catalog; the client refuses to join if
// any referenced id is missing, so the whole list ships even though this
// core never deals damage itself.
var damageTypes = []string{
	"arrow", "bad_respawn_point", "cactus", "cramming", "dragon_breath",
	"drown", "dry_out", "explosion", "fall", "falling_anvil",
	"falling_block", "falling_stalactite", "fireball", "fireworks",
	"fly_into_wall", "freeze", "generic", "generic_kill", "hot_floor",
	"in_fire", "in_wall", "indirect_magic", "lava", "lightning_bolt",
	"magic", "mob_attack", "mob_attack_no_aggro", "mob_projectile",
	"on_fire", "out_of_world", "outside_border", "player_attack",
	"player_explosion", "sonic_boom", "stalagmite", "starve",
	"sweet_berry_bush", "thorns", "thrown", "trident",
	"unattributed_fireball", "wither", "wither_skull",
}

var (
	codecOnce sync.Once
	codecBlob []byte
)

// CodecBlob returns the registry codec compound sent in LoginPlay. Built
// once; the result is shared and must not be mutated.
func CodecBlob() []byte {
	codecOnce.Do(func() { codecBlob = buildCodec() })
	return codecBlob
}

func buildCodec() []byte {
	w := &nbtWriter{}
	w.raw(nbtCompound)
	w.str("") // unnamed root

	w.registryHeader("minecraft:dimension_type", 1)
	w.entryHeader("minecraft:overworld", 0)
	w.byteTag("piglin_safe", 0)
	w.byteTag("natural", 1)
	w.floatTag("ambient_light", 0)
	w.intTag("monster_spawn_light_level", 0)
	w.intTag("monster_spawn_block_light_limit", 0)
	w.stringTag("infiniburn", "#minecraft:infiniburn_overworld")
	w.byteTag("respawn_anchor_works", 0)
	w.byteTag("has_skylight", 1)
	w.byteTag("bed_works", 1)
	w.stringTag("effects", "minecraft:overworld")
	w.byteTag("has_raids", 1)
	w.intTag("logical_height", 384)
	w.doubleTag("coordinate_scale", 1)
	w.byteTag("ultrawarm", 0)
	w.byteTag("has_ceiling", 0)
	w.intTag("min_y", -64)
	w.intTag("height", 384)
	w.end() // element
	w.end() // entry
	w.end() // registry

	biomes := make([]BiomeID, 0, len(biomeNames))
	for id := range biomeNames {
		biomes = append(biomes, id)
	}
	sort.Slice(biomes, func(i, j int) bool { return biomes[i] < biomes[j] })
	w.registryHeader("minecraft:worldgen/biome", len(biomes))
	for _, id := range biomes {
		w.entryHeader("minecraft:"+biomeNames[id], int32(id))
		w.byteTag("has_precipitation", 1)
		w.floatTag("temperature", 0.8)
		w.floatTag("downfall", 0.4)
		w.compoundTag("effects")
		w.intTag("sky_color", 0x78A7FF)
		w.intTag("water_fog_color", 0x050533)
		w.intTag("fog_color", 0xC0D8FF)
		w.intTag("water_color", 0x3F76E4)
		w.end() // effects
		w.end() // element
		w.end() // entry
	}
	w.end() // registry

	w.registryHeader("minecraft:chat_type", 1)
	w.entryHeader("minecraft:chat", 0)
	w.compoundTag("chat")
	w.stringTag("translation_key", "chat.type.text")
	w.listOfCompounds("parameters", 0)
	w.end() // chat
	w.compoundTag("narration")
	w.stringTag("translation_key", "chat.type.text.narrate")
	w.listOfCompounds("parameters", 0)
	w.end() // narration
	w.end() // element
	w.end() // entry
	w.end() // registry

	w.registryHeader("minecraft:damage_type", len(damageTypes))
	for i, name := range damageTypes {
		w.entryHeader("minecraft:"+name, int32(i))
		w.stringTag("message_id", name)
		w.stringTag("scaling", "when_caused_by_living_non_player")
		w.floatTag("exhaustion", 0)
		w.end() // element
		w.end() // entry
	}
	w.end() // registry

	w.end() // root
	return w.buf
}
