package protocol

import "github.com/google/uuid"

// SystemChatMessage delivers a server-originated chat line (command
// output, join/leave notices). Overlay routes it to the hotbar area
// instead of the chat log.
type SystemChatMessage struct {
	ContentJSON string
	Overlay     bool
}

func (p *SystemChatMessage) PacketID() int32 { return 0x64 }

func (p *SystemChatMessage) Encode(w *Writer) {
	w.String(p.ContentJSON, MaxTextComponentChars)
	w.Bool(p.Overlay)
}

func decodeSystemChatMessage(r *Reader) Packet {
	return &SystemChatMessage{ContentJSON: r.String(MaxTextComponentChars), Overlay: r.Bool()}
}

// SetActionBarText shows a line of text above the hotbar.
type SetActionBarText struct {
	TextJSON string
}

func (p *SetActionBarText) PacketID() int32 { return 0x48 }

func (p *SetActionBarText) Encode(w *Writer) { w.String(p.TextJSON, MaxTextComponentChars) }

func decodeSetActionBarText(r *Reader) Packet {
	return &SetActionBarText{TextJSON: r.String(MaxTextComponentChars)}
}

// SetTitleText sets the large centered title; shown using the timings from
// SetTitleAnimationTimes.
type SetTitleText struct {
	TextJSON string
}

func (p *SetTitleText) PacketID() int32  { return 0x5D }
func (p *SetTitleText) Encode(w *Writer) { w.String(p.TextJSON, MaxTextComponentChars) }

func decodeSetTitleText(r *Reader) Packet {
	return &SetTitleText{TextJSON: r.String(MaxTextComponentChars)}
}

// SetSubtitleText sets the smaller line under the title.
type SetSubtitleText struct {
	TextJSON string
}

func (p *SetSubtitleText) PacketID() int32  { return 0x5B }
func (p *SetSubtitleText) Encode(w *Writer) { w.String(p.TextJSON, MaxTextComponentChars) }

func decodeSetSubtitleText(r *Reader) Packet {
	return &SetSubtitleText{TextJSON: r.String(MaxTextComponentChars)}
}

// SetTitleAnimationTimes controls title fade-in/stay/fade-out, in ticks.
type SetTitleAnimationTimes struct {
	FadeIn, Stay, FadeOut int32
}

func (p *SetTitleAnimationTimes) PacketID() int32 { return 0x5E }

func (p *SetTitleAnimationTimes) Encode(w *Writer) {
	w.I32(p.FadeIn)
	w.I32(p.Stay)
	w.I32(p.FadeOut)
}

func decodeSetTitleAnimationTimes(r *Reader) Packet {
	return &SetTitleAnimationTimes{FadeIn: r.I32(), Stay: r.I32(), FadeOut: r.I32()}
}

// ClearTitles removes any displayed title; Reset also clears the timings.
type ClearTitles struct {
	Reset bool
}

func (p *ClearTitles) PacketID() int32  { return 0x0C }
func (p *ClearTitles) Encode(w *Writer) { w.Bool(p.Reset) }

func decodeClearTitles(r *Reader) Packet { return &ClearTitles{Reset: r.Bool()} }

// SetTabListHeaderFooter frames the player list with header/footer text.
type SetTabListHeaderFooter struct {
	HeaderJSON string
	FooterJSON string
}

func (p *SetTabListHeaderFooter) PacketID() int32 { return 0x65 }

func (p *SetTabListHeaderFooter) Encode(w *Writer) {
	w.String(p.HeaderJSON, MaxTextComponentChars)
	w.String(p.FooterJSON, MaxTextComponentChars)
}

func decodeSetTabListHeaderFooter(r *Reader) Packet {
	return &SetTabListHeaderFooter{
		HeaderJSON: r.String(MaxTextComponentChars),
		FooterJSON: r.String(MaxTextComponentChars),
	}
}

// OpenScreen opens an inventory-style window of a registered screen kind.
type OpenScreen struct {
	WindowID  int32
	ScreenID  int32
	TitleJSON string
}

func (p *OpenScreen) PacketID() int32 { return 0x2D }

func (p *OpenScreen) Encode(w *Writer) {
	w.VarInt(p.WindowID)
	w.VarInt(p.ScreenID)
	w.String(p.TitleJSON, MaxTextComponentChars)
}

func decodeOpenScreen(r *Reader) Packet {
	return &OpenScreen{
		WindowID:  r.VarInt(),
		ScreenID:  r.VarInt(),
		TitleJSON: r.String(MaxTextComponentChars),
	}
}

// CloseContainerS2C force-closes the client's open window.
type CloseContainerS2C struct {
	WindowID uint8
}

func (p *CloseContainerS2C) PacketID() int32  { return 0x11 }
func (p *CloseContainerS2C) Encode(w *Writer) { w.U8(p.WindowID) }

func decodeCloseContainerS2C(r *Reader) Packet {
	return &CloseContainerS2C{WindowID: r.U8()}
}

// PlayerInfoRemove drops entries from the client's player list.
type PlayerInfoRemove struct {
	UUIDs []uuid.UUID
}

func (p *PlayerInfoRemove) PacketID() int32 { return 0x39 }

func (p *PlayerInfoRemove) Encode(w *Writer) {
	w.VarInt(int32(len(p.UUIDs)))
	for _, id := range p.UUIDs {
		w.UUID(id)
	}
}

func decodePlayerInfoRemove(r *Reader) Packet {
	n := r.VarInt()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = r.UUID()
	}
	return &PlayerInfoRemove{UUIDs: ids}
}

// PluginMessageS2C carries a mod/plugin channel payload; the body is
// whatever the channel's own protocol defines.
type PluginMessageS2C struct {
	Channel string
	Data    []byte
}

func (p *PluginMessageS2C) PacketID() int32 { return 0x17 }

func (p *PluginMessageS2C) Encode(w *Writer) {
	w.String(p.Channel, 0)
	w.ByteSlice(p.Data)
}

func decodePluginMessageS2C(r *Reader) Packet {
	return &PluginMessageS2C{Channel: r.String(0), Data: r.ByteSlice(r.Remaining())}
}

// ChangeDifficulty announces the world difficulty and whether it is
// locked.
type ChangeDifficulty struct {
	Difficulty uint8
	Locked     bool
}

func (p *ChangeDifficulty) PacketID() int32 { return 0x0B }

func (p *ChangeDifficulty) Encode(w *Writer) {
	w.U8(p.Difficulty)
	w.Bool(p.Locked)
}

func decodeChangeDifficulty(r *Reader) Packet {
	return &ChangeDifficulty{Difficulty: r.U8(), Locked: r.Bool()}
}

func registerPlayClientboundUI(reg *Registry) {
	reg.Register(StatePlay, Clientbound, (&ChangeDifficulty{}).PacketID(), "change_difficulty", decodeChangeDifficulty)
	reg.Register(StatePlay, Clientbound, (&ClearTitles{}).PacketID(), "clear_titles", decodeClearTitles)
	reg.Register(StatePlay, Clientbound, (&CloseContainerS2C{}).PacketID(), "close_container", decodeCloseContainerS2C)
	reg.Register(StatePlay, Clientbound, (&PluginMessageS2C{}).PacketID(), "plugin_message", decodePluginMessageS2C)
	reg.Register(StatePlay, Clientbound, (&OpenScreen{}).PacketID(), "open_screen", decodeOpenScreen)
	reg.Register(StatePlay, Clientbound, (&PlayerInfoRemove{}).PacketID(), "player_info_remove", decodePlayerInfoRemove)
	reg.Register(StatePlay, Clientbound, (&SetActionBarText{}).PacketID(), "set_action_bar_text", decodeSetActionBarText)
	reg.Register(StatePlay, Clientbound, (&SetSubtitleText{}).PacketID(), "set_subtitle_text", decodeSetSubtitleText)
	reg.Register(StatePlay, Clientbound, (&SetTitleText{}).PacketID(), "set_title_text", decodeSetTitleText)
	reg.Register(StatePlay, Clientbound, (&SetTitleAnimationTimes{}).PacketID(), "set_title_animation_times", decodeSetTitleAnimationTimes)
	reg.Register(StatePlay, Clientbound, (&SystemChatMessage{}).PacketID(), "system_chat_message", decodeSystemChatMessage)
	reg.Register(StatePlay, Clientbound, (&SetTabListHeaderFooter{}).PacketID(), "set_tab_list_header_footer", decodeSetTabListHeaderFooter)
}
