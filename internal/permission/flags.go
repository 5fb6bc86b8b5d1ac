package permission

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Flags maps platform permission flag names to their bits.
var Flags = map[string]int64{
	"CREATE_INSTANT_INVITE":               discordgo.PermissionCreateInstantInvite,
	"KICK_MEMBERS":                        discordgo.PermissionKickMembers,
	"BAN_MEMBERS":                         discordgo.PermissionBanMembers,
	"ADMINISTRATOR":                       discordgo.PermissionAdministrator,
	"MANAGE_CHANNELS":                     discordgo.PermissionManageChannels,
	"MANAGE_GUILD":                        discordgo.PermissionManageGuild,
	"ADD_REACTIONS":                       discordgo.PermissionAddReactions,
	"VIEW_AUDIT_LOG":                      discordgo.PermissionViewAuditLogs,
	"PRIORITY_SPEAKER":                    discordgo.PermissionVoicePrioritySpeaker,
	"STREAM":                              discordgo.PermissionVoiceStreamVideo,
	"VIEW_CHANNEL":                        discordgo.PermissionViewChannel,
	"SEND_MESSAGES":                       discordgo.PermissionSendMessages,
	"SEND_TTS_MESSAGES":                   discordgo.PermissionSendTTSMessages,
	"MANAGE_MESSAGES":                     discordgo.PermissionManageMessages,
	"EMBED_LINKS":                         discordgo.PermissionEmbedLinks,
	"ATTACH_FILES":                        discordgo.PermissionAttachFiles,
	"READ_MESSAGE_HISTORY":                discordgo.PermissionReadMessageHistory,
	"MENTION_EVERYONE":                    discordgo.PermissionMentionEveryone,
	"USE_EXTERNAL_EMOJIS":                 discordgo.PermissionUseExternalEmojis,
	"VIEW_GUILD_INSIGHTS":                 discordgo.PermissionViewGuildInsights,
	"CONNECT":                             discordgo.PermissionVoiceConnect,
	"SPEAK":                               discordgo.PermissionVoiceSpeak,
	"MUTE_MEMBERS":                        discordgo.PermissionVoiceMuteMembers,
	"DEAFEN_MEMBERS":                      discordgo.PermissionVoiceDeafenMembers,
	"MOVE_MEMBERS":                        discordgo.PermissionVoiceMoveMembers,
	"USE_VAD":                             discordgo.PermissionVoiceUseVAD,
	"CHANGE_NICKNAME":                     discordgo.PermissionChangeNickname,
	"MANAGE_NICKNAMES":                    discordgo.PermissionManageNicknames,
	"MANAGE_ROLES":                        discordgo.PermissionManageRoles,
	"MANAGE_WEBHOOKS":                     discordgo.PermissionManageWebhooks,
	"MANAGE_EMOJIS_AND_STICKERS":          discordgo.PermissionManageGuildExpressions,
	"USE_APPLICATION_COMMANDS":            discordgo.PermissionUseApplicationCommands,
	"REQUEST_TO_SPEAK":                    discordgo.PermissionVoiceRequestToSpeak,
	"MANAGE_EVENTS":                       discordgo.PermissionManageEvents,
	"MANAGE_THREADS":                      discordgo.PermissionManageThreads,
	"CREATE_PUBLIC_THREADS":               discordgo.PermissionCreatePublicThreads,
	"CREATE_PRIVATE_THREADS":              discordgo.PermissionCreatePrivateThreads,
	"USE_EXTERNAL_STICKERS":               discordgo.PermissionUseExternalStickers,
	"SEND_MESSAGES_IN_THREADS":            discordgo.PermissionSendMessagesInThreads,
	"START_EMBEDDED_ACTIVITIES":           discordgo.PermissionUseEmbeddedActivities,
	"MODERATE_MEMBERS":                    discordgo.PermissionModerateMembers,
	"VIEW_CREATOR_MONETIZATION_ANALYTICS": discordgo.PermissionViewCreatorMonetizationAnalytics,
	"USE_SOUNDBOARD":                      discordgo.PermissionUseSoundboard,
	"CREATE_GUILD_EXPRESSIONS":            discordgo.PermissionCreateGuildExpressions,
	"CREATE_EVENTS":                       discordgo.PermissionCreateEvents,
	"USE_EXTERNAL_SOUNDS":                 discordgo.PermissionUseExternalSounds,
	"SEND_VOICE_MESSAGES":                 discordgo.PermissionSendVoiceMessages,
	"SEND_POLLS":                          discordgo.PermissionSendPolls,
	"USE_EXTERNAL_APPS":                   discordgo.PermissionUseExternalApps,
}

// IsFlag reports whether name is a known flag name (exact, upper case).
func IsFlag(name string) bool {
	_, ok := Flags[name]
	return ok
}

// Bits resolves a flag name or a decimal bitfield string.
func Bits(atom string) (int64, bool) {
	if bits, ok := Flags[atom]; ok {
		return bits, true
	}
	if bits, err := strconv.ParseInt(atom, 10, 64); err == nil && bits >= 0 {
		return bits, true
	}
	return 0, false
}

// Label turns "MANAGE_MESSAGES" into "Manage Messages".
func Label(flag string) string {
	words := strings.Split(strings.ToLower(flag), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
