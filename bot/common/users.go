package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// displayNameCache avoids a guild-member fetch on every interaction. Entries
// are refreshed whenever a command arrives with a member payload attached.
var displayNameCache *lru.Cache

func init() {
	var err error
	displayNameCache, err = lru.New(2048)
	if err != nil {
		panic(fmt.Sprintf("failed to create display name cache: %v", err))
	}
}

// InteractionUser returns the acting user for guild or DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID returns the acting user's ID as int64, or 0 when absent
func InteractionUserID(i *discordgo.InteractionCreate) int64 {
	user := InteractionUser(i)
	if user == nil {
		return 0
	}
	id, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse interaction user ID %s: %v", user.ID, err)
		return 0
	}
	return id
}

// InteractionDisplayName returns the acting user's guild nickname, falling
// back to their username, and primes the cache for later lookups
func InteractionDisplayName(i *discordgo.InteractionCreate) string {
	name := ""
	if i.Member != nil {
		if i.Member.Nick != "" {
			name = i.Member.Nick
		} else if i.Member.User != nil {
			name = i.Member.User.Username
		}
	} else if i.User != nil {
		name = i.User.Username
	}

	if name != "" {
		if user := InteractionUser(i); user != nil {
			displayNameCache.Add(cacheKey(i.GuildID, user.ID), name)
		}
	}
	return name
}

// GetDisplayName resolves a user's display name in a guild, preferring the
// cache over a REST lookup
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if cached, ok := displayNameCache.Get(cacheKey(guildID, userID)); ok {
		return cached.(string)
	}

	name := "Unknown"
	if member, err := s.GuildMember(guildID, userID); err == nil && member != nil {
		if member.Nick != "" {
			name = member.Nick
		} else if member.User != nil {
			name = member.User.Username
		}
	} else if user, err := s.User(userID); err == nil && user != nil {
		name = user.Username
	}

	if name != "Unknown" {
		displayNameCache.Add(cacheKey(guildID, userID), name)
	}
	return name
}

func cacheKey(guildID, userID string) string {
	return guildID + ":" + userID
}

// ParseUserID converts a Discord user ID string to int64
func ParseUserID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

// FormatUserID converts an int64 user ID to string
func FormatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID int64) string {
	return "<@" + FormatUserID(userID) + ">"
}
