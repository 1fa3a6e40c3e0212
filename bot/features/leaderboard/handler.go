package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"chipbot/bot/common"
	"chipbot/domain/services"
)

var rankMedals = []string{"🥇", "🥈", "🥉"}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning leaderboard transaction: %v", err)
		common.RespondWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}
	defer uow.Rollback()

	accountService := services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus())
	entries, err := accountService.Leaderboard(ctx, common.LeaderboardSize)
	if err != nil {
		log.Errorf("Error loading leaderboard: %v", err)
		common.RespondWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing leaderboard transaction: %v", err)
		common.RespondWithError(s, i, "Unable to load the leaderboard. Please try again.")
		return
	}

	var sb strings.Builder
	for rank, entry := range entries {
		medal := fmt.Sprintf("%d.", rank+1)
		if rank < len(rankMedals) {
			medal = rankMedals[rank]
		}
		sb.WriteString(fmt.Sprintf("%s **%s** — %s chips\n", medal, entry.DisplayName, common.FormatChips(entry.Balance)))
	}
	if sb.Len() == 0 {
		sb.WriteString("Nobody on the board yet. Claim your `/daily` to get started!")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Chip Leaderboard",
		Description: sb.String(),
		Color:       common.ColorGold,
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}
