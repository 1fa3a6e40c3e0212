package blackjack

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"chipbot/bot/common"
	"chipbot/domain/entities"
	"chipbot/domain/services"
)

func formatHand(hand entities.Hand) string {
	return fmt.Sprintf("%s (%d)", hand.String(), hand.Value())
}

func outcomeLabel(outcome services.HandOutcome) string {
	switch outcome {
	case services.OutcomeWin:
		return "✅ Win"
	case services.OutcomePush:
		return "➖ Push"
	default:
		return "❌ Loss"
	}
}

// buildSessionMessage renders the table state. During play the dealer's
// hole card stays hidden and the action buttons are attached; a settled
// session gets the full reveal and no buttons.
func buildSessionMessage(session *services.BlackjackSession, ownerID, balance int64, settled bool) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🃏 Blackjack — %s", session.DisplayName),
	}

	if settled {
		embed.Color = common.ColorSuccess
		payout := session.TotalPayout()
		if payout < session.TotalBet() {
			embed.Color = common.ColorDanger
		}

		var sb strings.Builder
		for idx, r := range session.Results() {
			label := "Your hand"
			if len(session.Results()) > 1 {
				label = fmt.Sprintf("Hand %d", idx+1)
			}
			sb.WriteString(fmt.Sprintf("%s: %s — %s\n", label, formatHand(r.Hand), outcomeLabel(r.Outcome)))
		}
		sb.WriteString(fmt.Sprintf("Dealer: %s\n\n", formatHand(session.DealerHand)))

		switch {
		case payout > session.TotalBet():
			sb.WriteString(fmt.Sprintf("🎉 **You won %s chips!**", common.FormatChips(payout-session.TotalBet())))
		case payout == session.TotalBet():
			sb.WriteString("➖ **Push.** Your stake is returned.")
		default:
			sb.WriteString(fmt.Sprintf("😔 **You lost %s chips.**", common.FormatChips(session.TotalBet()-payout)))
		}
		sb.WriteString(fmt.Sprintf("\nNew balance: **%s chips**", common.FormatChips(balance)))

		embed.Description = sb.String()
		return embed, nil
	}

	embed.Color = common.ColorPrimary

	var sb strings.Builder
	if session.HasSplit() {
		for idx, hand := range []entities.Hand{session.PlayerHand, session.SplitHand} {
			marker := ""
			if idx == session.ActiveHandIndex() {
				marker = " ◀"
			}
			sb.WriteString(fmt.Sprintf("Hand %d: %s%s\n", idx+1, formatHand(hand), marker))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Your hand: %s\n", formatHand(session.PlayerHand)))
	}
	sb.WriteString(fmt.Sprintf("Dealer shows: %s 🂠\n", session.DealerHand[0].String()))
	sb.WriteString(fmt.Sprintf("\nBet: **%s chips**", common.FormatChips(session.TotalBet())))

	embed.Description = sb.String()
	return embed, buildActionButtons(session, ownerID)
}

func buildActionButtons(session *services.BlackjackSession, ownerID int64) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Hit",
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("blackjack_%s_%d", services.ActionHit, ownerID),
		},
		discordgo.Button{
			Label:    "Stand",
			Style:    discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("blackjack_%s_%d", services.ActionStand, ownerID),
		},
	}

	// Double and split are only offered on the opening two cards.
	if session.Phase == services.PhasePlayerTurn && !session.HasSplit() && len(session.PlayerHand) == 2 {
		buttons = append(buttons, discordgo.Button{
			Label:    "Double",
			Style:    discordgo.SuccessButton,
			CustomID: fmt.Sprintf("blackjack_%s_%d", services.ActionDouble, ownerID),
		})
		if session.CanSplit() {
			buttons = append(buttons, discordgo.Button{
				Label:    "Split",
				Style:    discordgo.DangerButton,
				CustomID: fmt.Sprintf("blackjack_%s_%d", services.ActionSplit, ownerID),
			})
		}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}
