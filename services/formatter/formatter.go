package formatter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/models"
	"github.com/appellation/chess/utils"
)

const (
	textStalemate     = "Stalemate!"
	textDrawAccepted  = "Draw accepted!"
	textDrawDeclared  = "Draw declared!"
	winnerSuffixWhite = "(white) wins!"
	winnerSuffixBlack = "(black) wins!"
)

// Formatter renders game snapshots as chat replies
type Formatter struct {
	boardsURL string
}

func NewFormatter(boardsURL string) *Formatter {
	return &Formatter{boardsURL: strings.TrimSuffix(boardsURL, "/")}
}

// Format returns the reply text for snapshot. The output depends on snapshot only.
func (f *Formatter) Format(snapshot *models.GameSnapshot) string {
	result, finished := snapshot.Result.Get()
	if !finished {
		return f.formatToMove(snapshot)
	}

	switch result {
	case models.GameResultWhiteCheckmates, models.GameResultBlackResigns:
		return utils.Mention(snapshot.White.DiscordAccountID()) + " " + winnerSuffixWhite
	case models.GameResultBlackCheckmates, models.GameResultWhiteResigns:
		return utils.Mention(snapshot.Black.DiscordAccountID()) + " " + winnerSuffixBlack
	case models.GameResultStalemate:
		return textStalemate
	case models.GameResultDrawAccepted:
		return textDrawAccepted
	case models.GameResultDrawDeclared:
		return textDrawDeclared
	default:
		// Unrecognized results are rendered as a game still in progress
		log.Warn("⚠️ Unrecognized result %q for game %s, rendering as in progress", result, snapshot.ID)
		return f.formatToMove(snapshot)
	}
}

// BoardURL returns the link to the rendered board of a FEN position
func (f *Formatter) BoardURL(board string) string {
	return f.boardsURL + "/" + url.PathEscape(board)
}

func (f *Formatter) formatToMove(snapshot *models.GameSnapshot) string {
	side := snapshot.SideOf(snapshot.SideToMove)
	return fmt.Sprintf("%s (%s) to move\n%s",
		utils.Mention(side.DiscordAccountID()),
		snapshot.SideToMove.Lower(),
		f.BoardURL(snapshot.Board),
	)
}
