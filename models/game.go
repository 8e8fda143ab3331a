package models

import (
	"encoding/json"
	"strings"

	"github.com/samber/mo"
)

type Color string

const (
	ColorWhite Color = "White"
	ColorBlack Color = "Black"
)

// Lower returns the side name as shown to users
func (c Color) Lower() string {
	return strings.ToLower(string(c))
}

type GameResult string

const (
	GameResultWhiteCheckmates GameResult = "WhiteCheckmates"
	GameResultBlackCheckmates GameResult = "BlackCheckmates"
	GameResultWhiteResigns    GameResult = "WhiteResigns"
	GameResultBlackResigns    GameResult = "BlackResigns"
	GameResultStalemate       GameResult = "Stalemate"
	GameResultDrawAccepted    GameResult = "DrawAccepted"
	GameResultDrawDeclared    GameResult = "DrawDeclared"
)

// Account is one connected account of a player
type Account struct {
	AccountType string `json:"account_type"`
	AccountID   string `json:"account_id"`
}

// Side is one of the two players of a game
type Side struct {
	ID       string    `json:"id"`
	Accounts []Account `json:"accounts"`
}

// DiscordAccountID returns the id of the side's Discord account, or "" if it has none
func (s Side) DiscordAccountID() string {
	for _, account := range s.Accounts {
		if account.AccountType == AccountTypeDiscord {
			return account.AccountID
		}
	}
	return ""
}

// GameSnapshot is the game service's view of one match
type GameSnapshot struct {
	ID         string                `json:"id"`
	White      Side                  `json:"white"`
	Black      Side                  `json:"black"`
	SideToMove Color                 `json:"side_to_move"`
	Board      string                `json:"board"`
	Moves      []string              `json:"moves"`
	Result     mo.Option[GameResult] `json:"result"`
}

// UnmarshalJSON decodes a snapshot with a null or absent result as a game still in progress
func (g *GameSnapshot) UnmarshalJSON(data []byte) error {
	type snapshot GameSnapshot
	var wire struct {
		snapshot
		Result *GameResult `json:"result"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*g = GameSnapshot(wire.snapshot)
	g.Result = mo.PointerToOption(wire.Result)
	return nil
}

// SideOf returns the side playing the given color
func (g *GameSnapshot) SideOf(color Color) Side {
	if color == ColorBlack {
		return g.Black
	}
	return g.White
}

// PreviousGame is a finished game together with its move text
type PreviousGame struct {
	GameSnapshot
	PGN string `json:"pgn"`
}

// UnmarshalJSON keeps the promoted snapshot decoder from swallowing the move text
func (p *PreviousGame) UnmarshalJSON(data []byte) error {
	if err := p.GameSnapshot.UnmarshalJSON(data); err != nil {
		return err
	}

	var wire struct {
		PGN string `json:"pgn"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.PGN = wire.PGN
	return nil
}

// CreateGameRequest is the body of POST /games
type CreateGameRequest struct {
	TargetID    string `json:"target_id"`
	AccountType string `json:"account_type"`
}

type MoveAction string

const (
	MoveActionMakeMove MoveAction = "MakeMove"
	MoveActionResign   MoveAction = "Resign"
)

// MoveRequest is the body of PUT /games/current/moves
type MoveRequest struct {
	Action MoveAction `json:"action"`
	Data   string     `json:"data,omitempty"`
}
