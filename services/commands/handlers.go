package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/appellation/chess/clients"
	"github.com/appellation/chess/core"
	"github.com/appellation/chess/models"
	"github.com/appellation/chess/utils"
)

const (
	CommandPing      = "ping"
	CommandChallenge = "challenge"
	CommandGame      = "game"
	CommandMove      = "move"
	CommandResign    = "resign"
	CommandPGN       = "pgn"
	CommandHelp      = "help"
)

const (
	ReplyPong            = "pong"
	ReplyCantCreateGame  = "can't create game"
	ReplyNoGame          = "no game"
	ReplyInvalidMove     = "invalid move"
	ReplyNoPreviousGame  = "unable to get last game"
	ReplyMissingArgument = "missing argument"
)

// SnapshotFormatter renders a game snapshot as reply text
type SnapshotFormatter interface {
	Format(snapshot *models.GameSnapshot) string
}

// GameCommands implements the chess commands on top of the game service
type GameCommands struct {
	gameClient clients.GameClient
	formatter  SnapshotFormatter
	prefix     string
}

func NewGameCommands(gameClient clients.GameClient, formatter SnapshotFormatter, prefix string) *GameCommands {
	return &GameCommands{
		gameClient: gameClient,
		formatter:  formatter,
		prefix:     prefix,
	}
}

// RegisterDefaults registers every chess command on router
func RegisterDefaults(router *Router, commands *GameCommands) {
	router.Register(CommandPing, HandlerFunc(commands.Ping))
	router.Register(CommandChallenge, HandlerFunc(commands.Challenge))
	router.Register(CommandGame, HandlerFunc(commands.Game))
	router.Register(CommandMove, HandlerFunc(commands.Move))
	router.Register(CommandResign, HandlerFunc(commands.Resign))
	router.Register(CommandPGN, HandlerFunc(commands.PGN))
	router.Register(CommandHelp, HandlerFunc(commands.Help))
}

func (c *GameCommands) Ping(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error {
	reply(ctx, ReplyPong)
	return nil
}

// Challenge starts a game against the user given as first argument (id or mention)
func (c *GameCommands) Challenge(
	ctx context.Context,
	actor models.Actor,
	args *models.Arguments,
	reply ReplySink,
) error {
	opponent, err := args.Next()
	if err != nil {
		reply(ctx, ReplyMissingArgument)
		return fmt.Errorf("challenge requires an opponent: %w", err)
	}

	snapshot, err := c.gameClient.CreateGame(ctx, actor, utils.ExtractUserID(opponent))
	if err != nil {
		reply(ctx, ReplyCantCreateGame)
		return err
	}

	reply(ctx, c.formatter.Format(snapshot))
	return nil
}

func (c *GameCommands) Game(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error {
	snapshot, err := c.gameClient.GetCurrentGame(ctx, actor)
	if err != nil {
		reply(ctx, ReplyNoGame)
		return err
	}

	reply(ctx, c.formatter.Format(snapshot))
	return nil
}

func (c *GameCommands) Move(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error {
	move, err := args.Next()
	if err != nil {
		reply(ctx, ReplyMissingArgument)
		return fmt.Errorf("move requires a move: %w", err)
	}

	snapshot, err := c.gameClient.MakeMove(ctx, actor, move)
	if err != nil {
		reply(ctx, ReplyInvalidMove)
		return err
	}

	reply(ctx, c.formatter.Format(snapshot))
	return nil
}

func (c *GameCommands) Resign(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error {
	snapshot, err := c.gameClient.Resign(ctx, actor)
	if err != nil {
		reply(ctx, ReplyInvalidMove)
		return err
	}

	reply(ctx, c.formatter.Format(snapshot))
	return nil
}

// PGN replies with the move text of the actor's last finished game
func (c *GameCommands) PGN(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error {
	previous, err := c.gameClient.GetPreviousGame(ctx, actor)
	if err != nil {
		reply(ctx, ReplyNoPreviousGame)
		if core.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	reply(ctx, CodeBlock(previous.PGN))
	return nil
}

func (c *GameCommands) Help(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error {
	reply(ctx, HelpText(c.prefix))
	return nil
}

// HelpText lists every command with the given prefix
func HelpText(prefix string) string {
	lines := []string{
		"**Chess commands**",
		fmt.Sprintf("`%schallenge <@user>` start a game against someone", prefix),
		fmt.Sprintf("`%sgame` show your current game", prefix),
		fmt.Sprintf("`%smove <move>` play a move, for example `%smove e4`", prefix, prefix),
		fmt.Sprintf("`%sresign` resign your current game", prefix),
		fmt.Sprintf("`%spgn` show the moves of your last game", prefix),
		fmt.Sprintf("`%sping` check that the bot is alive", prefix),
		fmt.Sprintf("`%shelp` show this message", prefix),
	}
	return strings.Join(lines, "\n")
}

// CodeBlock fences text as a code block
func CodeBlock(text string) string {
	return "```\n" + text + "\n```"
}

// IsArgumentMissing reports whether a handler failed for lack of an argument
func IsArgumentMissing(err error) bool {
	return errors.Is(err, models.ErrArgumentMissing)
}
