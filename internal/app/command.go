package app

import "strings"

type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdTranslate
	CmdTarget
	CmdSource
	CmdPause
	CmdResume
	CmdToggle
	CmdLanguages
	CmdQuit
	CmdUnknown
)

// Command is one parsed line of console input.
type Command struct {
	Kind CommandKind
	Arg  string
}

// ParseCommand interprets a console line. Lines starting with ':' are
// commands; any other non-blank line is text to translate.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CmdNone}
	}
	if !strings.HasPrefix(line, ":") {
		return Command{Kind: CmdTranslate, Arg: line}
	}

	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "lang", "target":
		return Command{Kind: CmdTarget, Arg: arg}
	case "source", "src":
		return Command{Kind: CmdSource, Arg: arg}
	case "pause":
		return Command{Kind: CmdPause}
	case "resume":
		return Command{Kind: CmdResume}
	case "toggle":
		return Command{Kind: CmdToggle}
	case "langs", "languages":
		return Command{Kind: CmdLanguages}
	case "quit", "q", "exit":
		return Command{Kind: CmdQuit}
	default:
		return Command{Kind: CmdUnknown, Arg: line}
	}
}
