package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeShow     Type = "show"
	TypeDone     Type = "done"
	TypeDelete   Type = "delete"
	TypePriority Type = "priority"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title    string
	Priority model.Priority
}

type ShowArgs struct {
	Filter string
}

type PriorityArgs struct {
	Level model.Priority
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Show     *ShowArgs
	Priority *PriorityArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch head {
	case "add", "new":
		return parseAdd(input, args)
	case "show", "filter":
		return parseShow(input, args)
	case "done", "toggle", "complete":
		return Command{Type: TypeDone, Raw: input}, nil
	case "delete", "rm":
		return Command{Type: TypeDelete, Raw: input}, nil
	case "priority", "prio":
		return parsePriority(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd treats a trailing "!low", "!med" or "!high" token as the priority.
func parseAdd(raw string, args []string) (Command, error) {
	priority := model.PriorityLow
	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "!") {
		p, err := model.ParsePriority(strings.TrimPrefix(args[n-1], "!"))
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority %s", args[n-1])}
		}
		priority = p
		args = args[:n-1]
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Priority: priority}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires all, open or done"}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Filter: strings.ToLower(args[0])}}, nil
}

func parsePriority(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "priority requires low, medium or high"}
	}
	p, err := model.ParsePriority(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority %s", args[0])}
	}
	return Command{Type: TypePriority, Raw: raw, Priority: &PriorityArgs{Level: p}}, nil
}
