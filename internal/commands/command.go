// Package commands parses and dispatches command palette input.
package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeCapture Type = "capture"
	TypeGoal    Type = "goal"
	TypeRoutine Type = "routine"
	TypeSearch  Type = "search"
	TypeExport  Type = "export"
	TypeView    Type = "view"
	TypeTheme   Type = "theme"
	TypeLogout  Type = "logout"
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
	Text     string
	Priority string
}

type CaptureArgs struct {
	Text string
}

type GoalArgs struct {
	Category string
	Name     string
}

type RoutineArgs struct {
	Days []string
	Text string
}

type SearchArgs struct {
	Query string
}

type ExportArgs struct {
	Format string
}

type ViewArgs struct {
	Name string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Capture *CaptureArgs
	Goal    *GoalArgs
	Routine *RoutineArgs
	Search  *SearchArgs
	Export  *ExportArgs
	View    *ViewArgs
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

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeCapture:
		return parseCapture(input, args)
	case TypeGoal:
		return parseGoal(input, args)
	case TypeRoutine:
		return parseRoutine(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeExport:
		return parseExport(input, args)
	case TypeView:
		return parseView(input, args)
	case TypeTheme:
		return Command{Type: TypeTheme, Raw: input}, nil
	case TypeLogout:
		return Command{Type: TypeLogout, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts an optional trailing !high / !medium / !low
// priority marker, e.g. "add write report !high".
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	priority := ""
	last := strings.ToLower(args[len(args)-1])
	if strings.HasPrefix(last, "!") {
		switch strings.TrimPrefix(last, "!") {
		case "high", "medium", "low":
			priority = strings.TrimPrefix(last, "!")
			args = args[:len(args)-1]
		default:
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority: %s", last)}
		}
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text, Priority: priority}}, nil
}

func parseCapture(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "capture requires task text"}
	}
	return Command{Type: TypeCapture, Raw: raw, Capture: &CaptureArgs{Text: text}}, nil
}

func parseGoal(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal requires a category (short|long) and a name"}
	}
	category := strings.ToLower(args[0])
	if category != "short" && category != "long" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown goal category: %s", args[0])}
	}
	name := strings.TrimSpace(strings.Join(args[1:], " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal requires a name"}
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Category: category, Name: name}}, nil
}

// parseRoutine accepts an optional leading comma-separated day list,
// e.g. "routine mon,wed,fri stretch". Without a day list the routine
// recurs daily.
func parseRoutine(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "routine requires task text"}
	}
	days := []string{}
	if parsed, ok := parseDayList(args[0]); ok {
		days = parsed
		args = args[1:]
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "routine requires task text"}
	}
	return Command{Type: TypeRoutine, Raw: raw, Routine: &RoutineArgs{Days: days, Text: text}}, nil
}

func parseDayList(arg string) ([]string, bool) {
	known := map[string]bool{"mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true, "sun": true}
	parts := strings.Split(strings.ToLower(arg), ",")
	days := make([]string, 0, len(parts))
	for _, part := range parts {
		if !known[part] {
			return nil, false
		}
		days = append(days, part)
	}
	return days, true
}

func parseExport(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "export requires a format (json|csv)"}
	}
	format := strings.ToLower(args[0])
	if format != "json" && format != "csv" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown export format: %s", args[0])}
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Format: format}}, nil
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires a screen name"}
	}
	return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Name: strings.ToLower(args[0])}}, nil
}
