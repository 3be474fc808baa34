package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifecal/internal/model"
)

type Type string

const (
	TypeGoto     Type = "goto"
	TypeAdd      Type = "add"
	TypeMonth    Type = "month"
	TypeExport   Type = "export"
	TypeImport   Type = "import"
	TypeCategory Type = "category"
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

type GotoArgs struct {
	// Date is YYYY-MM-DD, or empty for today.
	Date string
}

type AddArgs struct {
	Title string
}

type MonthArgs struct {
	Delta int
}

type PathArgs struct {
	Path string
}

type CategoryArgs struct {
	Category model.Category
	// Name is the custom label when Category is Custom.
	Name string
}

type Command struct {
	Type     Type
	Raw      string
	Goto     *GotoArgs
	Add      *AddArgs
	Month    *MonthArgs
	Export   *PathArgs
	Import   *PathArgs
	Category *CategoryArgs
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
	case TypeGoto:
		return parseGoto(input, args)
	case TypeAdd:
		return parseAdd(input, args)
	case TypeMonth:
		return parseMonth(input, args)
	case TypeExport, TypeImport:
		return parsePath(input, Type(head), args)
	case TypeCategory:
		return parseCategory(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires a date or 'today'"}
	}
	if strings.EqualFold(args[0], "today") {
		return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{}}, nil
	}
	if _, err := model.ParseDate(args[0]); err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("goto date must look like 2006-01-02, got %q", args[0])}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Date: args[0]}}, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseMonth(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "month requires next or prev"}
	}
	switch strings.ToLower(args[0]) {
	case "next", "+":
		return Command{Type: TypeMonth, Raw: raw, Month: &MonthArgs{Delta: 1}}, nil
	case "prev", "previous", "-":
		return Command{Type: TypeMonth, Raw: raw, Month: &MonthArgs{Delta: -1}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("month expects next or prev, got %q", args[0])}
	}
}

func parsePath(raw string, typ Type, args []string) (Command, error) {
	path := strings.TrimSpace(strings.Join(args, " "))
	if path == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a file path", typ)}
	}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeExport {
		cmd.Export = &PathArgs{Path: path}
	} else {
		cmd.Import = &PathArgs{Path: path}
	}
	return cmd, nil
}

func parseCategory(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "category requires a tag"}
	}
	c, err := model.ParseCategory(args[0])
	if err != nil {
		// Any other word is a custom label.
		return Command{Type: TypeCategory, Raw: raw, Category: &CategoryArgs{
			Category: model.CategoryCustom,
			Name:     strings.Join(args, " "),
		}}, nil
	}
	name := ""
	if c == model.CategoryCustom {
		name = strings.Join(args[1:], " ")
	}
	return Command{Type: TypeCategory, Raw: raw, Category: &CategoryArgs{Category: c, Name: name}}, nil
}
