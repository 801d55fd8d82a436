package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/chatrelay/internal/core"
)

type CommandLister interface {
	ListCommands() []core.Command
}

type HelpCommand struct {
	lister    CommandLister
	formatter *ResponseFormatter
}

func NewHelpCommand(lister CommandLister) *HelpCommand {
	return &HelpCommand{
		lister:    lister,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(context.Context, string, []string) (string, error) {
	cmds := c.lister.ListCommands()
	items := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		items = append(items, fmt.Sprintf("/%s  %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		"Anything else is sent to the model.",
	), nil
}
