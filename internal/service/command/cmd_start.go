package command

import "context"

type StartCommand struct {
	greeting string
}

func NewStartCommand(greeting string) *StartCommand {
	return &StartCommand{greeting: greeting}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Start talking to the bot"
}

func (c *StartCommand) Execute(context.Context, string, []string) (string, error) {
	return c.greeting, nil
}
