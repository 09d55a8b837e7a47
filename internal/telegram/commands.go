package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/i474232898/uv-alert/internal/common"
	"github.com/i474232898/uv-alert/internal/uv"
)

// Engine is the part of uv.Engine that inbound commands drive.
type Engine interface {
	ApplySunscreen(ctx context.Context, spf int) (uv.SunscreenRecord, bool)
	Status(ctx context.Context) uv.Status
}

const helpText = `☀️ <b>UV alert</b>

I warn you when the UV index crosses the danger threshold and remind you to reapply sunscreen.

/sunscreen [spf] - register a sunscreen application (default SPF 50)
/status - current UV, burn time and sunscreen protection
/help - this message`

// Commands turns chat text into engine calls and HTML replies.
type Commands struct {
	engine Engine
	format uv.Formatter
}

// NewCommands creates a command handler.
func NewCommands(engine Engine, format uv.Formatter) *Commands {
	return &Commands{engine: engine, format: format}
}

// Handle executes text and returns the reply. handled is false when text is
// not something the bot understands.
func (c *Commands) Handle(ctx context.Context, text string) (reply string, handled bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	if strings.HasPrefix(text, "/") {
		fields := strings.Fields(text)
		name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
		// group chats address commands as /status@botname
		if i := strings.IndexByte(name, '@'); i >= 0 {
			name = name[:i]
		}
		switch name {
		case "sunscreen", "crema", "apply":
			return c.apply(ctx, commandSPF(fields[1:])), true
		case "status", "estado":
			return c.status(ctx), true
		case "start", "help":
			return helpText, true
		default:
			return "", false
		}
	}

	switch {
	case common.ContainsAnyFold(text, "sunscreen", "crema", "protector"):
		return c.apply(ctx, textSPF(strings.Fields(text))), true
	case common.ContainsAnyFold(text, "status", "estado"):
		return c.status(ctx), true
	}
	return "", false
}

func (c *Commands) apply(ctx context.Context, spf int) string {
	rec, corrected := c.engine.ApplySunscreen(ctx, spf)
	return c.format.Applied(rec, corrected)
}

func (c *Commands) status(ctx context.Context) string {
	return c.format.StatusReport(c.engine.Status(ctx))
}

// commandSPF reads the SPF from command arguments. No argument means the
// default; an argument that is not a number becomes 0 so the engine reports
// the correction.
func commandSPF(args []string) int {
	if len(args) == 0 {
		return uv.DefaultSPF
	}
	if n, ok := parseSPF(args[0]); ok {
		return n
	}
	return 0
}

// textSPF finds the first number in free text, or the default.
func textSPF(words []string) int {
	for _, w := range words {
		if n, ok := parseSPF(w); ok {
			return n
		}
	}
	return uv.DefaultSPF
}

func parseSPF(s string) (int, bool) {
	s = strings.TrimPrefix(strings.ToLower(s), "spf")
	s = strings.Trim(s, "+.,!")
	n, err := strconv.Atoi(s)
	return n, err == nil
}
