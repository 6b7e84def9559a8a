package orchestrator

import (
	"regexp"
	"strings"
)

// startCommand recognizes the single operator command that begins a new
// experiment: "<mention> 開始新實驗 <role>". The role text is taken verbatim,
// trimmed.
type startCommand struct {
	pattern *regexp.Regexp
}

func newStartCommand(mentionToken string) *startCommand {
	return &startCommand{
		pattern: regexp.MustCompile("^" + regexp.QuoteMeta(mentionToken) + `\s*開始新實驗\s+(.+)$`),
	}
}

func (c *startCommand) Parse(text string) (string, bool) {
	match := c.pattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	return strings.TrimSpace(match[1]), true
}
