package telegram

import "regexp"

var (
	commandPrefixRe = regexp.MustCompile(`^/\w+\s*`)

	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*|\*(.*?)\*`)
	italicRe = regexp.MustCompile(`__(.*?)__|_(.*?)_`)
	strikeRe = regexp.MustCompile(`~~(.*?)~~`)
	codeRe   = regexp.MustCompile("`([^`\n]+)`")
	preRe    = regexp.MustCompile("```([\\s\\S]+?)```")
	linkRe   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// removeCommand strips a leading /command from the message, keeping
// the rest.
func removeCommand(message string) string {
	return commandPrefixRe.ReplaceAllString(message, "")
}

// markdownToHTML converts the model's markdown to the HTML subset
// Telegram accepts.
func markdownToHTML(text string) string {
	text = preRe.ReplaceAllString(text, "<pre>$1</pre>")
	text = boldRe.ReplaceAllString(text, "<b>$1$2</b>")
	text = italicRe.ReplaceAllString(text, "<i>$1$2</i>")
	text = strikeRe.ReplaceAllString(text, "<s>$1</s>")
	text = codeRe.ReplaceAllString(text, "<code>$1</code>")
	text = linkRe.ReplaceAllString(text, `<a href="$2">$1</a>`)
	return text
}
