// ABOUTME: Quota-exceeded message with the contact address turned into a mailto link
// ABOUTME: Produces plain and markdown forms for terminal and export

package render

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Link is an activatable reference inside a message.
type Link struct {
	Text string
	Href string
}

// Message is a backend-provided notice prepared for display.
type Message struct {
	Text     string
	Markdown string
	Links    []Link
}

// QuotaMessage prepares msg for display. When contact is set, only that
// address becomes a mailto link; otherwise every address in msg does.
func QuotaMessage(msg, contact string) Message {
	out := Message{Text: msg, Markdown: msg}
	if contact != "" {
		if !strings.Contains(msg, contact) {
			return out
		}
		link := mailto(contact)
		out.Markdown = strings.ReplaceAll(msg, contact, "["+contact+"]("+link.Href+")")
		out.Links = []Link{link}
		return out
	}

	seen := map[string]bool{}
	out.Markdown = emailPattern.ReplaceAllStringFunc(msg, func(addr string) string {
		link := mailto(addr)
		if !seen[addr] {
			seen[addr] = true
			out.Links = append(out.Links, link)
		}
		return "[" + addr + "](" + link.Href + ")"
	})
	return out
}

func mailto(addr string) Link {
	return Link{Text: addr, Href: "mailto:" + addr}
}
