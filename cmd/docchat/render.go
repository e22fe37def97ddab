package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/model"
)

// transcriptPrinter writes streaming assistant replies as they grow. It is
// used as a chat observer, so it may be called from the exchange goroutine.
type transcriptPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	printed map[string]string
	prompt  *color.Color
	failure *color.Color
}

func newTranscriptPrinter(out io.Writer, colorize bool) *transcriptPrinter {
	p := &transcriptPrinter{
		out:     out,
		printed: make(map[string]string),
		prompt:  color.New(color.FgCyan, color.Bold),
		failure: color.New(color.FgRed),
	}
	if !colorize {
		p.prompt.DisableColor()
		p.failure.DisableColor()
	}
	return p
}

func (p *transcriptPrinter) observe(msg model.ChatMessage) {
	if msg.Role != model.RoleAssistant {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	shown, seen := p.printed[msg.ID]
	if !seen {
		p.prompt.Fprint(p.out, "assistant> ")
	}
	if strings.HasPrefix(msg.Content, shown) {
		fmt.Fprint(p.out, msg.Content[len(shown):])
	} else if msg.Status != model.StatusErrored {
		fmt.Fprint(p.out, "\n"+msg.Content)
	}
	p.printed[msg.ID] = msg.Content
	if msg.Status.Terminal() {
		delete(p.printed, msg.ID)
	}

	switch msg.Status {
	case model.StatusComplete:
		fmt.Fprintln(p.out)
	case model.StatusErrored:
		if msg.Notice != "" && msg.Notice != msg.Content {
			p.failure.Fprintf(p.out, "\n[error] %s\n", msg.Notice)
		} else {
			fmt.Fprintln(p.out)
		}
	}
}

// replyPrinter writes one direct reply as it streams in.
type replyPrinter struct {
	out     io.Writer
	prompt  *color.Color
	failure *color.Color
	started bool
}

func newReplyPrinter(out io.Writer, colorize bool) *replyPrinter {
	p := &replyPrinter{
		out:     out,
		prompt:  color.New(color.FgCyan, color.Bold),
		failure: color.New(color.FgRed),
	}
	if !colorize {
		p.prompt.DisableColor()
		p.failure.DisableColor()
	}
	return p
}

func (p *replyPrinter) Begin() {
	p.started = true
	p.prompt.Fprint(p.out, "assistant> ")
}

func (p *replyPrinter) Append(text string) {
	fmt.Fprint(p.out, text)
}

func (p *replyPrinter) Complete() {
	fmt.Fprintln(p.out)
}

func (p *replyPrinter) Fail(err error) {
	if p.started {
		fmt.Fprintln(p.out)
	}
	p.failure.Fprintf(p.out, "[error] %s\n", apperr.Message(err))
}

// printHistory writes the whole transcript.
func printHistory(out io.Writer, msgs []model.ChatMessage) {
	if len(msgs) == 0 {
		fmt.Fprintln(out, "(no messages)")
		return
	}
	for _, m := range msgs {
		line := m.Content
		if m.Status == model.StatusErrored && m.Notice != "" && m.Notice != m.Content {
			line += " [" + m.Notice + "]"
		}
		fmt.Fprintf(out, "%s %s (%s): %s\n", m.CreatedAt.Format("15:04:05"), m.Role, m.Status, line)
	}
}
