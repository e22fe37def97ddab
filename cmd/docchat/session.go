package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/docchat/internal/app"
	"github.com/dharsanguruparan/docchat/internal/apperr"
)

const sessionHelp = `Type a question and press enter. Commands:
  /upload <path>  upload a PDF or CSV document (replaces the current one)
  /doc            show the current document and activity
  /history        print the transcript
  /help           show this help
  /quit           exit`

func newSessionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printer := newTranscriptPrinter(out, !color.NoColor)
			c := opts.container(app.WithObserver(printer.observe))
			c.SeedBestEffort(cmd.Context())
			fmt.Fprintln(out, sessionHelp)
			fmt.Fprint(out, c.Documents.Project().Summary())
			return runSession(cmd.Context(), c, cmd.InOrStdin(), out)
		},
	}
}

// runSession reads commands from in until EOF, /quit, or ctx is cancelled.
// Questions are answered one at a time; the next line is read only after the
// reply has finished streaming.
func runSession(ctx context.Context, c *app.Container, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "you> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/help":
			fmt.Fprintln(out, sessionHelp)
		case line == "/doc":
			fmt.Fprint(out, c.Documents.Project().Summary())
			fmt.Fprintln(out, activity(c))
		case line == "/history":
			printHistory(out, c.Session.Messages())
		case strings.HasPrefix(line, "/upload"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/upload"))
			if path == "" {
				fmt.Fprintln(out, "usage: /upload <path>")
				continue
			}
			fmt.Fprintf(out, "Uploading %s...\n", path)
			if _, err := c.UploadPath(ctx, path, c.Credential()); err != nil {
				fmt.Fprintln(out, apperr.Message(err))
				continue
			}
			fmt.Fprint(out, c.Documents.Project().Summary())
		case strings.HasPrefix(line, "/"):
			fmt.Fprintf(out, "unknown command %s, try /help\n", strings.Fields(line)[0])
		default:
			ex, err := c.Session.Send(ctx, line, c.Credential())
			if err != nil {
				fmt.Fprintln(out, apperr.Message(err))
				continue
			}
			select {
			case <-ex.Done():
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// activity reports what the upload controller and the chat session are
// doing right now.
func activity(c *app.Container) string {
	upload, chat := "idle", "idle"
	if c.Uploads.InFlight() {
		upload = "in progress"
	}
	if c.Session.Active() {
		chat = "reply streaming"
	}
	return "Upload: " + upload + ". Chat: " + chat + "."
}
