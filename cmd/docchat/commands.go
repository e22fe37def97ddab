package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/docchat/internal/app"
	"github.com/dharsanguruparan/docchat/internal/apperr"
	"github.com/dharsanguruparan/docchat/internal/chat"
	"github.com/dharsanguruparan/docchat/internal/filecheck"
	"github.com/dharsanguruparan/docchat/internal/model"
	pdfutil "github.com/dharsanguruparan/docchat/internal/pdf"
	"github.com/dharsanguruparan/docchat/internal/stubserver"
)

const previewRunes = 240

// errReported marks a failure whose notice was already printed.
var errReported = errors.New("request failed")

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the documents the backend holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.container()
			status, err := c.Client.DocumentStatus(cmd.Context())
			if err != nil {
				return notice(cmd, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, status.Message)
			for _, d := range status.Documents {
				desc := d.Descriptor()
				fmt.Fprintf(out, "- %s (%s, id %s)\n", desc.Filename, strings.ToUpper(string(desc.Kind)), desc.ID)
			}
			return nil
		},
	}
}

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.container()
			status, err := c.Client.Health(cmd.Context())
			if err != nil {
				return notice(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", opts.cfg.BaseURL, status)
			return nil
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Check a file locally without uploading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := model.PendingFromPath(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			verdict := filecheck.Validate(file)
			fmt.Fprintf(out, "File: %s\nSize: %s\n", file.Name, humanize.IBytes(uint64(file.SizeBytes)))
			if !verdict.Accepted {
				fmt.Fprintf(out, "Rejected: %s\n", apperr.Message(verdict.Err()))
				return nil
			}
			fmt.Fprintf(out, "Accepted: %s (limit %s)\n", strings.ToUpper(string(verdict.Kind)), humanize.IBytes(uint64(verdict.Limit)))
			if verdict.Kind != model.KindPDF {
				return nil
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			info, err := pdfutil.Inspect(data)
			if err != nil {
				fmt.Fprintf(out, "PDF could not be parsed locally: %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "Pages: %d\nPreview: %s\n", info.Pages, pdfutil.Preview(info.Text, previewRunes))
			return nil
		},
	}
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF or CSV document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.container()
			if _, err := c.UploadPath(cmd.Context(), args[0], c.Credential()); err != nil {
				return notice(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), c.Documents.Project().Summary())
			return nil
		},
	}
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		direct bool
		system string
	)
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask one question about the current document",
		Long: "Ask one question about the current document.\n\n" +
			"With --direct or --system the question goes to the plain chat endpoint,\n" +
			"which needs no document and is not added to the transcript.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if direct || cmd.Flags().Changed("system") {
				c := opts.container()
				target := newReplyPrinter(cmd.OutOrStdout(), !color.NoColor)
				err := chat.Direct(cmd.Context(), c.Client, system, text, c.Credential(), target)
				if apperr.Is(err, apperr.KindValidation) {
					return notice(cmd, err)
				}
				if err != nil {
					return errReported
				}
				return nil
			}

			printer := newTranscriptPrinter(cmd.OutOrStdout(), !color.NoColor)
			c := opts.container(app.WithObserver(printer.observe))
			c.SeedBestEffort(cmd.Context())
			ex, err := c.Session.Send(cmd.Context(), text, c.Credential())
			if err != nil {
				return notice(cmd, err)
			}
			if err := ex.Wait(); err != nil {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "Ask without a document")
	cmd.Flags().StringVar(&system, "system", "", "Developer instructions for a direct question (implies --direct)")
	return cmd
}

func newStubServerCmd(opts *rootOptions) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "stub-server",
		Short: "Run the in-memory development backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				address = opts.cfg.StubAddress
			}
			srv := stubserver.New(stubserver.Options{
				Address:     address,
				StreamDelay: opts.cfg.StubStreamDelay,
				DocumentTTL: opts.cfg.StubDocumentTTL,
			}, opts.log)
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides DOCCHAT_STUB_ADDRESS)")
	return cmd
}

// notice prints the user-facing message for err and returns a short error
// for the exit status.
func notice(cmd *cobra.Command, err error) error {
	color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), apperr.Message(err))
	return errReported
}
