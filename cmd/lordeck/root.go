package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/youruser/lordeck/internal/codec"
	"github.com/youruser/lordeck/internal/deck"
	imagepkg "github.com/youruser/lordeck/internal/image"
	"github.com/youruser/lordeck/internal/metadata"
	"github.com/youruser/lordeck/internal/render"
)

const exampleCode = "CEAAECABAIDASDASDISC2OIIAECBGGY4FAWTINZ3AICACAQXDUPCWBABAQGSOKRM"

// Output styles accepted by --style.
const (
	styleJSON = "json"
	styleHTML = "html"
	styleYAML = "yaml"
	styleText = "text"
)

type app struct {
	logger   *log.Logger
	language string
	provider func() (metadata.Provider, error)
}

type options struct {
	code     string
	language string
	outFile  string
	style    string
	deckFile string
	qrFile   string
	verify   bool
	verbose  bool
}

func newRootCmd(a *app) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "lordeck [code]",
		Short: "Decode, verify and render Legends of Runeterra deck codes",
		Example: "  lordeck " + exampleCode + "\n" +
			"  lordeck --verify " + exampleCode + "\n" +
			"  lordeck --out-file deck.html " + exampleCode + "\n" +
			"  lordeck --deck-file deck.yaml --qr deck.png",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.code = args[0]
			}
			if opts.code == "" && opts.deckFile == "" {
				return cmd.Help()
			}
			if opts.verbose {
				a.logger.SetLevel(log.DebugLevel)
			}
			return a.run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.code, "code", "", "deck code to read")
	f.StringVar(&opts.language, "language", "", "metadata language, e.g. en_US (default from LORDECK_LANGUAGE)")
	f.StringVar(&opts.outFile, "out-file", "", "write the deck with metadata to this file")
	f.StringVar(&opts.style, "style", "", "out-file style: json, html, yaml or text (default from the file extension)")
	f.StringVar(&opts.deckFile, "deck-file", "", "read the deck from a YAML or text deck file instead of a code")
	f.StringVar(&opts.qrFile, "qr", "", "write a PNG QR code of the deck code to this file")
	f.BoolVar(&opts.verify, "verify", false, "decode, re-encode and compare")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func (a *app) run(cmd *cobra.Command, opts options) error {
	out := cmd.OutOrStdout()

	var d *deck.Deck
	var name string
	var err error
	if opts.deckFile != "" {
		d, name, err = deck.ReadFile(opts.deckFile)
	} else {
		d, err = deck.FromCode(opts.code)
	}
	if err != nil {
		return err
	}
	code, err := d.Code()
	if err != nil {
		return err
	}
	a.logger.Debug("deck loaded", "code", code, "cards", d.Len(), "size", d.Size(), "version", d.Version())

	if opts.qrFile != "" {
		png, err := imagepkg.GenerateQRPNG(code, imagepkg.DefaultQRSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.qrFile, png, 0o644); err != nil {
			return fmt.Errorf("write qr: %w", err)
		}
		fmt.Fprintln(out, "written into", opts.qrFile)
	}

	switch {
	case opts.verify:
		input := opts.code
		if input == "" {
			input = code
		}
		return verify(out, input, d)
	case opts.outFile != "":
		return a.writeOutFile(cmd, opts, d, name)
	case opts.deckFile != "":
		fmt.Fprintln(out, code)
		return nil
	default:
		return render.Text(out, d, nil)
	}
}

// verify prints the list and bytes of input, then of its re-encoding.
func verify(w io.Writer, input string, d *deck.Deck) error {
	recoded, err := d.Code()
	if err != nil {
		return err
	}
	if err := printListAndBytes(w, d, input); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s => %s (%t)\n", input, recoded, input == recoded)
	again, err := deck.FromCode(recoded)
	if err != nil {
		return err
	}
	return printListAndBytes(w, again, recoded)
}

func printListAndBytes(w io.Writer, d *deck.Deck, code string) error {
	raw, err := codec.Decode(code)
	if err != nil {
		return err
	}
	ints := make([]int, len(raw))
	for i, b := range raw {
		ints[i] = int(b)
	}
	for _, v := range []any{d.List(), ints} {
		line, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(line))
	}
	return nil
}

func outStyle(opts options) (string, error) {
	style := strings.ToLower(opts.style)
	if style == "" {
		switch strings.ToLower(filepath.Ext(opts.outFile)) {
		case ".html", ".htm":
			style = styleHTML
		case ".yaml", ".yml":
			style = styleYAML
		case ".txt":
			style = styleText
		default:
			style = styleJSON
		}
	}
	switch style {
	case styleJSON, styleHTML, styleYAML, styleText:
		return style, nil
	}
	return "", fmt.Errorf("unknown style %q", opts.style)
}

func (a *app) writeOutFile(cmd *cobra.Command, opts options, d *deck.Deck, name string) error {
	style, err := outStyle(opts)
	if err != nil {
		return err
	}

	var data []byte
	switch style {
	case styleYAML:
		var b strings.Builder
		if err := deck.WriteYAML(&b, name, d); err != nil {
			return err
		}
		data = []byte(b.String())
	case styleText:
		data = []byte(deck.ExportText(name, d) + "\n")
	default:
		md, err := a.metadata(cmd, opts, d)
		if err != nil {
			return err
		}
		page, err := render.Build(d, md)
		if err != nil {
			return err
		}
		if style == styleHTML {
			data, err = render.HTML(page)
		} else {
			data, err = render.JSON(page)
		}
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(opts.outFile, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.outFile, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "written into", opts.outFile)
	return nil
}

func (a *app) metadata(cmd *cobra.Command, opts options, d *deck.Deck) (*metadata.Metadata, error) {
	if a.provider == nil {
		return nil, metadata.ErrNoProvider
	}
	p, err := a.provider()
	if err != nil {
		return nil, err
	}
	lang := opts.language
	if lang == "" {
		lang = a.language
	}
	md, err := metadata.Enrich(cmd.Context(), p, d, lang)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	return md, nil
}
