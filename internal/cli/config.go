package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"
)

// configStyle is the chroma style used when printing TOML to a terminal.
const configStyle = "monokai"

// configCommand creates the config command, which prints the effective
// configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as TOML: the config file merged over
the built-in defaults. Redirect the output to create a config file:

  fractals config > ~/.config/fractals/config.toml

Output to a terminal is syntax highlighted unless --plain is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			if err := c.Config.Encode(&buf); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f, ok := out.(*os.File); ok && !plain && isTerminal(f) {
				return highlightTOML(out, buf.String())
			}
			_, err := out.Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "disable syntax highlighting")

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath)
			return nil
		},
	})

	return cmd
}

// highlightTOML writes source to w with terminal colour escapes.
func highlightTOML(w io.Writer, source string) error {
	lexer := lexers.Get("toml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("highlight config: %w", err)
	}
	return formatters.TTY256.Format(w, styles.Get(configStyle), it)
}
