package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ccreverse/pkg/errors"
	"github.com/matzehuels/ccreverse/pkg/ident"
)

// uuidConversion is one identifier conversion exposed as a subcommand.
type uuidConversion struct {
	use, short string
	valid      func(string) bool
	form       string
	convert    func(string) string
}

var uuidConversions = []uuidConversion{
	{"decode", "Compact (22 chars) to canonical form", ident.IsCompact, "compact", ident.Decode},
	{"encode", "Canonical to compact (22 chars) form", ident.IsCanonical, "canonical", ident.Encode},
	{"compress", "Canonical to short (23 chars) form", ident.IsCanonical, "canonical", ident.Compress},
	{"expand", "Short (23 chars) to canonical form", ident.IsShort, "short", ident.Expand},
}

func (c *CLI) uuidCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uuid",
		Short: "Convert asset identifiers between encodings",
		Long: `Convert asset identifiers between the forms found in builds and projects.

  compact    fcmR3XADNLgJ1ByKhqcC5Z                 import document names, __uuid__ fields
  canonical  fc991dd7-0033-4b80-9d41-c8a86a702e59   .meta files, raw asset names
  short      fc9913XADNLgJ1ByKhqcC5Z                script class ids

Examples:
  ccreverse uuid decode fcmR3XADNLgJ1ByKhqcC5Z
  ccreverse uuid encode fc991dd7-0033-4b80-9d41-c8a86a702e59`,
	}
	for _, conv := range uuidConversions {
		cmd.AddCommand(conv.command())
	}
	return cmd
}

func (u uuidConversion) command() *cobra.Command {
	return &cobra.Command{
		Use:   u.use + " <id>...",
		Short: u.short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if !u.valid(id) {
					return errors.New(errors.ErrCodeInvalidInput, "%q is not a %s identifier", id, u.form)
				}
			}
			for _, id := range args {
				fmt.Fprintln(cmd.OutOrStdout(), u.convert(id))
			}
			return nil
		},
	}
}
