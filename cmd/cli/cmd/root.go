package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/keurnel/machoasm/internal/assembler"
	"github.com/keurnel/machoasm/internal/diag"
)

var (
	outputPath  string
	showListing bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "machoasm [-o OUTPUT] INPUT",
	Short: "x86-64 assembler emitting Mach-O object files",
	Long: `machoasm assembles NASM-style x86-64 source into a relocatable
Mach-O object file (MH_OBJECT) that the macOS linker can consume.

Without -o, the output path is the input path with its extension
replaced by .o.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAssemble,
}

// Execute runs the CLI. Errors print to stderr in their rendered form and
// the process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, diag.Wrap(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output object file path")
	rootCmd.Flags().BoolVar(&showListing, "listing", false, "print a hex listing of the assembled sections")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// runAssemble drives the whole pipeline: read the source, assemble it,
// serialize the object into memory, and only then touch the output file,
// so a failing run never leaves a partial object behind.
func runAssemble(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	inputPath := args[0]
	output := outputPath
	if output == "" {
		output = replaceExtension(inputPath, ".o")
	}

	log.WithFields(log.Fields{"input": inputPath, "output": output}).Debug("assembling")

	input, err := os.Open(inputPath)
	if err != nil {
		return diag.Newf("failed to open %s: %v", inputPath, err)
	}
	defer input.Close()

	asm := assembler.New()
	if err := asm.ReadFrom(input); err != nil {
		return err
	}

	var object bytes.Buffer
	if err := asm.WriteTo(&object); err != nil {
		return err
	}

	if err := os.WriteFile(output, object.Bytes(), 0644); err != nil {
		return diag.Newf("failed to write %s: %v", output, err)
	}

	if showListing {
		printListing(cmd.OutOrStdout(), asm)
	}

	log.WithField("bytes", object.Len()).Debug("object written")
	return nil
}

// replaceExtension swaps the path's extension, appending when there is
// none.
func replaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// printListing renders the section hex dump with highlighted headings.
func printListing(w io.Writer, asm *assembler.Assembler) {
	var listing bytes.Buffer
	asm.Listing(&listing)

	heading := color.New(color.FgCyan, color.Bold)
	for _, line := range strings.SplitAfter(listing.String(), "\n") {
		if strings.HasPrefix(line, "__") {
			heading.Fprint(w, line)
			continue
		}
		fmt.Fprint(w, line)
	}
}
