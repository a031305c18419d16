// Command igesinfo inspects IGES files: it lists the entities of a
// file, optionally validates them, and can dump the parameter vector
// of a single entity.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chazu/goiges/pkg/document"
	"github.com/chazu/goiges/pkg/entity"
	"github.com/chazu/goiges/pkg/igesio"
)

var (
	flagValidate bool
	flagDump     int
	flagVerbose  bool
	flagSkip     bool
)

var rootCmd = &cobra.Command{
	Use:   "igesinfo <file>",
	Short: "Inspect and validate IGES files",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagValidate, "validate", false, "run entity validation and report failures")
	rootCmd.Flags().IntVar(&flagDump, "dump", 0, "dump the parameter vector of the entity at this DE pointer")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log loading and resolution details")
	rootCmd.Flags().BoolVar(&flagSkip, "skip-broken", false, "skip entities that fail to construct")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := zerolog.Nop()
	if flagVerbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	opts := []document.Option{document.WithLogger(log)}
	if flagSkip {
		opts = append(opts, document.SkipBrokenEntities())
	}
	doc, file, err := igesio.Read(f, opts...)
	if err != nil {
		return err
	}

	if flagDump != 0 {
		return dump(doc, flagDump)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DE\tTYPE\tFORM\tLABEL\tPARAMS")
	for _, r := range file.Records {
		e := doc.ByDEPointer(r.DE.SequenceNumber)
		if e == nil {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t(skipped)\n",
				r.DE.SequenceNumber, r.DE.Type, r.DE.FormNumber, r.DE.Label)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\n",
			r.DE.SequenceNumber, e.Type(), e.FormNumber(), r.DE.Label, len(entity.Parameters(e)))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if flagValidate {
		res := doc.Validate()
		if !res.OK() {
			fmt.Println(res.Report())
			return fmt.Errorf("validation failed with %d errors", len(res.Errors))
		}
		fmt.Println("validation: ok")
	}
	return nil
}

func dump(doc *document.Document, dePointer int) error {
	e := doc.ByDEPointer(dePointer)
	if e == nil {
		return fmt.Errorf("no entity at DE pointer %d", dePointer)
	}
	fmt.Printf("%s (form %d)\n", e.Type(), e.FormNumber())
	for i, p := range entity.Parameters(e) {
		fmt.Printf("%4d  %-8s %s\n", i, p.Kind, p.Format())
	}
	return nil
}
