package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	gouncertain "github.com/njchilds90/gouncertain"
)

func parseNumber(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, s)
	}
	return f, nil
}

func (o *options) runFormat(cmd *cobra.Command, args []string) error {
	v, err := parseNumber("value", args[0])
	if err != nil {
		return err
	}
	e := 0.0
	if len(args) == 2 {
		if e, err = parseNumber("error", args[1]); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), o.formatter.Format(v, e))
	return nil
}

func (o *options) runParse(cmd *cobra.Command, args []string) error {
	l, err := gouncertain.ParseLeaf(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if o.jsonOutput {
		s, err := gouncertain.ToJSON(l)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}
	fmt.Fprintf(out, "value: %g\n", l.Value())
	if l.HasError() {
		fmt.Fprintf(out, "error: %g\n", l.Error())
	} else {
		fmt.Fprintln(out, "error: none")
	}
	fmt.Fprintf(out, "canonical: %s\n", o.formatter.Format(l.Value(), l.Error()))
	return nil
}

func (o *options) runEval(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	doc, err := gouncertain.DecodeDocument(data)
	if err != nil {
		return err
	}
	results, err := doc.Evaluate()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if o.jsonOutput {
		for _, r := range results {
			s, err := gouncertain.ToJSON(r.Quantity)
			if err != nil {
				return fmt.Errorf("output %q: %w", r.Name, err)
			}
			fmt.Fprintf(out, "{\"name\":%q,\"quantity\":%s}\n", r.Name, s)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRESULT\tVALUE\tERROR\tREL. ERROR")
	ops := make([]gouncertain.Operand, len(results))
	for i, r := range results {
		ops[i] = r.Quantity
		q := r.Quantity
		rel := "-"
		if re, ok := q.RelativeError(); ok {
			rel = strconv.FormatFloat(re, 'g', 3, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%s\n", r.Name, o.formatter.Format(q.Value(), q.Error()), q.Value(), q.Error(), rel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if o.correlation {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "correlation =\n%.4v\n", mat.Formatted(gouncertain.CorrelationMatrix(ops...), mat.Squeeze()))
	}
	return nil
}
