package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"tabkit/analysis"
	"tabkit/config"
	"tabkit/dataset"
)

// write saves d under out and reports the files.
func write(w io.Writer, d *dataset.Dataset, out string) error {
	files, err := d.ToCSV(out, dataset.CSVOptions{})
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(w, "wrote %s\n", f)
	}
	return nil
}

func (a *app) splitCmd() *cobra.Command {
	var (
		fraction float64
		seed     int64
		out      string
	)
	cmd := &cobra.Command{
		Use:   "split <data.csv>",
		Short: "Split a dataset into train and test files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []dataset.Option{dataset.WithSplit(fraction)}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, dataset.WithSeed(seed))
			}
			d, err := a.open(args, opts...)
			if err != nil {
				return err
			}
			defer d.Close()
			return write(cmd.OutOrStdout(), d, out)
		},
	}
	cmd.Flags().Float64Var(&fraction, "fraction", 0, "Fraction of rows for the test set (default: test_split_percentage)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Shuffle seed (default: random_seed)")
	cmd.Flags().StringVarP(&out, "out", "o", "split", "Output file prefix")
	return cmd
}

func (a *app) pruneCmd() *cobra.Command {
	var (
		columns, rows float64
		out           string
	)
	cmd := &cobra.Command{
		Use:   "prune <train.csv> [test.csv]",
		Short: "Remove columns or rows with too many missing values",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("columns") && !cmd.Flags().Changed("rows") {
				return errors.New("set --columns, --rows or both")
			}
			d, err := a.open(args)
			if err != nil {
				return err
			}
			defer d.Close()
			if cmd.Flags().Changed("columns") {
				if err := d.RemoveColumnsThreshold(columns); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("rows") {
				if err := d.RemoveRowsThreshold(rows); err != nil {
					return err
				}
			}
			return write(cmd.OutOrStdout(), d, out)
		},
	}
	cmd.Flags().Float64Var(&columns, "columns", 0, "Drop columns whose missing fraction exceeds this")
	cmd.Flags().Float64Var(&rows, "rows", 0, "Drop rows whose missing fraction exceeds this")
	cmd.Flags().StringVarP(&out, "out", "o", "pruned", "Output file prefix")
	return cmd
}

func (a *app) dedupeCmd() *cobra.Command {
	var (
		on      []string
		columns bool
		out     string
	)
	cmd := &cobra.Command{
		Use:   "dedupe <train.csv> [test.csv]",
		Short: "Remove duplicate rows, and with --columns duplicate columns",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.RemoveDuplicateRows(on...); err != nil {
				return err
			}
			if columns {
				if err := d.RemoveDuplicateColumns(); err != nil {
					return err
				}
			}
			return write(cmd.OutOrStdout(), d, out)
		},
	}
	cmd.Flags().StringSliceVar(&on, "on", nil, "Columns compared to find duplicate rows (default: all)")
	cmd.Flags().BoolVar(&columns, "columns", false, "Also remove duplicate columns")
	cmd.Flags().StringVarP(&out, "out", "o", "deduped", "Output file prefix")
	return cmd
}

func (a *app) dropCmd() *cobra.Command {
	var (
		columns []string
		opts    dataset.DropOptions
		out     string
	)
	cmd := &cobra.Command{
		Use:   "drop <train.csv> [test.csv]",
		Short: "Drop columns by name or regular expression",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args)
			if err != nil {
				return err
			}
			defer d.Close()
			dropped, err := d.Drop(columns, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", strings.Join(dropped, ", "))
			return write(cmd.OutOrStdout(), d, out)
		},
	}
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to drop")
	cmd.Flags().StringSliceVar(&opts.Keep, "keep", nil, "Columns never dropped")
	cmd.Flags().StringVar(&opts.Regexp, "regexp", "", "Drop columns matching this expression")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "Reason recorded in the journal")
	cmd.Flags().StringVarP(&out, "out", "o", "dropped", "Output file prefix")
	return cmd
}

func (a *app) missingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "missing <train.csv> [test.csv]",
		Short: "Show missing value counts per column",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args)
			if err != nil {
				return err
			}
			defer d.Close()
			w := cmd.OutOrStdout()
			for _, fm := range d.MissingValues() {
				if len(fm.Columns) == 0 {
					fmt.Fprintf(w, "%s: no missing values\n", fm.Name)
					continue
				}
				analysis.RenderMissing(w, string(fm.Name), fm.Columns)
			}
			return nil
		},
	}
}

func (a *app) describeCmd() *cobra.Command {
	var (
		which  string
		column string
	)
	cmd := &cobra.Command{
		Use:   "describe <train.csv> [test.csv]",
		Short: "Summarise every column, or one column in detail",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args)
			if err != nil {
				return err
			}
			defer d.Close()
			w := cmd.OutOrStdout()
			if column == "" {
				df, err := d.Describe(dataset.Which(which))
				if err != nil {
					return err
				}
				analysis.RenderTable(w, df)
				return nil
			}
			st, err := d.DescribeColumn(column, dataset.Which(which))
			if err != nil {
				return err
			}
			printColumnStats(w, st)
			return nil
		},
	}
	cmd.Flags().StringVar(&which, "which", "train", "Frame to describe: train or test")
	cmd.Flags().StringVar(&column, "column", "", "Describe this column in detail")
	return cmd
}

func printColumnStats(w io.Writer, st analysis.ColumnStats) {
	fmt.Fprintf(w, "column: %s\ntype: %s\ncounts: %d\nuniques: %d\nmissing: %d\nmissing_perc: %.2f%%\n",
		st.Column, st.Type, st.Counts, st.Uniques, st.Missing, st.MissingPerc*100)
	n := st.Numeric
	if n == nil {
		return
	}
	for _, kv := range []struct {
		name string
		v    float64
	}{
		{"mean", n.Mean}, {"std", n.Std}, {"variance", n.Variance},
		{"min", n.Min}, {"5%", n.P5}, {"25%", n.P25}, {"50%", n.P50},
		{"75%", n.P75}, {"95%", n.P95}, {"max", n.Max}, {"iqr", n.IQR},
		{"mode", n.Mode}, {"kurtosis", n.Kurtosis}, {"skewness", n.Skewness},
		{"sum", n.Sum}, {"mad", n.MAD}, {"cv", n.CV},
	} {
		fmt.Fprintf(w, "%s: %g\n", kv.name, kv.v)
	}
	fmt.Fprintf(w, "zeros: %d (%.2f%%)\n", n.Zeros, n.ZerosPerc*100)
	fmt.Fprintf(w, "deviating_of_mean: %d (%.2f%%)\n", n.DeviatingOfMean, n.DeviatingOfMeanPerc*100)
	fmt.Fprintf(w, "deviating_of_median: %d (%.2f%%)\n", n.DeviatingOfMedian, n.DeviatingOfMedianPerc*100)
	for _, c := range n.TopCorrelations {
		fmt.Fprintf(w, "correlation %s: %.4f\n", c.Column, c.Value)
	}
}

func (a *app) groupbyCmd() *cobra.Command {
	var by, cols []string
	cmd := &cobra.Command{
		Use:   "groupby <train.csv>",
		Short: "Describe columns per group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args)
			if err != nil {
				return err
			}
			defer d.Close()
			df, err := d.GroupByAnalysis(by, cols, nil)
			if err != nil {
				return err
			}
			analysis.RenderTable(cmd.OutOrStdout(), df)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "Columns to group by")
	cmd.Flags().StringSliceVar(&cols, "cols", nil, "Columns to describe (default: all)")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func (a *app) encodeCmd() *cobra.Command {
	var (
		target string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "encode <train.csv> [test.csv]",
		Short: "Label encode the target column",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args, dataset.WithTarget(target))
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.EncodeTarget(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			mapping := d.TargetMapping()
			codes := make([]int, 0, len(mapping))
			for c := range mapping {
				codes = append(codes, c)
			}
			sort.Ints(codes)
			for _, c := range codes {
				fmt.Fprintf(w, "%d: %s\n", c, mapping[c])
			}
			return write(w, d, out)
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "Target column")
	cmd.Flags().StringVarP(&out, "out", "o", "encoded", "Output file prefix")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func (a *app) optionsCmd() *cobra.Command {
	var (
		set  []string
		save string
	)
	cmd := &cobra.Command{
		Use:   "options [name...]",
		Short: "Describe, set and save options",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, kv := range set {
				name, value, ok := strings.Cut(kv, "=")
				if !ok {
					return errors.Errorf("--set %q: want name=value", kv)
				}
				if err := config.Default.Set(name, value); err != nil {
					return err
				}
			}
			names := args
			if len(names) == 0 {
				names = config.Default.Names()
			}
			w := cmd.OutOrStdout()
			for _, n := range names {
				desc, err := config.Default.Describe(n)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, desc)
			}
			if save != "" {
				return config.Default.Save(save)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "Set an option, as name=value")
	cmd.Flags().StringVar(&save, "save", "", "Write non-default options to this YAML file")
	return cmd
}
