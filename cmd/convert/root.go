package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"unitconv/internal/config"
	"unitconv/internal/engine"
	"unitconv/internal/logging"
	"unitconv/internal/models"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout, logger: zap.NewNop()}

	var (
		configPath string
		pretty     bool
		output     string
	)

	root := &cobra.Command{
		Use:   "convert <value> <from_unit> <to_unit> <domain>",
		Short: "Convert a value between units of length, weight, temperature or volume",
		Example: `  convert 1 km m length
  convert -40 C F temperature
  convert units volume
  convert batch conversions.csv`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.NewConsole(cfg.Log.Level)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(args, pretty, output)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a YAML config file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Bool("allow-negative", false, "accept negative lengths, weights and volumes")

	root.Flags().BoolVar(&pretty, "pretty", false, "print the formatted quantity with unit names")
	root.Flags().StringVarP(&output, "output", "o", "", "output format: empty for plain, or json")

	root.AddCommand(newUnitsCmd(a), newDomainsCmd(a), newBatchCmd(a))
	return root
}

func (a *app) convert(args []string, pretty bool, output string) error {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	from, to := args[1], args[2]

	domain, err := engine.ParseDomain(args[3])
	if err != nil {
		return err
	}
	if err := engine.ValidateInput(value, domain, a.cfg.AllowNegative); err != nil {
		return err
	}

	result, err := engine.Convert(value, from, to, domain)
	if err != nil {
		return err
	}
	if err := engine.CheckResult(result, to, domain); err != nil {
		return err
	}
	a.logger.Debug("converted",
		zap.Float64("value", value), zap.String("from", from), zap.String("to", to),
		zap.String("domain", string(domain)), zap.Float64("result", result))

	switch {
	case output == "json":
		data, err := json.Marshal(models.ConversionResponse{
			Value: value, From: from, To: to, Domain: string(domain),
			Result: result, Formatted: engine.FormatQuantity(result, to, domain),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(data))
	case output != "":
		return fmt.Errorf("unknown output format %q", output)
	case pretty:
		fmt.Fprintf(a.stdout, "%s = %s\n",
			engine.FormatQuantity(value, from, domain), engine.FormatQuantity(result, to, domain))
	default:
		fmt.Fprintln(a.stdout, strconv.FormatFloat(result, 'g', -1, 64))
	}
	return nil
}

func newUnitsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "units <domain>",
		Short: "List the units of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := engine.ListUnits(engine.Domain(args[0]))
			if err != nil {
				return err
			}
			for _, u := range units {
				fmt.Fprintln(a.stdout, engine.FormatOption(u))
			}
			return nil
		},
	}
}

func newDomainsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the measurement domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range engine.Domains() {
				fmt.Fprintln(a.stdout, d)
			}
			return nil
		},
	}
}

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Convert every row of a CSV file (value,from_unit,to_unit,domain)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := engine.LoadRequests(args[0])
			if err != nil {
				return err
			}

			// Rows failing validation are reported without being converted.
			results := make([]engine.Result, len(reqs))
			pending := make([]engine.Request, 0, len(reqs))
			index := make([]int, 0, len(reqs))
			for i, r := range reqs {
				results[i].Request = r
				if err := engine.ValidateInput(r.Value, r.Domain, a.cfg.AllowNegative); err != nil {
					results[i].Err = err
					continue
				}
				pending = append(pending, r)
				index = append(index, i)
			}
			converted, err := engine.ConvertBatch(cmd.Context(), pending, a.cfg.Batch.Workers)
			if err != nil {
				return err
			}
			for j, res := range converted {
				if res.Err == nil {
					res.Err = engine.CheckResult(res.Output, res.Request.To, res.Request.Domain)
				}
				results[index[j]] = res
			}

			for _, res := range results {
				if res.Err != nil {
					fmt.Fprintf(a.stdout, "error: %v\n", res.Err)
					continue
				}
				fmt.Fprintln(a.stdout, strconv.FormatFloat(res.Output, 'g', -1, 64))
			}
			if failed := engine.Failed(results); failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", failed, len(results))
			}
			a.logger.Debug("batch complete", zap.Int("rows", len(results)))
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "batch worker count (0 = number of CPUs)")
	return cmd
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(escapeNegativeNumbers(root, args))
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		var uerr *engine.UnknownUnitError
		if errors.As(err, &uerr) {
			if units, lerr := engine.ListUnits(uerr.Domain); lerr == nil {
				fmt.Fprintf(stderr, "valid %s units: %s\n", uerr.Domain, strings.Join(units, ", "))
			}
		}
		return 1
	}
	return 0
}

// escapeNegativeNumbers lets "convert -40 C F temperature" work: flags are
// moved in front of a "--" so a leading minus is read as a value, not a flag.
// Subcommands and argument lists already containing "--" are left alone.
func escapeNegativeNumbers(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}
	for _, sub := range root.Commands() {
		if sub.Name() == args[0] {
			return args
		}
	}

	hasNegative := false
	for _, arg := range args {
		if arg == "--" {
			return args
		}
		if isNegativeNumber(arg) {
			hasNegative = true
		}
	}
	if !hasNegative {
		return args
	}

	var flagArgs, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || isNegativeNumber(arg) {
			positional = append(positional, arg)
			continue
		}
		flagArgs = append(flagArgs, arg)
		if f := lookupFlag(root, arg); f != nil && f.Value.Type() != "bool" && !strings.Contains(arg, "=") && i+1 < len(args) {
			i++
			flagArgs = append(flagArgs, args[i])
		}
	}
	return append(append(flagArgs, "--"), positional...)
}

func lookupFlag(root *cobra.Command, arg string) *pflag.Flag {
	for _, fs := range []*pflag.FlagSet{root.Flags(), root.PersistentFlags()} {
		if name, ok := strings.CutPrefix(arg, "--"); ok {
			if f := fs.Lookup(name); f != nil {
				return f
			}
			continue
		}
		if short := strings.TrimPrefix(arg, "-"); len(short) == 1 {
			if f := fs.ShorthandLookup(short); f != nil {
				return f
			}
		}
	}
	return nil
}

func isNegativeNumber(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}
