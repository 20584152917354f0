// Package console implements the interactive text menu on top of the ledger.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"pocketledger/internal/chart"
	"pocketledger/internal/core"
	"pocketledger/internal/ledger"
	applog "pocketledger/internal/log"
	"pocketledger/internal/storage"
)

// DefaultExportName is used when the export prompt is left empty.
const DefaultExportName = "exported_transactions"

// Ledger is the subset of *ledger.Ledger the menu drives.
type Ledger interface {
	Add(ctx context.Context, kind core.Kind, category string, amount decimal.Decimal, description string) (core.Transaction, error)
	Balance() decimal.Decimal
	SummaryByCategory() map[string]decimal.Decimal
	ExportAll(ctx context.Context, dest string) error
}

// ChartRenderer draws a chart spec to a file.
type ChartRenderer interface {
	Render(ctx context.Context, spec chart.Spec, path string) error
}

type Options struct {
	OutputDir string
	Currency  string
	Extension string
	NoColor   bool
}

type Console struct {
	in      *bufio.Reader
	out     io.Writer
	ledger  Ledger
	charts  ChartRenderer
	opts    Options
	palette palette
	logger  *applog.Logger
}

type command struct {
	label string
	run   func(c *Console, ctx context.Context) (Result, error)
}

var menu = []command{
	{"Add transaction", (*Console).addTransaction},
	{"Show balance", (*Console).showBalance},
	{"Category summary", (*Console).showSummary},
	{"Plot expense chart", (*Console).plotExpenses},
	{"Plot income chart", (*Console).plotIncomes},
	{"Export transactions", (*Console).export},
	{"Exit", nil},
}

func New(in io.Reader, out io.Writer, l Ledger, charts ChartRenderer, opts Options, logger *applog.Logger) *Console {
	if opts.Extension == "" {
		opts.Extension = storage.Extension
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if logger == nil {
		logger = applog.Default()
	}
	return &Console{
		in:      bufio.NewReader(in),
		out:     out,
		ledger:  l,
		charts:  charts,
		opts:    opts,
		palette: newPalette(opts.NoColor),
		logger:  logger.WithComponent(applog.ComponentConsole),
	}
}

// Run shows the menu until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.printMenu()
		choice, err := c.prompt(fmt.Sprintf("Choice (1-%d): ", len(menu)))
		if errors.Is(err, io.EOF) {
			c.palette.print(c.out, info("", "Input closed, exiting..."))
			return nil
		}
		if err != nil {
			return err
		}

		cmd, ok := lookup(choice)
		if !ok {
			c.palette.print(c.out, failure("Invalid selection."))
			continue
		}
		if cmd.run == nil {
			c.palette.print(c.out, info("Goodbye!"))
			return nil
		}

		res, err := cmd.run(c, ctx)
		if errors.Is(err, io.EOF) {
			c.palette.print(c.out, info("", "Input closed, exiting..."))
			return nil
		}
		if err != nil {
			return err
		}
		c.palette.print(c.out, res)
	}
}

func lookup(choice string) (command, bool) {
	for i, cmd := range menu {
		if choice == fmt.Sprint(i+1) {
			return cmd, true
		}
	}
	return command{}, false
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	c.palette.title(c.out, "Personal Finance Tracker")
	for i, cmd := range menu {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, cmd.label)
	}
}

// prompt writes label and reads one trimmed line of any length. io.EOF means
// input ended; a final line without a newline is still returned.
func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) addTransaction(ctx context.Context) (Result, error) {
	kind, err := c.prompt("Type (Income/Expense): ")
	if err != nil {
		return Result{}, err
	}
	category, err := c.prompt("Category: ")
	if err != nil {
		return Result{}, err
	}
	rawAmount, err := c.prompt("Amount (e.g. 125.50): ")
	if err != nil {
		return Result{}, err
	}
	description, err := c.prompt("Description: ")
	if err != nil {
		return Result{}, err
	}

	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return c.describe(ctx, err), nil
	}
	tx, err := c.ledger.Add(ctx, core.NormalizeKind(kind), category, amount, description)
	if err != nil {
		return c.describe(ctx, err), nil
	}
	return success(fmt.Sprintf("Transaction added: %s %s %s %s",
		tx.Kind, tx.Category, core.FormatAmount(tx.Amount), c.opts.Currency)), nil
}

func (c *Console) showBalance(context.Context) (Result, error) {
	return info(fmt.Sprintf("Balance: %s", c.money(c.ledger.Balance()))), nil
}

func (c *Console) showSummary(context.Context) (Result, error) {
	items := core.SortedSummary(c.ledger.SummaryByCategory())
	if len(items) == 0 {
		return info("No transactions recorded yet."), nil
	}
	lines := []string{"Category summary:"}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s: %s", item.Name, c.money(item.Amount)))
	}
	return info(lines...), nil
}

func (c *Console) plotExpenses(ctx context.Context) (Result, error) {
	return c.plot(ctx, chart.Spec{Kind: core.Expense, Items: core.ExpenseView(c.ledger.SummaryByCategory())}), nil
}

func (c *Console) plotIncomes(ctx context.Context) (Result, error) {
	return c.plot(ctx, chart.Spec{Kind: core.Income, Items: core.IncomeView(c.ledger.SummaryByCategory())}), nil
}

func (c *Console) plot(ctx context.Context, spec chart.Spec) Result {
	if len(spec.Items) == 0 {
		return noData(spec.Kind)
	}
	path := filepath.Join(c.opts.OutputDir, chart.FileName[spec.Kind])
	if err := c.charts.Render(ctx, spec, path); err != nil {
		return c.describe(ctx, err)
	}
	return success(fmt.Sprintf("%s chart saved: %s", spec.Kind, path))
}

func noData(kind core.Kind) Result {
	if kind == core.Income {
		return warning("No income data found. Add an income first.")
	}
	return warning("No expense data found. Add an expense first.")
}

func (c *Console) export(ctx context.Context) (Result, error) {
	name, err := c.prompt(fmt.Sprintf("Export file name (e.g. report%s): ", c.opts.Extension))
	if err != nil {
		return Result{}, err
	}
	path := filepath.Join(c.opts.OutputDir, ExportFileName(name, c.opts.Extension))
	if err := c.ledger.ExportAll(ctx, path); err != nil {
		return c.describe(ctx, err), nil
	}
	return success(fmt.Sprintf("Transactions exported: %s", path)), nil
}

// ExportFileName applies the default name and appends ext when missing.
func ExportFileName(name, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultExportName
	}
	if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		name += ext
	}
	return name
}

func (c *Console) money(d decimal.Decimal) string {
	if c.opts.Currency == "" {
		return core.FormatAmount(d)
	}
	return core.FormatAmount(d) + " " + c.opts.Currency
}

// describe turns an operation error into a message for the user.
func (c *Console) describe(ctx context.Context, err error) Result {
	var ve *core.ValidationError
	switch {
	case errors.Is(err, chart.ErrNoData):
		return warning("Nothing to plot.")
	case errors.As(err, &ve):
		return failure("Error: " + ve.Error())
	case errors.Is(err, core.ErrMalformedAmount):
		return failure("Error: " + err.Error())
	case errors.Is(err, storage.ErrDestinationMissing):
		c.logger.WarnContext(ctx, "Output directory missing", applog.FieldPath, c.opts.OutputDir, applog.FieldError, err)
		return failure(fmt.Sprintf("Error: output directory not found (%s). Set LEDGER_OUTPUT_DIR to an existing directory.", c.opts.OutputDir))
	case errors.Is(err, storage.ErrPermissionDenied):
		c.logger.WarnContext(ctx, "Write denied", applog.FieldError, err)
		return failure(fmt.Sprintf("Error: no permission to write in %s. Check directory permissions.", c.opts.OutputDir))
	case errors.Is(err, ledger.ErrPersist):
		c.logger.ErrorWith(ctx, "Transaction not saved", err)
		return failure("Error: " + err.Error())
	default:
		c.logger.ErrorWith(ctx, "Command failed", err)
		return failure("Error: " + err.Error())
	}
}
