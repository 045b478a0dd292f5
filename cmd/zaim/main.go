package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"zaim/internal/auth"
	"zaim/internal/balance"
	"zaim/internal/cli"
	"zaim/internal/config"
	"zaim/internal/core"
	zaimledger "zaim/internal/ledger/zaim"
	"zaim/internal/output"
)

const version = "1.0.0"

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "balance":
		runBalance(logger, os.Args[2:])
	case "account":
		runAccount(logger, os.Args[2:])
	case "auth":
		runAuth(logger, os.Args[2:])
	case "config":
		runConfig(logger, os.Args[2:])
	case "version":
		fmt.Printf("zaim CLI v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("zaim - command-line household ledger")
	fmt.Println("\nUsage:")
	fmt.Println("  zaim <command> <subcommand> [options] [args]")
	fmt.Println("\nCommands:")
	fmt.Println("  balance show [account]              Show computed balances")
	fmt.Println("  balance set <account> <amount>      Adjust an account to a target balance")
	fmt.Println("  balance add <account> <amount>      Raise an account balance")
	fmt.Println("  balance subtract <account> <amount> Lower an account balance")
	fmt.Println("  account list                        List remote accounts")
	fmt.Println("  auth login|whoami|logout            Manage OAuth credentials")
	fmt.Println("  config show|set|reset               Manage CLI preferences")
	fmt.Println("  version                             Print version")
	fmt.Println("\nRun with LEDGER_BACKEND=memory for an offline demo dataset.")
}

// balanceFlags are the options shared by every balance subcommand.
type balanceFlags struct {
	fs       *flag.FlagSet
	comment  *string
	dryRun   *bool
	force    *bool
	format   *string
	lookback *int
}

func newBalanceFlags(name string) *balanceFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &balanceFlags{
		fs:       fs,
		comment:  fs.String("comment", "", "comment for the adjustment record"),
		dryRun:   fs.Bool("dry-run", false, "preview the adjustment without submitting it"),
		force:    fs.Bool("force", false, "skip the confirmation prompt"),
		format:   fs.String("format", "", "output format: table, csv, or json"),
		lookback: fs.Int("lookback", 0, "history window in days (default from config)"),
	}
}

func runBalance(logger *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: zaim balance <show|set|add|subtract> ...")
		os.Exit(1)
	}
	sub, rest := args[0], args[1:]

	cfg := cli.OpenConfig(logger)

	switch sub {
	case "show":
		f := newBalanceFlags("balance show")
		f.fs.Parse(rest)
		query := f.fs.Arg(0)

		mgr := newManager(logger, cfg, *f.lookback)
		balances, err := mgr.ShowBalance(context.Background(), query)
		if err != nil {
			logger.Error("Balance lookup failed", "error", err)
			os.Exit(1)
		}
		if err := renderer(cfg, *f.format).AccountBalances(balances); err != nil {
			logger.Error("Render failed", "error", err)
			os.Exit(1)
		}

	case "set", "add", "subtract":
		f := newBalanceFlags("balance " + sub)
		f.fs.Parse(rest)
		if f.fs.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "Usage: zaim balance %s [options] <account> <amount>\n", sub)
			os.Exit(1)
		}
		account := f.fs.Arg(0)
		amount, err := strconv.ParseInt(f.fs.Arg(1), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid amount %q\n", f.fs.Arg(1))
			os.Exit(1)
		}

		if !*f.dryRun && !*f.force && cfg.ConfirmTransactions() {
			if !confirm(fmt.Sprintf("%s balance of %q by/to %d?", sub, account, amount)) {
				fmt.Println("Cancelled.")
				return
			}
		}

		mgr := newManager(logger, cfg, *f.lookback)
		res := runAdjustment(context.Background(), mgr, sub, account, amount, *f.comment, *f.dryRun)
		if res.err != nil {
			logger.Error("Reconciliation failed", "error", res.err)
			os.Exit(1)
		}
		if err := renderer(cfg, *f.format).AdjustmentResult(res.result); err != nil {
			logger.Error("Render failed", "error", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown balance subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runAccount(logger *slog.Logger, args []string) {
	if len(args) < 1 || args[0] != "list" {
		fmt.Fprintln(os.Stderr, "Usage: zaim account list [--active-only] [--format f]")
		os.Exit(1)
	}
	fs := flag.NewFlagSet("account list", flag.ExitOnError)
	activeOnly := fs.Bool("active-only", false, "show active accounts only")
	format := fs.String("format", "", "output format: table, csv, or json")
	fs.Parse(args[1:])

	cfg := cli.OpenConfig(logger)
	ledger := cli.NewLedger(logger)

	accounts, err := ledger.ListAccounts(context.Background())
	if err != nil {
		logger.Error("Account listing failed", "error", err)
		os.Exit(1)
	}
	if *activeOnly {
		filtered := accounts[:0]
		for _, a := range accounts {
			if a.IsActive() {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}
	if err := renderer(cfg, *format).Accounts(accounts); err != nil {
		logger.Error("Render failed", "error", err)
		os.Exit(1)
	}
}

func runAuth(logger *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: zaim auth <login|whoami|logout> ...")
		os.Exit(1)
	}
	sub, rest := args[0], args[1:]

	creds := config.CredentialsFromEnv()
	mgr, err := auth.NewManager(creds.ConsumerKey, creds.ConsumerSecret)
	if err != nil {
		logger.Error("Auth setup failed", "error", err,
			"hint", "set ZAIM_CONSUMER_KEY and ZAIM_CONSUMER_SECRET")
		os.Exit(1)
	}

	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		port := fs.Int("port", 0, "callback port (0 picks a free one)")
		printURL := fs.Bool("print-url", false, "print the authorization URL instead of opening a browser")
		timeout := fs.Duration("timeout", 5*time.Minute, "authorization timeout")
		fs.Parse(rest)

		tok, err := mgr.Login(context.Background(), auth.LoginOptions{
			Port:     *port,
			PrintURL: *printURL,
			Timeout:  *timeout,
			Output: func(format string, args ...any) {
				fmt.Printf(format+"\n", args...)
			},
		})
		if err != nil {
			logger.Error("Login failed", "error", err)
			os.Exit(1)
		}

		// Verify the fresh tokens and greet the user.
		client, err := zaimledger.New(zaimledger.Config{
			ConsumerKey:       creds.ConsumerKey,
			ConsumerSecret:    creds.ConsumerSecret,
			AccessToken:       tok.AccessToken,
			AccessTokenSecret: tok.AccessTokenSecret,
		})
		if err == nil {
			if user, err := client.VerifyUser(context.Background()); err == nil {
				fmt.Printf("Logged in as %s (id %d)\n", user.Name, user.ID)
			}
		}

	case "whoami":
		token, secret, ok := mgr.StoredCredentials()
		if !ok {
			token, secret = creds.AccessToken, creds.AccessTokenSecret
		}
		client, err := zaimledger.New(zaimledger.Config{
			ConsumerKey:       creds.ConsumerKey,
			ConsumerSecret:    creds.ConsumerSecret,
			AccessToken:       token,
			AccessTokenSecret: secret,
		})
		if err != nil {
			logger.Error("No stored credentials; run 'zaim auth login'", "error", err)
			os.Exit(1)
		}
		user, err := client.VerifyUser(context.Background())
		if err != nil {
			logger.Error("Token verification failed; run 'zaim auth login'", "error", err)
			os.Exit(1)
		}
		cfg := cli.OpenConfig(logger)
		if err := renderer(cfg, string(output.FormatJSON)).JSON(user); err != nil {
			logger.Error("Render failed", "error", err)
			os.Exit(1)
		}

	case "logout":
		if err := mgr.DeleteTokens(); err != nil {
			logger.Error("Logout failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("Logged out; tokens deleted.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown auth subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runConfig(logger *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: zaim config <show|set|reset> ...")
		os.Exit(1)
	}
	cfg := cli.OpenConfig(logger)

	switch args[0] {
	case "show":
		if err := renderer(cfg, string(output.FormatJSON)).JSON(cfg.All()); err != nil {
			logger.Error("Render failed", "error", err)
			os.Exit(1)
		}

	case "set":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: zaim config set <key> <value>")
			os.Exit(1)
		}
		cfg.Set(args[1], args[2])
		if err := cfg.Save(); err != nil {
			logger.Error("Config save failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Updated %s = %s\n", args[1], args[2])

	case "reset":
		if err := cfg.Reset(); err != nil {
			logger.Error("Config reset failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("Config reset to defaults.")

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

type adjustmentOutcome struct {
	result core.AdjustmentResult
	err    error
}

// runAdjustment dispatches to the reconciler operation matching the
// subcommand name.
func runAdjustment(ctx context.Context, mgr *balance.Manager, sub, account string, amount int64, comment string, dryRun bool) adjustmentOutcome {
	switch sub {
	case "set":
		res, err := mgr.SetBalance(ctx, account, amount, comment, dryRun)
		return adjustmentOutcome{result: res, err: err}
	case "add":
		res, err := mgr.AddBalance(ctx, account, amount, comment, dryRun)
		return adjustmentOutcome{result: res, err: err}
	default:
		res, err := mgr.SubtractBalance(ctx, account, amount, comment, dryRun)
		return adjustmentOutcome{result: res, err: err}
	}
}

func newManager(logger *slog.Logger, cfg *config.File, lookback int) *balance.Manager {
	if lookback <= 0 {
		lookback = cfg.LookbackDays()
	}
	return balance.NewManager(cli.NewLedger(logger), balance.Options{
		LookbackDays:  lookback,
		CommentPrefix: cfg.CommentPrefix(),
	})
}

func renderer(cfg *config.File, format string) *output.Renderer {
	if format == "" {
		format = string(output.FormatTable)
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return output.NewRenderer(os.Stdout, f, cfg.CurrencyFormat(), cfg.ShowTransactionCount())
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
