package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/josh-kwaku/vault-ledger/internal/auth"
	"github.com/josh-kwaku/vault-ledger/internal/domain"
	"github.com/josh-kwaku/vault-ledger/internal/repository"
)

// --- migrate ---

type migrateCmd struct {
	env *adminEnv
	dir string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending schema migrations" }
func (*migrateCmd) Usage() string {
	return `ledgeradm migrate [-dir <path>]

  Applies every pending up migration. Defaults to MIGRATIONS_PATH.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Directory holding the migration files.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.env.open(ctx); err != nil {
		return fail("%v", err)
	}
	dir := c.dir
	if dir == "" {
		dir = c.env.cfg.MigrationsPath
	}
	if err := repository.Migrate(c.env.db.Conn(), dir); err != nil {
		return fail("%v", err)
	}
	fmt.Println("migrations applied")
	return subcommands.ExitSuccess
}

// --- create-user ---

type createUserCmd struct {
	env      *adminEnv
	email    string
	name     string
	password string
}

func (*createUserCmd) Name() string     { return "create-user" }
func (*createUserCmd) Synopsis() string { return "register a user who can log in to the API" }
func (*createUserCmd) Usage() string {
	return `ledgeradm create-user -email <email> -name <name> -password <password>
`
}

func (c *createUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Login email, unique across users.")
	f.StringVar(&c.name, "name", "", "Display name.")
	f.StringVar(&c.password, "password", "", "Initial password.")
}

func (c *createUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.name == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -email, -name and -password are required.")
		return subcommands.ExitUsageError
	}
	if err := c.env.open(ctx); err != nil {
		return fail("%v", err)
	}

	hash, err := auth.HashPassword(c.password)
	if err != nil {
		return fail("%v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(c.email)),
		Name:         c.name,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.env.users.Create(ctx, u); err != nil {
		return fail("%v", err)
	}
	fmt.Println(u.ID)
	return subcommands.ExitSuccess
}

// --- user-status ---

type userStatusCmd struct {
	env    *adminEnv
	id     string
	status string
}

func (*userStatusCmd) Name() string     { return "user-status" }
func (*userStatusCmd) Synopsis() string { return "set a user's status to ACTIVE, FROZEN or CLOSED" }
func (*userStatusCmd) Usage() string {
	return `ledgeradm user-status -id <user-id> -status <ACTIVE|FROZEN|CLOSED>

  CLOSED freezes the user, closes every open account they own, then marks
  the user CLOSED. It fails, leaving the user as they were, if any account
  still holds a balance.
`
}

func (c *userStatusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "User id.")
	f.StringVar(&c.status, "status", "", "New status.")
}

func (c *userStatusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := uuid.Parse(c.id)
	status := domain.UserStatus(strings.ToUpper(c.status))
	if err != nil || !status.IsValid() {
		fmt.Fprintln(os.Stderr, "Error: -id must be a uuid and -status one of ACTIVE, FROZEN, CLOSED.")
		return subcommands.ExitUsageError
	}
	if err := c.env.open(ctx); err != nil {
		return fail("%v", err)
	}

	if status == domain.UserStatusClosed {
		closed, err := closeUser(ctx, c.env.users, c.env.svc, id)
		if err != nil {
			return fail("%v", err)
		}
		for _, n := range closed {
			fmt.Printf("closed account %s\n", n)
		}
	} else if err := c.env.users.UpdateStatus(ctx, id, status); err != nil {
		return fail("%v", err)
	}
	fmt.Printf("user %s is %s\n", id, status)
	return subcommands.ExitSuccess
}

// --- freeze / unfreeze ---

type accountStatusCmd struct {
	env     *adminEnv
	name    string
	status  domain.AccountStatus
	account string
}

func (c *accountStatusCmd) Name() string { return c.name }
func (c *accountStatusCmd) Synopsis() string {
	return fmt.Sprintf("set an account's status to %s", c.status)
}
func (c *accountStatusCmd) Usage() string {
	return fmt.Sprintf("ledgeradm %s -account <number>\n", c.name)
}

func (c *accountStatusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
}

func (c *accountStatusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required.")
		return subcommands.ExitUsageError
	}
	if err := c.env.open(ctx); err != nil {
		return fail("%v", err)
	}

	acct, err := c.env.svc.SetAccountStatus(ctx, c.account, c.status)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("account %s is %s\n", acct.AccountNumber, acct.Status)
	return subcommands.ExitSuccess
}

// --- history ---

type historyCmd struct {
	env     *adminEnv
	account string
	limit   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "print an account's transactions, newest first" }
func (*historyCmd) Usage() string {
	return `ledgeradm history -account <number> [-limit <n>]

  Amounts are printed in LEDGER_CURRENCY.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.IntVar(&c.limit, "limit", 50, "Maximum number of records; 0 prints all.")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.limit < 0 {
		fmt.Fprintln(os.Stderr, "Error: -account is required and -limit must not be negative.")
		return subcommands.ExitUsageError
	}
	if err := c.env.open(ctx); err != nil {
		return fail("%v", err)
	}

	acct, err := c.env.svc.LookupAccount(ctx, c.account)
	if err != nil {
		return fail("%v", err)
	}
	recs, err := c.env.svc.History(ctx, c.account, c.limit)
	if err != nil {
		return fail("%v", err)
	}

	currency := c.env.cfg.LedgerCurrency
	fmt.Printf("%s  %s  %s  balance %s\n\n", acct.AccountNumber, acct.AccountType, acct.Status, formatAmount(acct.Balance, currency))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTYPE\tFROM\tTO\tAMOUNT")
	for _, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Type,
			orDash(r.SourceAccount),
			orDash(r.DestinationAccount),
			signedAmount(r, c.account, currency),
		)
	}
	if err := w.Flush(); err != nil {
		return fail("%v", err)
	}
	return subcommands.ExitSuccess
}
