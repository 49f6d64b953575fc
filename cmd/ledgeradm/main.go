// Command ledgeradm runs operator tasks against the ledger database:
// migrations, user management, account freezes and history dumps.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/josh-kwaku/vault-ledger/internal/config"
	"github.com/josh-kwaku/vault-ledger/internal/logging"
	"github.com/josh-kwaku/vault-ledger/internal/repository"
	"github.com/josh-kwaku/vault-ledger/internal/service/ledger"
)

func main() {
	cfg, err := config.LoadAdmin()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}
	logging.InitWriter(os.Stderr, "ledgeradm", cfg.LogLevel, cfg.AppEnv)

	env := &adminEnv{cfg: cfg}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&migrateCmd{env: env}, "schema")
	subcommands.Register(&createUserCmd{env: env}, "users")
	subcommands.Register(&userStatusCmd{env: env}, "users")
	subcommands.Register(&accountStatusCmd{env: env, name: "freeze", status: "FROZEN"}, "accounts")
	subcommands.Register(&accountStatusCmd{env: env, name: "unfreeze", status: "ACTIVE"}, "accounts")
	subcommands.Register(&historyCmd{env: env}, "accounts")

	flag.Parse()
	status := subcommands.Execute(context.Background())
	env.close()
	os.Exit(int(status))
}

// adminEnv opens the database lazily so help and usage work offline.
type adminEnv struct {
	cfg   *config.AdminConfig
	db    *repository.DB
	users *repository.UserRepository
	svc   *ledger.Service
}

func (e *adminEnv) open(ctx context.Context) error {
	if e.db != nil {
		return nil
	}
	pool, err := repository.NewPostgresDB(ctx, e.cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	})
	if err != nil {
		return err
	}

	e.db = repository.NewDB(pool, repository.BreakerConfig{})
	e.users = repository.NewUserRepository(pool)
	store := repository.NewLedgerStore(e.db,
		repository.NewAccountRepository(pool),
		repository.NewTransactionRepository(pool),
	)
	e.svc = ledger.NewService(store, e.users, e.cfg.AccountNumberMaxAttempts)
	return nil
}

func (e *adminEnv) close() {
	if e.db != nil {
		e.db.Conn().Close()
		e.db = nil
	}
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
