package launcher

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-ballot/flags"
	"github.com/rony4d/go-opera-ballot/integration"
	"github.com/rony4d/go-opera-ballot/opera"
	"github.com/rony4d/go-opera-ballot/opera/contracts/ballot"
	"github.com/rony4d/go-opera-ballot/opera/genesis"
)

const fakeAccountPrefix = "fake:"

var commands = []cli.Command{
	{
		Name:   "init",
		Usage:  "Create a session from the session.* settings",
		Action: initCommand,
	},
	{
		Name:   "fakenet",
		Usage:  "Create a fake session owned by fake:0 with funded fake accounts",
		Action: fakenetCommand,
	},
	{
		Name:   "credit",
		Usage:  "Credit tokens to an account at the host block",
		Flags:  []cli.Flag{flags.ToFlag, flags.AmountFlag},
		Action: creditCommand,
	},
	{
		Name:   "debit",
		Usage:  "Debit tokens from an account at the host block",
		Flags:  []cli.Flag{flags.FromFlag, flags.AmountFlag},
		Action: debitCommand,
	},
	{
		Name:   "transfer",
		Usage:  "Move tokens between accounts at the host block",
		Flags:  []cli.Flag{flags.FromFlag, flags.ToFlag, flags.AmountFlag},
		Action: transferCommand,
	},
	{
		Name:   "vote",
		Usage:  "Vote for a candidate",
		Flags:  []cli.Flag{flags.FromFlag, flags.CandidateFlag},
		Action: voteCommand,
	},
	{
		Name:      "balance",
		Usage:     "Print the balance of an account",
		ArgsUsage: "<account>",
		Flags:     []cli.Flag{flags.VersionFlag},
		Action:    balanceCommand,
	},
	{
		Name:      "history",
		Usage:     "Print every checkpoint of an account",
		ArgsUsage: "<account>",
		Action:    historyCommand,
	},
	{
		Name:   "voters",
		Usage:  "Print a page of voters with their choices and weights",
		Flags:  []cli.Flag{flags.OffsetFlag, flags.LimitFlag, flags.VersionFlag},
		Action: votersCommand,
	},
	{
		Name:   "summary",
		Usage:  "Print the current weight behind every candidate",
		Action: summaryCommand,
	},
	{
		Name:   "logs",
		Usage:  "Print VoteCast records",
		Flags:  []cli.Flag{flags.OffsetFlag, flags.LimitFlag},
		Action: logsCommand,
	},
	{
		Name:   "claim",
		Usage:  "Move tokens held by the session account to the owner",
		Flags:  []cli.Flag{flags.FromFlag},
		Action: claimCommand,
	},
	{
		Name:   "dumpconfig",
		Usage:  "Print the merged configuration as TOML",
		Action: dumpConfigCommand,
	},
}

// env is the per-invocation state shared by commands.
type env struct {
	cfg Config
	log *logrus.Logger
	out io.Writer
}

func setup(ctx *cli.Context) (*env, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(os.Stderr, cfg.Node.Logging, cfg.Node.SentryDSN)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger, out: ctx.App.Writer}, nil
}

// withBallot opens the stored deployment, moves the host clock to --block if
// given, runs fn and closes the database.
func withBallot(ctx *cli.Context, fn func(e *env, b *integration.Ballot) error) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	db, err := integration.OpenDB(e.cfg.Node.DataDir, e.cfg.Store, false)
	if err != nil {
		return err
	}
	b, err := integration.OpenBallot(db, e.cfg.Store, e.log)
	if err != nil {
		db.Close()
		return err
	}
	defer b.Close()

	if ctx.GlobalIsSet("block") {
		if err := b.Clock.Set(idx.Block(ctx.GlobalUint64("block"))); err != nil {
			return err
		}
	}
	return fn(e, b)
}

func initCommand(ctx *cli.Context) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	s := e.cfg.Session
	g := genesis.Genesis{
		Rules: opera.NewRules(s.Name, s.Candidates, idx.Block(s.EndBlock), s.Ledger, s.Owner),
		Block: idx.Block(ctx.GlobalUint64("block")),
	}
	return initBallot(e, g)
}

func fakenetCommand(ctx *cli.Context) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	balance, err := parseAmount(e.cfg.FakeNet.Balance)
	if err != nil {
		return err
	}
	g := genesis.FakeGenesis(e.cfg.FakeNet.Accounts, balance)
	if err := initBallot(e, g); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s%d\t%s\towner\n", fakeAccountPrefix, 0, genesis.FakeAccount(0).Hex())
	for i := 1; i <= e.cfg.FakeNet.Accounts; i++ {
		fmt.Fprintf(e.out, "%s%d\t%s\t%s\n", fakeAccountPrefix, i, genesis.FakeAccount(i).Hex(), balance)
	}
	return nil
}

func initBallot(e *env, g genesis.Genesis) error {
	db, err := integration.OpenDB(e.cfg.Node.DataDir, e.cfg.Store, false)
	if err != nil {
		return err
	}
	b, err := integration.InitBallot(db, g, e.cfg.Store, e.log)
	if err != nil {
		db.Close()
		return err
	}
	defer b.Close()

	rules := b.Session.Rules()
	fmt.Fprintf(e.out, "session %s (%s)\n", rules.Name, rules.ID)
	fmt.Fprintf(e.out, "candidates: %d, end block: %d, host block: %d\n", rules.Candidates, rules.EndBlock, b.Clock.Current())
	fmt.Fprintf(e.out, "session account: %s\n", rules.Address().Hex())
	return nil
}

func creditCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		to, amount, err := accountAndAmount(ctx, "to")
		if err != nil {
			return err
		}
		if err := b.Ledger.Credit(to, amount, b.Clock.Current()); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%s: %s\n", to.Hex(), b.Ledger.BalanceNow(to))
		return nil
	})
}

func debitCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		from, amount, err := accountAndAmount(ctx, "from")
		if err != nil {
			return err
		}
		if err := b.Ledger.Debit(from, amount, b.Clock.Current()); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%s: %s\n", from.Hex(), b.Ledger.BalanceNow(from))
		return nil
	})
}

func transferCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		from, amount, err := accountAndAmount(ctx, "from")
		if err != nil {
			return err
		}
		to, err := parseAccount(ctx.String("to"))
		if err != nil {
			return err
		}
		if err := b.Ledger.Transfer(from, to, amount, b.Clock.Current()); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%s: %s\n", from.Hex(), b.Ledger.BalanceNow(from))
		fmt.Fprintf(e.out, "%s: %s\n", to.Hex(), b.Ledger.BalanceNow(to))
		return nil
	})
}

func voteCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		from, err := parseAccount(ctx.String("from"))
		if err != nil {
			return err
		}
		input, err := ballot.ABI().Pack("vote", new(big.Int).SetUint64(ctx.Uint64("candidate")))
		if err != nil {
			return err
		}
		_, logs, err := b.Contract.Run(from, input)
		if err != nil {
			return err
		}
		for _, l := range logs {
			rec, err := ballot.ParseVoteLog(l)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "vote #%d: %s -> %d at block %d\n", rec.Seq, rec.Voter.Hex(), rec.Candidate, rec.Version)
		}
		return nil
	})
}

func balanceCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		acc, err := parseAccount(ctx.Args().First())
		if err != nil {
			return err
		}
		version := readVersion(ctx, b)
		fmt.Fprintf(e.out, "%s at %d: %s\n", acc.Hex(), version, b.Ledger.BalanceAt(acc, version))
		return nil
	})
}

func historyCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		acc, err := parseAccount(ctx.Args().First())
		if err != nil {
			return err
		}
		for _, cp := range b.Ledger.History(acc) {
			fmt.Fprintf(e.out, "%d\t%s\n", cp.Version, cp.Balance)
		}
		return nil
	})
}

func votersCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		offset := ctx.Uint64("offset")
		page := b.Session.GetVotersAt(offset, ctx.Uint64("limit"), readVersion(ctx, b))
		for i := 0; i < page.Len(); i++ {
			fmt.Fprintf(e.out, "%d\t%s\t%d\t%s\n", offset+uint64(i), page.Voters[i].Hex(), page.Choices[i], page.Amounts[i])
		}
		fmt.Fprintf(e.out, "%d of %d voters\n", page.Len(), b.Session.VotersCount())
		return nil
	})
}

func summaryCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		summary := b.Session.GetSummary()
		for i, candidate := range summary.Candidates {
			fmt.Fprintf(e.out, "%d\t%s\n", candidate, summary.Amounts[i])
		}
		state := "open"
		if !b.Session.Open() {
			state = "closed"
		}
		fmt.Fprintf(e.out, "voting %s at block %d (end %d)\n", state, b.Clock.Current(), b.Session.EndBlock())
		return nil
	})
}

func logsCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		from := ctx.Uint64("offset")
		to := from + ctx.Uint64("limit")
		if to < from {
			to = math.MaxUint64
		}
		for _, rec := range b.Session.Logs(from, to) {
			fmt.Fprintf(e.out, "%d\t%d\t%s\t%d\t%s\n", rec.Seq, rec.Version, rec.Voter.Hex(), rec.Candidate, rec.Hash().Hex())
		}
		return nil
	})
}

func claimCommand(ctx *cli.Context) error {
	return withBallot(ctx, func(e *env, b *integration.Ballot) error {
		from, err := parseAccount(ctx.String("from"))
		if err != nil {
			return err
		}
		input, err := ballot.ABI().Pack("claimTokens", b.Session.Rules().Ledger)
		if err != nil {
			return err
		}
		_, logs, err := b.Contract.Run(from, input)
		if err != nil {
			return err
		}
		claimed := new(big.Int)
		for _, l := range logs {
			claimed.Add(claimed, new(big.Int).SetBytes(l.Data))
		}
		fmt.Fprintf(e.out, "claimed %s to %s\n", claimed, from.Hex())
		return nil
	})
}

func dumpConfigCommand(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	return dumpConfig(ctx.App.Writer, &cfg)
}

// readVersion returns --version, or the host block when it is not given.
func readVersion(ctx *cli.Context, b *integration.Ballot) idx.Block {
	if ctx.IsSet("version") {
		return idx.Block(ctx.Uint64("version"))
	}
	return b.Clock.Current()
}

func accountAndAmount(ctx *cli.Context, accountFlag string) (common.Address, *big.Int, error) {
	acc, err := parseAccount(ctx.String(accountFlag))
	if err != nil {
		return common.Address{}, nil, err
	}
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return common.Address{}, nil, err
	}
	return acc, amount, nil
}

// parseAccount accepts a hex address or fake:N.
func parseAccount(s string) (common.Address, error) {
	if strings.HasPrefix(s, fakeAccountPrefix) {
		n, err := strconv.Atoi(strings.TrimPrefix(s, fakeAccountPrefix))
		if err != nil || n < 0 {
			return common.Address{}, fmt.Errorf("invalid fake account %q", s)
		}
		return genesis.FakeAccount(n), nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid account %q", s)
	}
	return common.HexToAddress(s), nil
}

var errEmptyAmount = errors.New("amount is required")

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, errEmptyAmount
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
