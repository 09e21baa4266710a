// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/feeless/log"
	"github.com/vechain/feeless/metrics"
	"github.com/vechain/feeless/state"
	"github.com/vechain/feeless/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Feeless",
		Usage:     "Stake-tiered fee-exempt quota engine",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "Build the genesis state into the data dir",
				Flags:  []cli.Flag{dataDirFlag, genesisFlag, verbosityFlag},
				Action: initAction,
			},
			{
				Name:  "replay",
				Usage: "Apply a script of blocks and print the receipts",
				Flags: []cli.Flag{
					dataDirFlag,
					scriptFlag,
					verbosityFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: replayAction,
			},
			{
				Name:   "inspect",
				Usage:  "Print the params, the tiers and optionally an account",
				Flags:  []cli.Flag{dataDirFlag, accountFlag, verbosityFlag},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing database..."); db.Close() }()

	if err := initStore(db, gene); err != nil {
		return err
	}
	fmt.Printf("Genesis:  %v (%v)\nData dir: %v\n", gene.ID(), gene.Name(), ctx.String(dataDirFlag.Name))
	return nil
}

func replayAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.String(scriptFlag.Name) == "" {
		return errors.Errorf("--%v is required", scriptFlag.Name)
	}
	scr, err := loadScript(ctx.String(scriptFlag.Name))
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
		log.Info("metrics server started", "url", url)
	}

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing database..."); db.Close() }()

	results, err := replay(db, scr)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(results)
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)
	var account *thor.Address
	if s := ctx.String(accountFlag.Name); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return errors.Wrapf(err, "--%v", accountFlag.Name)
		}
		account = &addr
	}

	db, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := loadMeta(db); err != nil {
		return err
	}
	report, err := inspect(state.New(db), account)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(report)
}
