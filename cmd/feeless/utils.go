// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/binary"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/feeless/genesis"
	"github.com/vechain/feeless/kv"
	"github.com/vechain/feeless/log"
	"github.com/vechain/feeless/lvldb"
	"github.com/vechain/feeless/thor"
)

var (
	metaBucket   = kv.Bucket("m")
	genesisIDKey = []byte("genesis-id")
	headKey      = []byte("head")

	errNotInitialized = errors.New("data dir not initialized, run init first")
)

func initLogger(ctx *cli.Context) {
	fd := os.Stderr.Fd()
	useColor := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	log.SetDefault(log.NewTerminalHandler(os.Stderr, ctx.Int(verbosityFlag.Name), useColor))
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.feeless")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.feeless")
		} else {
			return filepath.Join(home, ".org.vechain.feeless")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	gene, err := genesis.New(filepath.Base(path), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	return gene, nil
}

func openStore(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use --%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	db, err := lvldb.New(filepath.Join(dataDir, "state.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open state database")
	}
	return db, nil
}

// meta is the bookkeeping of a data dir.
type meta struct {
	GenesisID thor.Bytes32
	Head      uint32
}

// initStore builds the genesis state into an empty store.
func initStore(store kv.Store, gene *genesis.Genesis) error {
	m, err := loadMeta(store)
	switch {
	case err == nil:
		if m.GenesisID != gene.ID() {
			return errors.Errorf("data dir holds genesis %v, not %v", m.GenesisID, gene.ID())
		}
		log.Info("data dir already initialized", "genesis", m.GenesisID, "head", m.Head)
		return nil
	case err != errNotInitialized:
		return err
	}
	_, err = gene.Build(store, func(putter kv.Putter) error {
		if err := metaBucket.NewPutter(putter).Put(genesisIDKey, gene.ID().Bytes()); err != nil {
			return err
		}
		return writeHead(putter, 0)
	})
	return err
}

func loadMeta(store kv.Store) (*meta, error) {
	getter := metaBucket.NewGetter(store)
	id, err := getter.Get(genesisIDKey)
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, errNotInitialized
		}
		return nil, err
	}
	head, err := getter.Get(headKey)
	if err != nil {
		return nil, err
	}
	if len(head) != 4 {
		return nil, errors.New("corrupted head")
	}
	return &meta{
		GenesisID: thor.BytesToBytes32(id),
		Head:      binary.BigEndian.Uint32(head),
	}, nil
}

// headWriter returns a commit write that moves the head to head.
func headWriter(head uint32) func(kv.Putter) error {
	return func(putter kv.Putter) error { return writeHead(putter, head) }
}

func writeHead(putter kv.Putter, head uint32) error {
	return metaBucket.NewPutter(putter).Put(headKey, encodeHead(head))
}

func encodeHead(head uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], head)
	return b[:]
}
