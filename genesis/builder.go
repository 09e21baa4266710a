// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/feeless/kv"
	"github.com/vechain/feeless/lvldb"
	"github.com/vechain/feeless/state"
)

// Builder helper to build genesis state.
type Builder struct {
	stateProcs []func(state *state.State) error
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build applies every state process in order and commits the state into store,
// together with writes.
func (b *Builder) Build(store kv.Store, writes ...func(kv.Putter) error) (*state.State, error) {
	st := state.New(store)
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	if err := st.Commit(writes...); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	return st, nil
}

// Dry builds the genesis state in memory, to check that it builds.
func (b *Builder) Dry() error {
	db, err := lvldb.NewMem()
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = b.Build(db)
	return err
}
