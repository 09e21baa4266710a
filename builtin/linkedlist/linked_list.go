// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/feeless/builtin/solidity"
	"github.com/vechain/feeless/thor"
)

// LinkedList is a storage backed doubly linked list of addresses, kept in insertion order.
// The zero address cannot be stored.
type LinkedList struct {
	head  *solidity.Address
	tail  *solidity.Address
	count *solidity.Uint256
	next  *solidity.Mapping[thor.Address, thor.Address]
	prev  *solidity.Mapping[thor.Address, thor.Address]
}

// NewLinkedList creates a linked list whose pointers live at the given positions.
func NewLinkedList(sctx *solidity.Context, headPos, tailPos, countPos thor.Bytes32) *LinkedList {
	return &LinkedList{
		head:  solidity.NewAddress(sctx, headPos),
		tail:  solidity.NewAddress(sctx, tailPos),
		count: solidity.NewUint256(sctx, countPos),
		next:  solidity.NewMapping[thor.Address, thor.Address](sctx, headPos),
		prev:  solidity.NewMapping[thor.Address, thor.Address](sctx, tailPos),
	}
}

// Contains returns whether address is in the list.
func (l *LinkedList) Contains(address thor.Address) (bool, error) {
	if address.IsZero() {
		return false, nil
	}
	head, err := l.head.Get()
	if err != nil {
		return false, err
	}
	if head == address {
		return true, nil
	}
	return l.prev.Exists(address)
}

// Add appends an address to the end of the list.
// Adding an address already in the list is a no-op.
func (l *LinkedList) Add(address thor.Address) error {
	if address.IsZero() {
		return errors.New("zero address")
	}
	exists, err := l.Contains(address)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		// the list is currently empty, set this entry to head & tail
		l.head.Set(&address)
		l.tail.Set(&address)
		return l.count.Add(big.NewInt(1))
	}

	if err := l.next.Set(oldTail, address); err != nil {
		return err
	}
	if err := l.prev.Set(address, oldTail); err != nil {
		return err
	}
	l.tail.Set(&address)

	return l.count.Add(big.NewInt(1))
}

// Remove unlinks an address from anywhere in the list.
// Removing an address not in the list is a no-op.
func (l *LinkedList) Remove(address thor.Address) error {
	exists, err := l.Contains(address)
	if err != nil || !exists {
		return err
	}

	prev, err := l.prev.Get(address)
	if err != nil {
		return err
	}
	next, err := l.next.Get(address)
	if err != nil {
		return err
	}

	if prev.IsZero() {
		l.head.Set(&next)
	} else if next.IsZero() {
		l.next.Delete(prev)
	} else if err := l.next.Set(prev, next); err != nil {
		return err
	}

	if next.IsZero() {
		l.tail.Set(&prev)
	} else if prev.IsZero() {
		l.prev.Delete(next)
	} else if err := l.prev.Set(next, prev); err != nil {
		return err
	}

	l.next.Delete(address)
	l.prev.Delete(address)

	return l.count.Sub(big.NewInt(1))
}

// Head returns the oldest address, or zero address if the list is empty.
func (l *LinkedList) Head() (thor.Address, error) {
	return l.head.Get()
}

// Next returns the successor address in the list, or zero address if at the end.
func (l *LinkedList) Next(address thor.Address) (thor.Address, error) {
	return l.next.Get(address)
}

// Len returns the number of addresses in the list.
func (l *LinkedList) Len() (uint64, error) {
	n, err := l.count.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Iter traverses the list from head to tail, calling callback for each address until completion or error.
// The callback may remove the visited address.
func (l *LinkedList) Iter(callback func(thor.Address) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}

	for !ptr.IsZero() {
		next, err := l.next.Get(ptr)
		if err != nil {
			return err
		}
		if err := callback(ptr); err != nil {
			return err
		}
		ptr = next
	}
	return nil
}
