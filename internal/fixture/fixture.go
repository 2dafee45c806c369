/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package fixture declares types used by tests to exercise members declared
// in a different package than the types embedding them.
package fixture

import (
	"image"
	"sync"
)

// Account is embedded by test types declared in other packages. Its unexported
// members are private to those descendants.
type Account struct {
	id      int64
	Owner   string
	Balance float64
	limit   *int
}

// NewAccount returns an account with the given id and owner.
func NewAccount(id int64, owner string) *Account {
	return &Account{id: id, Owner: owner}
}

// ID returns the account identifier.
func (a *Account) ID() int64 { return a.id }

// Limit returns the account limit, or -1 when none is set.
func (a *Account) Limit() int {
	if a.limit == nil {
		return -1
	}
	return *a.limit
}

// Deposit adds v to the balance and returns the new balance.
func (a *Account) Deposit(v float64) float64 {
	a.Balance += v
	return a.Balance
}

// Ledger is guarded by an embedded standard library mutex.
type Ledger struct {
	sync.Mutex
	entries []string
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Pixel embeds a standard library type with exported fields.
type Pixel struct {
	image.Point
	color string
}

// Color returns the pixel color.
func (p Pixel) Color() string { return p.color }
