/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package generator

import (
	"fmt"
)

// Principals funded at genesis of the warmed store.
var (
	GenesisSender    = [8]byte{7: 0x01}
	GenesisRecipient = [8]byte{7: 0x02}
)

// assetName returns a random asset name of 10 to 19 characters.
func (g *Generator) assetName() string {
	return g.random.Letters(10 + g.random.IntN(10))
}

// assetAmount returns a random amount of 1 to 100 units.
func (g *Generator) assetAmount() uint64 {
	return g.random.Uint64Range(1, 100)
}

// assetID returns a random non-fungible asset id of size characters.
func (g *Generator) assetID(size uint64) string {
	return g.random.Letters(int(max(size, 1)))
}

func (g *Generator) address() string {
	return addressLiteral(g.random.Address())
}

// defineFungibleToken adds the definition of a token with unlimited supply to the setup,
// and mints the given amount to the owner, if any.
func defineFungibleToken(b *workloadBuilder, name string, amount uint64, owner string) {
	b.setup.body.add("ftDefine(%q, 0)", name)
	if amount > 0 {
		b.setup.body.add("ftMint(%q, %d, %s)", name, amount, owner)
	}
}

func generateFTDefine(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		// supply is absent (unlimited) or present, with equal probability
		var supply uint64
		if g.random.Bool() {
			supply = g.random.Uint64Range(1, 1_000_000_000)
		}
		b.body.add("let %s = ftDefine(%q, %d)", b.body.fresh("r"), g.assetName(), supply)
	})
	return nil
}

func generateFTMint(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	defineFungibleToken(b, name, 0, "")

	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = ftMint(%q, %d, %s)",
			b.body.fresh("r"),
			name,
			g.assetAmount(),
			g.address(),
		)
	})
	return nil
}

func generateFTTransfer(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	sender := g.address()
	defineFungibleToken(b, name, b.spec.Scale*100, sender)

	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = ftTransfer(%q, %d, %s, %s)",
			b.body.fresh("r"),
			name,
			g.assetAmount(),
			sender,
			g.address(),
		)
	})
	return nil
}

func generateFTBalance(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	owner := g.address()
	defineFungibleToken(b, name, g.assetAmount(), owner)

	b.repeat(func(_ uint64) {
		b.body.add("let %s = ftBalance(%q, %s)", b.body.fresh("r"), name, owner)
	})
	return nil
}

func generateFTSupply(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	defineFungibleToken(b, name, g.assetAmount(), g.address())

	b.repeat(func(_ uint64) {
		b.body.add("let %s = ftSupply(%q)", b.body.fresh("r"), name)
	})
	return nil
}

func generateFTBurn(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	owner := g.address()
	defineFungibleToken(b, name, b.spec.Scale*100, owner)

	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = ftBurn(%q, %d, %s)",
			b.body.fresh("r"),
			name,
			g.assetAmount(),
			owner,
		)
	})
	return nil
}

func generateNFTMint(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = nftMint(%q, %q, %s)",
			b.body.fresh("r"),
			name,
			g.assetID(b.spec.Size),
			g.address(),
		)
	})
	return nil
}

func generateNFTTransfer(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	id := g.assetID(b.spec.Size)
	owner := g.address()
	b.setup.body.add("nftMint(%q, %q, %s)", name, id, owner)

	// the asset is passed along a chain of owners
	b.repeat(func(_ uint64) {
		recipient := g.address()
		b.body.add(
			"let %s = nftTransfer(%q, %q, %s, %s)",
			b.body.fresh("r"),
			name,
			id,
			owner,
			recipient,
		)
		owner = recipient
	})
	return nil
}

func generateNFTOwner(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	id := g.assetID(b.spec.Size)
	b.setup.body.add("nftMint(%q, %q, %s)", name, id, g.address())

	b.repeat(func(_ uint64) {
		// query the minted asset, or an asset which does not exist,
		// with equal probability
		queried := id
		if g.random.Bool() {
			queried = fmt.Sprintf("%s-missing", id)
		}
		b.body.add("let %s = nftOwner(%q, %q)", b.body.fresh("r"), name, queried)
	})
	return nil
}

func generateNFTBurn(g *Generator, b *workloadBuilder) error {
	name := g.assetName()
	owner := g.address()
	b.repeat(func(i uint64) {
		id := fmt.Sprintf("%s%d", g.assetID(b.spec.Size), i)
		b.setup.body.add("nftMint(%q, %q, %s)", name, id, owner)
		b.body.add("let %s = nftBurn(%q, %q, %s)", b.body.fresh("r"), name, id, owner)
	})
	return nil
}

func generateTokenTransfer(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		b.body.add(
			"let %s = tokenTransfer(%d, %s, %s)",
			b.body.fresh("r"),
			g.assetAmount(),
			addressLiteral(GenesisSender),
			addressLiteral(GenesisRecipient),
		)
	})
	return nil
}

func generateTokenBalance(g *Generator, b *workloadBuilder) error {
	b.repeat(func(_ uint64) {
		owner := GenesisSender
		if g.random.Bool() {
			owner = GenesisRecipient
		}
		b.body.add("let %s = tokenBalance(%s)", b.body.fresh("r"), addressLiteral(owner))
	})
	return nil
}
