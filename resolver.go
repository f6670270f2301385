/*
Copyright 2025 Centavo Authors.

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

package centavo

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/centavohq/centavo/model"
)

// Score priors per matching signal. An alias hit always beats an exact name
// match, which beats containment, which beats token overlap.
const (
	// An alias hit must dominate any combination of the other signals.
	scoreAlias           = 1000
	scoreExact           = 300
	scoreContainment     = 200
	scoreTokenOverlap    = 100
	scoreExtraToken      = 10
	scoreNearToken       = 40
	minContainmentLength = 3
	minTokenLength       = 3
	minNearTokenLength   = 5
)

type aliasEntry struct {
	fragment string // matching-normalized fragment looked for in company text
	target   string // matching-normalized canonical client name
}

// Resolver matches free-text company names against the loaded client list
// using a single additive score. Scoring makes resolution deterministic:
// strictly-greater scores win, and ties keep the earliest client in load
// order.
type Resolver struct {
	clients []model.Client
	keys    []string
	aliases []aliasEntry
}

// NewResolver builds a resolver over a client snapshot. The alias table maps
// known decorated or abbreviated company fragments to the canonical client
// name they must resolve to; it comes from configuration so operators can
// extend it without a deploy. Aliases are held in sorted order so iteration
// never depends on map ordering.
func NewResolver(clients []model.Client, aliases map[string]string) *Resolver {
	keys := make([]string, len(clients))
	for i, client := range clients {
		keys[i] = MatchKey(client.CompanyName)
	}

	entries := make([]aliasEntry, 0, len(aliases))
	for fragment, target := range aliases {
		entries = append(entries, aliasEntry{fragment: MatchKey(fragment), target: MatchKey(target)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].fragment < entries[j].fragment })

	return &Resolver{clients: clients, keys: keys, aliases: entries}
}

// Resolve returns the best-scoring client for the given company text, or nil
// when no signal fires at all. Resolving the same text against an unchanged
// snapshot always yields the same client.
func (r *Resolver) Resolve(company string) *model.Client {
	key := MatchKey(company)
	if key == "" {
		return nil
	}

	bestScore := 0
	bestIndex := -1
	for i := range r.clients {
		score := r.score(key, r.keys[i])
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}
	if bestIndex < 0 {
		return nil
	}
	return &r.clients[bestIndex]
}

func (r *Resolver) score(companyKey, clientKey string) int {
	score := 0

	for _, alias := range r.aliases {
		if clientKey == alias.target && strings.Contains(companyKey, alias.fragment) {
			score += scoreAlias
			break
		}
	}

	if companyKey == clientKey {
		score += scoreExact
	}

	if len(companyKey) >= minContainmentLength && len(clientKey) >= minContainmentLength &&
		(strings.Contains(companyKey, clientKey) || strings.Contains(clientKey, companyKey)) {
		score += scoreContainment
	}

	score += tokenOverlapScore(companyKey, clientKey)

	return score
}

// tokenOverlapScore compares whitespace tokens of length >= 3 on both sides.
// The first shared token is worth the tier prior, every additional one a small
// bonus. Longer tokens within edit distance 1 count at reduced weight, which
// recovers single-typo company names.
func tokenOverlapScore(companyKey, clientKey string) int {
	companyTokens := significantTokens(companyKey)
	clientTokens := significantTokens(clientKey)
	if len(companyTokens) == 0 || len(clientTokens) == 0 {
		return 0
	}

	shared := 0
	near := 0
	for _, ct := range companyTokens {
		matched := false
		for _, kt := range clientTokens {
			if ct == kt {
				shared++
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if len(ct) < minNearTokenLength {
			continue
		}
		for _, kt := range clientTokens {
			if len(kt) < minNearTokenLength {
				continue
			}
			if levenshtein.DistanceForStrings([]rune(ct), []rune(kt), levenshtein.DefaultOptions) <= 1 {
				near++
				break
			}
		}
	}

	score := 0
	if shared > 0 {
		score += scoreTokenOverlap + (shared-1)*scoreExtraToken
	}
	score += near * scoreNearToken
	return score
}

func significantTokens(key string) []string {
	fields := strings.Fields(key)
	tokens := fields[:0]
	for _, field := range fields {
		if len(field) >= minTokenLength {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
