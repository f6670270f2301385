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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo/model"
)

func testClients() []model.Client {
	return []model.Client{
		{ClientID: "clt_1", CompanyName: "Invomex"},
		{ClientID: "clt_2", CompanyName: "Grupo Radial Centro"},
		{ClientID: "clt_3", CompanyName: "Laboratorios Monarca"},
	}
}

func TestResolveExactMatch(t *testing.T) {
	r := NewResolver(testClients(), nil)

	client := r.Resolve("INVOMEX")
	assert.NotNil(t, client)
	assert.Equal(t, "clt_1", client.ClientID)
}

func TestResolveAliasBeatsExact(t *testing.T) {
	// The alias table must win even when the text exactly matches another
	// client's name.
	clients := append(testClients(), model.Client{ClientID: "clt_4", CompanyName: "SGAC"})
	r := NewResolver(clients, map[string]string{"sgac": "Invomex"})

	client := r.Resolve("SGAC")
	assert.NotNil(t, client)
	assert.Equal(t, "clt_1", client.ClientID)
}

func TestResolveContainment(t *testing.T) {
	r := NewResolver(testClients(), nil)

	client := r.Resolve("Pago a Invomex SA de CV")
	assert.NotNil(t, client)
	assert.Equal(t, "clt_1", client.ClientID)
}

func TestResolveTokenOverlap(t *testing.T) {
	r := NewResolver(testClients(), nil)

	client := r.Resolve("Monarca Servicios")
	assert.NotNil(t, client)
	assert.Equal(t, "clt_3", client.ClientID)
}

func TestResolveNearTokenRecoverySingleTypo(t *testing.T) {
	r := NewResolver(testClients(), nil)

	client := r.Resolve("Laboratorios Monarka")
	assert.NotNil(t, client)
	assert.Equal(t, "clt_3", client.ClientID)
}

func TestResolveNoSignal(t *testing.T) {
	r := NewResolver(testClients(), nil)

	assert.Nil(t, r.Resolve("Completely Unrelated SA"))
	assert.Nil(t, r.Resolve(""))
	assert.Nil(t, r.Resolve("   "))
}

func TestResolveDeterministicTieBreak(t *testing.T) {
	// Two clients with the same name: the earlier one in load order always
	// wins, on every call.
	clients := []model.Client{
		{ClientID: "clt_a", CompanyName: "Duplicado SA"},
		{ClientID: "clt_b", CompanyName: "Duplicado SA"},
	}
	r := NewResolver(clients, nil)

	for i := 0; i < 10; i++ {
		client := r.Resolve("Duplicado SA")
		assert.NotNil(t, client)
		assert.Equal(t, "clt_a", client.ClientID)
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := NewResolver(testClients(), map[string]string{"grc": "Grupo Radial Centro"})

	first := r.Resolve("GRC *pauta*")
	second := r.Resolve("GRC *pauta*")
	assert.NotNil(t, first)
	assert.NotNil(t, second)
	assert.Equal(t, first.ClientID, second.ClientID)
	assert.Equal(t, "clt_2", first.ClientID)
}
