package actions

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govctl/internal/domain"
)

const proposalYAML = `
title: Q3 contributor rewards
summary: Mint rewards and merge the audit fixes
duration: 72h
resources:
  - https://forum.example.org/t/q3
actions:
  - name: mint_tokens
    recipients:
      - to: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
        amount: "100"
  - name: merge_pr
    url: https://github.com/secureseco/dao/pull/12
  - name: withdraw_assets
    recipient: "0x4000000000000000000000000000000000000004"
    amount: "0.1"
`

func TestParseProposalFile(t *testing.T) {
	codec := newTestCodec(t, nil)

	pf, err := ParseProposalFile([]byte(proposalYAML), codec.Registry())
	require.NoError(t, err)

	assert.Equal(t, "Q3 contributor rewards", pf.Metadata.Title)
	assert.Equal(t, []string{"https://forum.example.org/t/q3"}, pf.Metadata.Resources)
	assert.Equal(t, 72*time.Hour, pf.Duration)
	require.Len(t, pf.Actions, 3)

	mint, ok := pf.Actions[0].(*domain.MintTokens)
	require.True(t, ok)
	assert.Equal(t, "100", mint.Recipients[0].Amount)

	merge, ok := pf.Actions[1].(*domain.MergePR)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/secureseco/dao/pull/12", merge.URL)

	_, ok = pf.Actions[2].(*domain.WithdrawAssets)
	assert.True(t, ok)
}

func TestParseProposalFile_Errors(t *testing.T) {
	codec := newTestCodec(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", "summary: x\nactions: []\n"},
		{"unknown action", "title: t\nactions:\n  - name: burn_tokens\n"},
		{"missing name", "title: t\nactions:\n  - url: x\n"},
		{"bad duration", "title: t\nduration: soon\n"},
		{"not yaml", "title: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProposalFile([]byte(tt.body), codec.Registry())
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestParseProposalFile_DefaultDuration(t *testing.T) {
	codec := newTestCodec(t, nil)
	pf, err := ParseProposalFile([]byte("title: t\n"), codec.Registry())
	require.NoError(t, err)
	assert.Equal(t, DefaultVotingPeriod, pf.Duration)
	assert.Empty(t, pf.Actions)
}

func TestTemplate(t *testing.T) {
	codec := newTestCodec(t, nil)

	out, err := Template(codec.Registry(), domain.ActionChangeParam)
	require.NoError(t, err)
	assert.Contains(t, out, "- name: change_param")
	assert.Contains(t, out, "plugin:")
	assert.Contains(t, out, "value:")

	// a template parses back into an empty form of the same kind
	pf, err := ParseProposalFile([]byte("title: t\nactions:\n"+indent(out)), codec.Registry())
	require.NoError(t, err)
	require.Len(t, pf.Actions, 1)
	assert.Equal(t, domain.ActionChangeParam, pf.Actions[0].Name())
}

func indent(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func TestParseActionList_JSON(t *testing.T) {
	codec := newTestCodec(t, nil)

	list, err := ParseActionList([]byte(`{"actions":[
		{"name":"withdraw_assets","recipient":"0x4000000000000000000000000000000000000004","amount":"1"},
		{"name":"change_param","plugin":"voting","parameter":"minParticipation","value":"10"}
	]}`), codec.Registry())
	require.NoError(t, err)
	require.Len(t, list, 2)

	w, ok := list[0].(*domain.WithdrawAssets)
	require.True(t, ok)
	assert.Equal(t, "1", w.Amount)
	assert.Equal(t, domain.ActionChangeParam, list[1].Name())

	_, err = ParseActionList([]byte(`{"actions":[{"name":"nope"}]}`), codec.Registry())
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
