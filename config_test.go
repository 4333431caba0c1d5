// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	doc := `
name: states
range: integer
labeling: index-set
nodesize: 500
maxnodesize: 4000
cachesize: 300
cacheratio: 25
`
	c, err := LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	expected := &Config{
		Name:        "states",
		Range:       "integer",
		Labeling:    "index-set",
		Nodesize:    500,
		Maxnodesize: 4000,
		Cachesize:   300,
		Cacheratio:  25,
	}
	if diff := cmp.Diff(expected, c); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}

	options, err := c.Options()
	require.NoError(t, err)
	cfg := makeconfigs(options...)
	assert.Equal(t, "states", cfg.name)
	assert.Equal(t, Integer, cfg.rangeType)
	assert.Equal(t, IndexSet, cfg.labeling)
	assert.Equal(t, 500, cfg.nodesize)
	assert.Equal(t, 4000, cfg.maxnodesize)
	assert.Equal(t, 300, cfg.cachesize)
	assert.Equal(t, 25, cfg.cacheratio)
	// unset values keep their defaults
	assert.Equal(t, _DEFAULTMAXNODEINC, cfg.maxnodeincrease)
	assert.Equal(t, _MINFREENODES, cfg.minfreenodes)
	assert.NotNil(t, cfg.log)
}

func TestLoadConfigEmpty(t *testing.T) {
	c, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	options, err := c.Options()
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestLoadConfigErrors(t *testing.T) {
	var configTests = []struct {
		doc    string
		config bool
	}{
		{"range: real\n", true},
		{"labeling: edge-valued\n", true},
		{"nodesizes: 12\n", false},
		{"nodesize: [1, 2]\n", false},
	}
	for _, tt := range configTests {
		_, err := LoadConfig(strings.NewReader(tt.doc))
		require.Error(t, err, tt.doc)
		if tt.config {
			assert.ErrorIs(t, err, ErrConfig, tt.doc)
		}
	}
}

func TestConfigStrings(t *testing.T) {
	assert.Equal(t, "BOOLEAN", Boolean.String())
	assert.Equal(t, "INTEGER", Integer.String())
	assert.Equal(t, "MULTI_TERMINAL", MultiTerminal.String())
	assert.Equal(t, "INDEX_SET", IndexSet.String())
}
