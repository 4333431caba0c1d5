// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestForestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := NewDomain(2, 2)
	require.NoError(t, err)
	f, err := NewForest(d, Name("metrics"), Registerer(reg))
	require.NoError(t, err)

	h := leaf(f, 1)
	h2 := leaf(f, 1)
	assert.Equal(t, h, h2)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.created))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.unique.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.unique.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.active))

	f.Unlink(h)
	f.Unlink(h)
	f.Reclaim()
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.reclaimed))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.active))

	n, err := testutil.GatherAndCount(reg, "mdd_nodes_created_total", "mdd_nodes_reclaimed_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTableMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newBoolForest(t, 2)
	ct := NewComputeTable(Name("memo"), Registerer(reg))
	op := newTestOp(f, ct)
	k := NewKey(op.id, 1, True)
	ct.Search(k)
	ct.Insert(k, Result{Node: True})
	ct.Search(k)
	assert.Equal(t, 1.0, testutil.ToFloat64(ct.metrics.lookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ct.metrics.lookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ct.metrics.entries))
}

func TestDuplicateRegistrationIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reg := prometheus.NewRegistry()
	d, err := NewDomain(2)
	require.NoError(t, err)
	_, err = NewForest(d, Name("twice"), Registerer(reg), Logger(zap.New(core)))
	require.NoError(t, err)
	_, err = NewForest(d, Name("twice"), Registerer(reg), Logger(zap.New(core)))
	require.NoError(t, err)
	assert.NotZero(t, logs.FilterMessage("cannot register metrics").Len())
}

func TestConfigErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d, err := NewDomain(2)
	require.NoError(t, err)
	_, err = NewForest(d, Labeling(IndexSet), Logger(zap.New(core)))
	require.ErrorIs(t, err, ErrConfig)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "rejected configuration", logs.All()[0].Message)
}
