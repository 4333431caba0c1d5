// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command mddindex reads a set of assignments from a YAML model, builds the
// corresponding decision diagram and prints every assignment with its index.
//
//	mddindex -f model.yaml [-dot out.dot] [-metrics] [-v]
//
// A model gives the size of each variable (the first one is the top variable),
// the list of minterms (with -1 for don't care) and, optionally, the
// configuration of the forests:
//
//	domain: [3, 2]
//	minterms:
//	  - [0, 1]
//	  - [2, -1]
//	forest:
//	  nodesize: 1000
//	  cachesize: 500
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dalzilio/mdd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type model struct {
	Domain   []int      `yaml:"domain"`
	Minterms [][]int    `yaml:"minterms"`
	Forest   mdd.Config `yaml:"forest"`
}

func main() {
	file := flag.String("f", "", "YAML model file (required, - for stdin)")
	dot := flag.String("dot", "", "write the index-set diagram in DOT format to this file")
	metrics := flag.Bool("metrics", false, "print the metrics of the forests at the end")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: mddindex -f model.yaml [-dot out.dot] [-metrics] [-v]")
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log = l
	}
	defer log.Sync()

	if err := run(*file, *dot, *metrics, log, os.Stdout); err != nil {
		log.Error("mddindex failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "mddindex:", err)
		os.Exit(1)
	}
}

func run(file, dot string, metrics bool, log *zap.Logger, w io.Writer) error {
	m, err := readModel(file)
	if err != nil {
		return err
	}
	d, err := mdd.NewDomain(m.Domain...)
	if err != nil {
		return err
	}
	opts, err := m.Forest.Options()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	opts = append(opts, mdd.Logger(log), mdd.Registerer(reg))

	set, err := mdd.NewForest(d, append(opts, mdd.Name("set"))...)
	if err != nil {
		return err
	}
	index, err := mdd.NewForest(d, append(opts, mdd.Name("index"), mdd.Range(mdd.Integer), mdd.Labeling(mdd.IndexSet))...)
	if err != nil {
		return err
	}
	ct := mdd.NewComputeTable(append(opts, mdd.Name("compute"))...)
	op, err := mdd.NewConvertToIndexSet(set, index, ct)
	if err != nil {
		return err
	}

	e, err := set.FromMinterms(m.Minterms)
	if err != nil {
		return err
	}
	defer e.Release()
	res, card, err := op.Apply(e)
	if err != nil {
		return err
	}
	defer res.Release()

	err = index.Enumerate(res, func(a []int, idx int64) error {
		_, err := fmt.Fprintf(w, "%d\t%v\n", idx, a)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "total: %d\n", card)

	if dot != "" {
		if err := writeDot(index, res, dot); err != nil {
			return err
		}
	}
	if metrics {
		return printMetrics(reg, w)
	}
	return nil
}

func readModel(file string) (*model, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	m := &model{}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("reading model %s: %w", file, err)
	}
	return m, nil
}

func writeDot(f *mdd.Forest, e *mdd.Edge, filename string) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()
	return f.WriteDot(out, e)
}

func printMetrics(reg *prometheus.Registry, w io.Writer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
