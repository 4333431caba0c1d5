// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd_test

import (
	"fmt"
	"log"

	"github.com/dalzilio/mdd"
)

// This example shows the basic usage of the package: create a set of
// assignments, number its elements and output the result.
func Example_basic() {
	// Two variables: x2 (the top one) with values {0, 1, 2} and x1 with
	// values {0, 1}.
	d, _ := mdd.NewDomain(2, 3)
	set, _ := mdd.NewForest(d, mdd.Name("set"))
	index, _ := mdd.NewForest(d, mdd.Name("index"), mdd.Range(mdd.Integer), mdd.Labeling(mdd.IndexSet))
	op, err := mdd.NewConvertToIndexSet(set, index, mdd.NewComputeTable(mdd.Cachesize(1000)))
	if err != nil {
		log.Fatal(err)
	}
	// e is the set {(2, *), (0, 1)}, where * stands for every value.
	e, _ := set.FromMinterms([][]int{{2, mdd.DontCare}, {0, 1}})
	defer e.Release()
	res, card, _ := op.Apply(e)
	defer res.Release()
	index.Enumerate(res, func(a []int, i int64) error {
		fmt.Printf("%v -> %d\n", a, i)
		return nil
	})
	fmt.Printf("Number of elements: %d\n", card)
	// Output:
	// [0 1] -> 0
	// [2 0] -> 1
	// [2 1] -> 2
	// Number of elements: 3
}

// This example shows how configuration errors are reported when building an
// operation.
func Example_configError() {
	d, _ := mdd.NewDomain(2)
	set, _ := mdd.NewForest(d, mdd.Name("set"))
	other, _ := mdd.NewForest(d, mdd.Name("other"))
	_, err := mdd.NewConvertToIndexSet(set, other, mdd.NewComputeTable())
	fmt.Println(err)
	// Output:
	// ConvertToIndexSet: incompatible forest configuration: result forest other has range BOOLEAN
}
