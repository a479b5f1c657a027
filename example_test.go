package pigeonhole_test

import (
	"bytes"
	"fmt"

	"github.com/homier/pigeonhole"
)

func ExampleArena() {
	a := pigeonhole.New[string]()

	alice := a.Insert("alice")
	bob := a.Insert("bob")

	if _, err := a.Remove(alice); err != nil {
		panic(err)
	}

	carol := a.Insert("carol") // reuses alice's id

	v, _ := a.Get(bob)
	fmt.Println(v, carol == alice)

	for name := range a.Values() {
		fmt.Println(name)
	}

	// Output:
	// bob true
	// carol
	// bob
}

type treeNode struct {
	ID     int
	Parent int
}

func ExampleArena_Reserve() {
	a := pigeonhole.New[treeNode]()
	root := a.Insert(treeNode{ID: 0, Parent: -1})

	r := a.Reserve()
	defer r.Abort()

	if err := r.Commit(treeNode{ID: r.ID(), Parent: root}); err != nil {
		panic(err)
	}

	child, _ := a.Get(r.ID())
	fmt.Printf("%+v\n", child)

	// Output:
	// {ID:1 Parent:0}
}

func ExampleArena_InsertFunc() {
	a := pigeonhole.New[string]()

	id, err := a.InsertFunc(func(id int) (string, error) {
		return fmt.Sprintf("node-%d", id), nil
	})
	if err != nil {
		panic(err)
	}

	v, _ := a.Get(id)
	fmt.Println(v)

	// Output:
	// node-0
}

func ExampleArena_WriteSnapshot() {
	a := pigeonhole.New[string]()
	a.Insert("x")
	y := a.Insert("y")
	_, _ = a.Remove(y)

	var buf bytes.Buffer
	if err := a.WriteSnapshot(&buf, pigeonhole.WithCompression(pigeonhole.CompressionLZ4)); err != nil {
		panic(err)
	}

	b, err := pigeonhole.ReadSnapshot[string](&buf)
	if err != nil {
		panic(err)
	}

	fmt.Println(b.Len(), b.Insert("z") == y)

	// Output:
	// 1 true
}
