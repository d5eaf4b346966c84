package store_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/store"
)

func ExampleNewDiagram() {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close(ctx)

	code := "class Counter {}\nfunction tick() { const c = new Counter(); }"
	d := store.NewDiagram("Counter", code, extract.Parse(code))
	if err := st.Save(ctx, d); err != nil {
		fmt.Println("Error:", err)
		return
	}

	got, err := st.Get(ctx, d.ID)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(got.Title, store.ValidID(got.ID))
	for _, e := range got.Graph.Edges {
		fmt.Println(e.Label)
	}
	// Output:
	// Counter true
	// creates
}
