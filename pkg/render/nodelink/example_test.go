package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := extract.Parse("function main() { new Server(); }\nclass Server {}")

	dot := nodelink.ToDOT(g, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "node_1" -> "node_2" [label="creates"];
}
