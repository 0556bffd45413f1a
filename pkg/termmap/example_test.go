package termmap_test

import (
	"fmt"

	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/termmap"
)

func ExampleBuild() {
	term, ctx, err := lambda.Parse(`(\x. x) y`)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	m, err := termmap.Build(term, ctx, termmap.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, kind := range []termmap.NodeKind{termmap.KindAbstraction, termmap.KindApplication, termmap.KindFreeAbstraction} {
		for _, n := range m.NodesOfKind(kind) {
			fmt.Printf("%s %s at (%v, %v)\n", n.Type(), n.ID, n.Position.X, n.Position.Y)
		}
	}
	for _, r := range m.Redexes {
		fmt.Printf("%s: %s applies %s\n", r.ID, r.Application, r.Abstraction)
	}
	// Output:
	// abs-node λx at (-60, -60)
	// app-node [λx. x @ y] at (0, -30)
	// abs-node-free λy at (60, 0)
	// beta-0: [λx. x @ y] applies λx
}
