package graph_test

import (
	"fmt"
	"slices"

	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/termmap"
)

func ExampleFromMap() {
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

	l := graph.FromMap(m)
	fmt.Println("kind:", l.Kind)
	fmt.Println("context:", l.Context)
	for _, r := range l.Redexes {
		fmt.Printf("%s applies %s to %s: covered %v\n", r.ID, r.Abstraction, r.Application, slices.Contains(r.Elements, r.Application))
	}
	fmt.Println("valid:", graph.Validate(l) == nil)
	// Output:
	// kind: map
	// context: [y]
	// beta-0 applies λx to [λx. x @ y]: covered true
	// valid: true
}
