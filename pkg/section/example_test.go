package section_test

import (
	"fmt"

	"github.com/ifuentes/raceway/pkg/section"
)

func ExampleExpandCableItems() {
	// Small quantities expand to one circle per cable.
	items := section.ExpandCableItems("F-101", 12, 3)
	fmt.Println(len(items), items[0].DiameterMM)

	// Large quantities collapse to a single area-equivalent circle.
	items = section.ExpandCableItems("F-102", 10, 16)
	fmt.Println(len(items), items[0].DiameterMM)
	// Output:
	// 3 12
	// 1 40
}
