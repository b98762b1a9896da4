package selector_test

import (
	"fmt"

	"github.com/matzehuels/kfmtool/pkg/selector"
)

func ExampleParse() {
	ids := []uint32{1, 2, 10, 11, 21}

	lit, _ := selector.Parse("10")
	fmt.Println(lit.Resolve(ids))

	pat, _ := selector.Parse(`/^1\d?$/`)
	fmt.Println(pat.Resolve(ids))

	// Unanchored patterns match anywhere in the decimal form.
	fmt.Println(selector.MustPattern("1").Resolve(ids))
	// Output:
	// [10]
	// [1 10 11]
	// [1 10 11 21]
}
