// internal/inspectapp/inspectapp.go
package inspectapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"simpleaf/internal/home"
	"simpleaf/internal/jsonutil"
)

// RunContext prints the persisted configuration (tool registry plus custom
// chemistries) as one pretty JSON document. The subcommand takes no flags.
func RunContext(_ context.Context, argv []string, stdout, stderr io.Writer) int {
	if len(argv) > 0 {
		_, _ = fmt.Fprintf(stderr, "inspect takes no arguments (got %q)\n", argv)
		return 2
	}

	h, err := home.Resolve()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	info, err := h.LoadInfoRaw()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	custom, err := h.LoadCustomChemistries()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	if len(custom) > 0 {
		raw, err := json.Marshal(custom)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		info["custom_chemistries"] = raw
	}
	if err := jsonutil.EncodePretty(stdout, info); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
