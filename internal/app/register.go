package app

// Pull in the built-in operations so their init() registration runs for
// every binary that wires the app layer.
import (
	_ "github.com/avelline/ladle/internal/ops/diffop"
	_ "github.com/avelline/ladle/internal/ops/extractop"
	_ "github.com/avelline/ladle/internal/ops/httpop"
	_ "github.com/avelline/ladle/internal/ops/linksop"
)
