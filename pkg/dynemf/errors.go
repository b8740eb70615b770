package dynemf

import (
	"fmt"
)

var (
	ErrNotLoaded = fmt.Errorf("object has not been loaded")
	ErrType      = fmt.Errorf("unexpected value type")
	ErrNoClass   = fmt.Errorf("unknown class")
	ErrNoRoot    = fmt.Errorf("no such root")
)
