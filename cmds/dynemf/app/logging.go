package app

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dynemf/cli", "dynemf command line tool")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
