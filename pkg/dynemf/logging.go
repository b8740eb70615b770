package dynemf

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dynemf", "fluent model API")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
