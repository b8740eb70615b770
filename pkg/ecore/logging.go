package ecore

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dynemf/ecore", "dynamic model framework")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
