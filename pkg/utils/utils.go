package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"

	"github.com/gowebpki/jcs"
	"github.com/mandelsoft/goutils/errors"
	"github.com/modern-go/reflect2"
)

// OptionalDefaulted provides the first non-zero argument or the
// given default.
func OptionalDefaulted[T any](def T, args ...T) T {
	var _nil T
	for _, e := range args {
		if !reflect.DeepEqual(e, _nil) {
			return e
		}
	}
	return def
}

// HashData provides the hex encoded SHA-256 digest of the canonical JSON
// (RFC 8785) form of d. Byte slices and strings are hashed as they are.
func HashData(d interface{}) (string, error) {
	if reflect2.IsNil(d) {
		return "", nil
	}
	var err error
	var data []byte
	switch b := d.(type) {
	case []byte:
		data = b
	case string:
		data = []byte(b)
	default:
		data, err = json.Marshal(d)
		if err != nil {
			return "", errors.Wrapf(err, "cannot marshal data")
		}
		data, err = jcs.Transform(data)
		if err != nil {
			return "", errors.Wrapf(err, "cannot canonicalize data")
		}
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}
